// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package oracle declares the ancestry oracle contract (§6): an externally
// supplied, read-safe-from-multiple-threads source of class hierarchy facts
// the resolver and duck-typing inference consult. The core never computes
// method-resolution order itself.
package oracle

// ConstantKind classifies what a bare name denotes, for Constant-node
// resolution (§4.6).
type ConstantKind uint8

const (
	ConstantUnknown ConstantKind = iota
	ConstantClass
	ConstantModule
)

// Oracle is implemented by the editor bridge / project model. Every method
// must be safe to call concurrently from multiple resolver goroutines (§5).
type Oracle interface {
	// Ancestors returns classPath's method-resolution order, classPath
	// itself first, in search order.
	Ancestors(classPath string) []string

	// FindClassesDefiningMethods returns every class that defines every name
	// in methodNames, including through ancestors. Whether modules are also
	// returned is up to the implementation; the core passes the names
	// through unchanged.
	FindClassesDefiningMethods(methodNames []string) []string

	// ConstantKind reports whether name denotes a class, a module, or
	// neither.
	ConstantKind(name string) ConstantKind
}
