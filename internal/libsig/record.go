// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package libsig is the library-signature registry (§4.4): pre-indexed
// method signatures for project-external (library) classes, with overload
// resolution, block-parameter typing, and generic-parameter substitution.
// It consumes already-decoded signature records; parsing the on-disk
// library-signature store format is explicitly a collaborator's job (§1).
package libsig

import "github.com/duckhaven/typelens/typeval"

// Param is one positional, keyword, or block parameter of a declared
// overload.
type Param struct {
	Name string
	Type typeval.Type
}

// Overload is one declared call shape of a method (§4.4): a positional
// parameter list, a keyword parameter map, an optional block signature, a
// return type, and any generic type parameters declared on the method or
// its owning class.
type Overload struct {
	Positional    []Param
	RestIndex     int // index into Positional that repeats, or -1 if none
	Keywords      map[string]Param
	KeywordRest   bool
	Block         []Param // nil if the overload takes no block
	Return        typeval.Type
	GenericParams []string // e.g. ["Elem"] for a method declared on C[Elem]
}

// Record is one already-decoded library-signature entry, as supplied by the
// collaborator that parses the bundled signature store (§6).
type Record struct {
	Class     string
	Method    string
	Singleton bool
	Overloads []Overload
}
