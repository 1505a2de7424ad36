// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"strconv"
	"strings"
)

// Tag discriminates a node's key component (§3.3): one of a closed set of
// short strings identifying the node variant that produced the key.
type Tag string

const (
	TagLocalWrite Tag = "local_write"
	TagLocalRead  Tag = "local_read"
	TagIVarWrite  Tag = "ivar_write"
	TagIVarRead   Tag = "ivar_read"
	TagCVarWrite  Tag = "cvar_write"
	TagCVarRead   Tag = "cvar_read"
	TagParam      Tag = "param"
	TagBlockParam Tag = "bparam"
	TagCall       Tag = "call"
	TagDef        Tag = "def"
	TagSelf       Tag = "self"
	TagReturn     Tag = "return"
	TagMerge      Tag = "merge"
	TagLiteral    Tag = "lit"
	TagConst      Tag = "const"
	TagClass      Tag = "class"
)

// Key is the stable, canonical address of an IR node: a string of the form
// "<scope>:<tag>:<discriminator>:<offset>" (§3.3). Two keys are equal iff
// they denote the same node; Key is safe to use as a map key and to compare
// with ==.
type Key string

// Scope is the key prefix identifying where a node lives: "ClassPath",
// "ClassPath#MethodName", or "" at the top level.
type Scope string

// TopLevelScope is the scope for nodes outside any class or method.
const TopLevelScope Scope = ""

// ClassScope returns the scope for nodes directly inside a class/module body
// (outside any method), by its fully-qualified dotted path.
func ClassScope(classPath string) Scope {
	return Scope(classPath)
}

// MethodScope returns the scope for nodes inside a method body.
func MethodScope(classPath, methodName string) Scope {
	if classPath == "" {
		return Scope("#" + methodName)
	}
	return Scope(classPath + "#" + methodName)
}

// NewKey builds a canonical node key (§3.3). offset is the source byte
// offset of the node's anchor token: the name location for definitions, the
// message (method-name) location for calls.
func NewKey(scope Scope, tag Tag, discriminator string, offset int) Key {
	var b strings.Builder
	b.WriteString(string(scope))
	b.WriteByte(':')
	b.WriteString(string(tag))
	b.WriteByte(':')
	b.WriteString(discriminator)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(offset))
	return Key(b.String())
}

// Parts splits a key back into its four components. It is used by debug
// introspection, never by the resolver itself (the resolver treats keys as
// opaque).
func (k Key) Parts() (scope Scope, tag Tag, discriminator string, offset int, ok bool) {
	// A nested class path (in the scope, or as a class key's discriminator)
	// contains "::", so those pairs are masked before splitting on the
	// single ':' separators and restored afterwards.
	s := strings.ReplaceAll(string(k), "::", "\x00")
	parts := strings.SplitN(s, ":", 4)
	if len(parts) != 4 {
		return "", "", "", 0, false
	}
	off, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", "", "", 0, false
	}
	unmask := func(p string) string { return strings.ReplaceAll(p, "\x00", "::") }
	return Scope(unmask(parts[0])), Tag(parts[1]), unmask(parts[2]), off, true
}
