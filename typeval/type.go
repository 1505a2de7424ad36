// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typeval defines the type algebra: the closed set of values the
// resolver can assign to an expression, plus equality and union
// normalization over them.
package typeval

import "sort"

// Kind discriminates the variants of Type. Type is a closed tagged sum;
// resolver and display code switch on Kind rather than doing type
// assertions against an open interface hierarchy.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnguessed
	KindClassInstance
	KindSingleton
	KindArray
	KindTuple
	KindHash
	KindHashShape
	KindRange
	KindUnion
	KindTypeVariable
	KindSelf
	KindForwardingArgs
	KindMethodSignature
)

// maxTupleArity is the longest TupleType spec.md allows before it must
// widen to ArrayType(Union(elems)) (§3.1).
const maxTupleArity = 8

// ParamKind classifies a MethodSignature parameter.
type ParamKind uint8

const (
	ParamRequired ParamKind = iota
	ParamOptional
	ParamRest
	ParamKeywordRequired
	ParamKeywordOptional
	ParamKeywordRest
	ParamBlock
	ParamForwarding
)

// Param is one entry of a MethodSignature.
type Param struct {
	Name string
	Kind ParamKind
	Type Type
}

// HashField is one entry of a HashShape, in declaration order.
type HashField struct {
	Key  string
	Type Type
}

// Type is an immutable value of the type algebra (§3.1). The zero Type is
// Unknown. Types compare with Equal, never with ==, since Union and
// HashShape carry slices.
type Type struct {
	kind Kind

	name string // ClassInstance / Singleton / TypeVariable name

	elem  *Type // ArrayType / RangeType element
	key   *Type // HashType key
	value *Type // HashType value

	tuple  []Type      // TupleType elements
	fields []HashField // HashShape fields, ordered
	union  []Type      // Union members, flattened, len >= 2

	sigParams []Param
	sigReturn *Type

	typeArgs []TypeArg // ClassInstance's bound generic parameters, if any
}

// TypeArg binds a generic type parameter name (as declared on a library
// class, e.g. "Elem" for C[Elem]) to a concrete Type on one ClassInstance
// value (§4.4 step 4).
type TypeArg struct {
	Name string
	Type Type
}

// Unknown is the singleton "we could not decide" type.
var Unknown = Type{kind: KindUnknown}

// Unguessed is the singleton "decidable in principle, not yet computed" type.
var Unguessed = Type{kind: KindUnguessed}

// SelfType is the singleton meaning "the receiver type at the call site".
var SelfType = Type{kind: KindSelf}

// ForwardingArgs is the singleton for the `...`-style forwarding parameter.
var ForwardingArgs = Type{kind: KindForwardingArgs}

// ClassInstance returns the type of an instance of the named class.
func ClassInstance(name string) Type { return Type{kind: KindClassInstance, name: name} }

// ClassInstanceWithArgs returns the type of an instance of a generic class
// with its type parameters bound, e.g. ClassInstanceWithArgs("Box",
// TypeArg{"Elem", ClassInstance("Integer")}) for Box[Integer] (§4.4 step 4).
func ClassInstanceWithArgs(name string, args ...TypeArg) Type {
	cp := make([]TypeArg, len(args))
	copy(cp, args)
	return Type{kind: KindClassInstance, name: name, typeArgs: cp}
}

// TypeArgs returns the generic bindings attached to a ClassInstance, if any.
func (t Type) TypeArgs() []TypeArg { return t.typeArgs }

// TypeArg looks up a bound generic parameter by name.
func (t Type) TypeArg(name string) (Type, bool) {
	for _, a := range t.typeArgs {
		if a.Name == name {
			return a.Type, true
		}
	}
	return Unknown, false
}

// Singleton returns the type of the class object itself.
func Singleton(name string) Type { return Type{kind: KindSingleton, name: name} }

// TypeVariable returns a placeholder for a library-signature type parameter.
func TypeVariable(name string) Type { return Type{kind: KindTypeVariable, name: name} }

// Array returns a homogeneous sequence type.
func Array(elem Type) Type { return Type{kind: KindArray, elem: &elem} }

// Range returns a range type over elem.
func Range(elem Type) Type { return Type{kind: KindRange, elem: &elem} }

// Hash returns a mapping type with the given key and value element types.
func Hash(key, value Type) Type { return Type{kind: KindHash, key: &key, value: &value} }

// HashShapeOf returns a mapping from literal symbol keys to per-key types.
// fields is copied and its order preserved (HashShape.fields is an ordered
// mapping, §3.1).
func HashShapeOf(fields []HashField) Type {
	cp := make([]HashField, len(fields))
	copy(cp, fields)
	return Type{kind: KindHashShape, fields: cp}
}

// Tuple returns a heterogeneous fixed-length sequence. Longer than
// maxTupleArity widens to ArrayType(Union(elems)) per §3.1.
func Tuple(elems ...Type) Type {
	if len(elems) > maxTupleArity {
		return Array(Union(elems))
	}
	cp := make([]Type, len(elems))
	copy(cp, elems)
	return Type{kind: KindTuple, tuple: cp}
}

// Signature returns a first-class callable signature type.
func Signature(params []Param, ret Type) Type {
	cp := make([]Param, len(params))
	copy(cp, params)
	return Type{kind: KindMethodSignature, sigParams: cp, sigReturn: &ret}
}

// Kind reports the variant of t.
func (t Type) Kind() Kind { return t.kind }

// Name returns the class/singleton/type-variable name, or "" otherwise.
func (t Type) Name() string { return t.name }

// Elem returns the element type of an Array or Range type.
func (t Type) Elem() (Type, bool) {
	if (t.kind == KindArray || t.kind == KindRange) && t.elem != nil {
		return *t.elem, true
	}
	return Unknown, false
}

// HashKeyValue returns the key and value types of a HashType.
func (t Type) HashKeyValue() (key, value Type, ok bool) {
	if t.kind == KindHash && t.key != nil && t.value != nil {
		return *t.key, *t.value, true
	}
	return Unknown, Unknown, false
}

// Fields returns the ordered fields of a HashShape.
func (t Type) Fields() ([]HashField, bool) {
	if t.kind == KindHashShape {
		return t.fields, true
	}
	return nil, false
}

// TupleElems returns the element types of a TupleType.
func (t Type) TupleElems() ([]Type, bool) {
	if t.kind == KindTuple {
		return t.tuple, true
	}
	return nil, false
}

// Members returns the members of a Union.
func (t Type) Members() ([]Type, bool) {
	if t.kind == KindUnion {
		return t.union, true
	}
	return nil, false
}

// SignatureParams returns the parameters and return type of a
// MethodSignature.
func (t Type) SignatureParams() ([]Param, Type, bool) {
	if t.kind == KindMethodSignature && t.sigReturn != nil {
		return t.sigParams, *t.sigReturn, true
	}
	return nil, Unknown, false
}

// IsUnknown reports whether t is the Unknown singleton.
func (t Type) IsUnknown() bool { return t.kind == KindUnknown }

// WithHashField returns a copy of a HashShape with key set to typ, appending
// a new field if key is not already present (§4.2 indexed-assignment
// widening).
func (t Type) WithHashField(key string, typ Type) Type {
	if t.kind != KindHashShape {
		return t
	}
	fields := make([]HashField, len(t.fields))
	copy(fields, t.fields)
	for i, f := range fields {
		if f.Key == key {
			fields[i].Type = typ
			return HashShapeOf(fields)
		}
	}
	return HashShapeOf(append(fields, HashField{Key: key, Type: typ}))
}

// Widen converts a HashShape into a HashType, unioning all field value types
// into a single value type (§3.1: "widens to HashType when a non-symbol key
// is assigned").
func (t Type) Widen() Type {
	if t.kind != KindHashShape {
		return t
	}
	values := make([]Type, 0, len(t.fields))
	for _, f := range t.fields {
		values = append(values, f.Type)
	}
	return Hash(ClassInstance("Symbol"), Union(values))
}

// sortUnion orders union members deterministically for display and
// structural comparison; it does not affect Equal, which is already
// order-independent.
func sortUnion(ts []Type) {
	sort.SliceStable(ts, func(i, j int) bool {
		return unionSortKey(ts[i]) < unionSortKey(ts[j])
	})
}

func unionSortKey(t Type) string {
	return Display(t)
}
