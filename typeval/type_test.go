// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typeval

import "testing"

func TestUnionNormalization(t *testing.T) {
	a := ClassInstance("A")
	b := ClassInstance("B")

	if !Equal(Union([]Type{a, b}), Union([]Type{b, a})) {
		t.Error("union should be order-independent")
	}
	if !Equal(Union([]Type{a}), a) {
		t.Error("single-element union should collapse")
	}
	if !Equal(Union([]Type{Unknown, Unknown}), Unknown) {
		t.Error("union of only Unknowns should collapse to Unknown")
	}
	u := Union([]Type{a, Unknown})
	if !Contains(u, a) || !Contains(u, Unknown) {
		t.Error("union of a concrete type and Unknown must preserve both")
	}
	if u.IsUnknown() {
		t.Error("union with a concrete member must not collapse to Unknown")
	}

	// Flattening: Union(Union(A,B), C) == Union(A,B,C).
	nested := Union([]Type{Union([]Type{a, b}), ClassInstance("C")})
	flat := Union([]Type{a, b, ClassInstance("C")})
	if !Equal(nested, flat) {
		t.Error("nested unions must flatten")
	}
	if members, ok := nested.Members(); ok {
		for _, m := range members {
			if _, isUnion := m.Members(); isUnion {
				t.Error("union members must never themselves be unions")
			}
		}
	}
}

func TestTupleWidening(t *testing.T) {
	elems := make([]Type, 9)
	for i := range elems {
		elems[i] = ClassInstance("Integer")
	}
	got := Tuple(elems...)
	if got.Kind() != KindArray {
		t.Fatalf("tuple of 9 elements must widen to ArrayType, got kind %v", got.Kind())
	}
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		in   Type
		want string
	}{
		{ClassInstance("User"), "User"},
		{Array(ClassInstance("Integer")), "Array[Integer]"},
		{Union([]Type{ClassInstance("A"), ClassInstance("B")}), "A | B"},
		{Unknown, "untyped"},
		{HashShapeOf([]HashField{{Key: "a", Type: ClassInstance("Integer")}}), "{ a: Integer }"},
	}
	for _, c := range cases {
		if got := Display(c.in); got != c.want {
			t.Errorf("Display(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRoundTripSerialization(t *testing.T) {
	samples := []Type{
		Unknown,
		Unguessed,
		SelfType,
		ForwardingArgs,
		ClassInstance("User"),
		Singleton("User"),
		TypeVariable("Elem"),
		Array(ClassInstance("Integer")),
		Range(ClassInstance("Integer")),
		Hash(ClassInstance("Symbol"), ClassInstance("String")),
		HashShapeOf([]HashField{{Key: "a", Type: ClassInstance("Integer")}}),
		Tuple(ClassInstance("Integer"), ClassInstance("String")),
		Union([]Type{ClassInstance("A"), ClassInstance("B")}),
		Signature([]Param{{Name: "x", Kind: ParamRequired, Type: ClassInstance("Integer")}}, ClassInstance("String")),
		ClassInstanceWithArgs("Box", TypeArg{Name: "Elem", Type: ClassInstance("Integer")}),
	}
	for _, s := range samples {
		got := Unmarshal(Marshal(s))
		if !Equal(got, s) {
			t.Errorf("round trip mismatch: %s != %s", Display(got), Display(s))
		}
	}
}

func TestWithHashFieldAndWiden(t *testing.T) {
	shape := HashShapeOf([]HashField{{Key: "a", Type: ClassInstance("Integer")}})
	shape2 := shape.WithHashField("b", ClassInstance("String"))
	fields, ok := shape2.Fields()
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 fields after WithHashField, got %v", fields)
	}

	widened := shape2.Widen()
	if widened.Kind() != KindHash {
		t.Fatalf("Widen must produce a HashType, got %v", widened.Kind())
	}
}
