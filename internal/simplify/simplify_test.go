// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplify

import (
	"testing"

	"github.com/duckhaven/typelens/oracle"
	"github.com/duckhaven/typelens/typeval"
)

type fakeOracle struct {
	ancestors map[string][]string
}

func (f fakeOracle) Ancestors(class string) []string {
	if a, ok := f.ancestors[class]; ok {
		return a
	}
	return []string{class}
}
func (f fakeOracle) FindClassesDefiningMethods(names []string) []string { return nil }
func (f fakeOracle) ConstantKind(name string) oracle.ConstantKind       { return oracle.ConstantUnknown }

func TestSimplifyCollapsesDescendantWhenAncestorPresent(t *testing.T) {
	o := fakeOracle{ancestors: map[string][]string{
		"Dog": {"Dog", "Animal", "Object"},
	}}
	u := typeval.Union([]typeval.Type{typeval.ClassInstance("Dog"), typeval.ClassInstance("Animal")})

	got := Simplify(u, o, 0)
	if got.Kind() != typeval.KindClassInstance || got.Name() != "Animal" {
		t.Fatalf("want collapse to Animal, got %#v", got)
	}
}

func TestSimplifyPreservesSiblings(t *testing.T) {
	o := fakeOracle{ancestors: map[string][]string{
		"Dog": {"Dog", "Animal"},
		"Cat": {"Cat", "Animal"},
	}}
	u := typeval.Union([]typeval.Type{typeval.ClassInstance("Dog"), typeval.ClassInstance("Cat")})

	got := Simplify(u, o, 0)
	members, ok := got.Members()
	if !ok || len(members) != 2 {
		t.Fatalf("want siblings preserved as a 2-member union, got %#v", got)
	}
}

func TestSimplifyDropsOversizedUnionToUnknown(t *testing.T) {
	o := fakeOracle{}
	u := typeval.Union([]typeval.Type{
		typeval.ClassInstance("A"), typeval.ClassInstance("B"),
		typeval.ClassInstance("C"), typeval.ClassInstance("D"),
	})

	got := Simplify(u, o, 3)
	if !got.IsUnknown() {
		t.Fatalf("want a >3-member union collapsed to Unknown, got %#v", got)
	}
}

func TestSimplifyNonUnionIsUnchanged(t *testing.T) {
	o := fakeOracle{}
	in := typeval.ClassInstance("Integer")
	if got := Simplify(in, o, 0); !typeval.Equal(got, in) {
		t.Fatalf("want a non-union type returned unchanged, got %#v", got)
	}
}
