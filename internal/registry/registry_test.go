// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"testing"

	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/oracle"
)

// fakeOracle is a minimal, deterministic stand-in for the editor bridge's
// ancestry oracle, used only in tests.
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

func TestMethodRegistryLookupWalksAncestry(t *testing.T) {
	o := fakeOracle{ancestors: map[string][]string{
		"App::Dog": {"App::Dog", "App::Animal", "Object"},
	}}
	r := NewMethodRegistry()
	def := ir.NewDef(ir.NewKey(ir.ClassScope("App::Animal"), ir.TagDef, "speak", 1), ir.Loc{}, "speak", "App::Animal", nil, nil, nil, false)
	r.Register("animal.rb", "App::Animal", "speak", def)

	got, ok := r.Lookup(o, "App::Dog", "speak")
	if !ok || got != def {
		t.Fatal("expected to find speak via ancestry walk")
	}
	if _, ok := r.Lookup(o, "App::Dog", "bark"); ok {
		t.Fatal("bark was never registered")
	}
}

func TestMethodRegistryRemoveFileIsScoped(t *testing.T) {
	r := NewMethodRegistry()
	defA := ir.NewDef(ir.NewKey(ir.ClassScope("A"), ir.TagDef, "foo", 1), ir.Loc{}, "foo", "A", nil, nil, nil, false)
	defB := ir.NewDef(ir.NewKey(ir.ClassScope("B"), ir.TagDef, "bar", 2), ir.Loc{}, "bar", "B", nil, nil, nil, false)
	r.Register("a.rb", "A", "foo", defA)
	r.Register("b.rb", "B", "bar", defB)

	r.RemoveFile("a.rb")
	o := fakeOracle{}
	if _, ok := r.Lookup(o, "A", "foo"); ok {
		t.Fatal("foo should be gone after removing a.rb")
	}
	if _, ok := r.Lookup(o, "B", "bar"); !ok {
		t.Fatal("bar should survive removing a.rb")
	}
}

func TestClassVariableRegistryDoesNotWalkAncestors(t *testing.T) {
	r := NewClassVariableRegistry()
	write := ir.NewClassVarWrite(ir.NewKey(ir.ClassScope("App::Animal"), ir.TagCVarWrite, "count", 1), ir.Loc{}, "count", "App::Animal", nil)
	r.Register("animal.rb", "App::Animal", "count", write)

	if _, ok := r.Lookup("App::Dog", "count"); ok {
		t.Fatal("class-variable lookup must not walk ancestors")
	}
	if _, ok := r.Lookup("App::Animal", "count"); !ok {
		t.Fatal("exact-class lookup should still find the write")
	}
}

func TestInstanceVariableRegistryWalksAncestors(t *testing.T) {
	o := fakeOracle{ancestors: map[string][]string{"App::Dog": {"App::Dog", "App::Animal"}}}
	r := NewInstanceVariableRegistry()
	write := ir.NewInstanceVarWrite(ir.NewKey(ir.ClassScope("App::Animal"), ir.TagIVarWrite, "name", 1), ir.Loc{}, "name", "App::Animal", nil)
	r.Register("animal.rb", "App::Animal", "name", write)

	if _, ok := r.Lookup(o, "App::Dog", "name"); !ok {
		t.Fatal("instance-variable lookup should walk ancestry")
	}
}
