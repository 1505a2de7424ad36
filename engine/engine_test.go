// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/duckhaven/typelens/hostast"
	"github.com/duckhaven/typelens/internal/libsig"
	"github.com/duckhaven/typelens/internal/testast"
	"github.com/duckhaven/typelens/oracle"
	"github.com/duckhaven/typelens/typeval"
)

type fakeOracle struct{}

func (fakeOracle) Ancestors(class string) []string                    { return []string{class} }
func (fakeOracle) FindClassesDefiningMethods(names []string) []string { return nil }
func (fakeOracle) ConstantKind(name string) oracle.ConstantKind        { return oracle.ConstantUnknown }

func greeterClass() []hostast.Node {
	ret := testast.Str("hi", 2)
	greet := testast.MethodDef("greet", nil, []hostast.Node{ret}, false, 1)
	class := testast.ClassDef("Greeter", []hostast.Node{greet}, 0)
	return []hostast.Node{class}
}

func TestIngestThenFindAndInfer(t *testing.T) {
	e := New(fakeOracle{}, Options{})
	e.Ingest("greeter.rb", greeterClass())

	def, ok := e.Methods().Lookup(fakeOracle{}, "Greeter", "greet")
	if !ok {
		t.Fatalf("expected Greeter#greet to be registered")
	}

	found, ok := e.Find(def.Key())
	if !ok || found.Key() != def.Key() {
		t.Fatalf("Find did not return the registered Def, got %+v ok=%v", found, ok)
	}

	res := e.Infer(def.ReturnNode)
	if res.Type.Name() != "String" {
		t.Fatalf("want String return type, got %+v", res)
	}
}

func TestIngestReplacesPriorFileEntries(t *testing.T) {
	e := New(fakeOracle{}, Options{})
	e.Ingest("greeter.rb", greeterClass())
	if _, ok := e.Methods().Lookup(fakeOracle{}, "Greeter", "greet"); !ok {
		t.Fatalf("expected greet registered after first ingest")
	}

	renamed := testast.MethodDef("hello", nil, []hostast.Node{testast.Str("hi", 2)}, false, 1)
	class := testast.ClassDef("Greeter", []hostast.Node{renamed}, 0)
	e.Ingest("greeter.rb", []hostast.Node{class})

	if _, ok := e.Methods().Lookup(fakeOracle{}, "Greeter", "greet"); ok {
		t.Fatalf("want greet removed after re-ingest dropped it")
	}
	if _, ok := e.Methods().Lookup(fakeOracle{}, "Greeter", "hello"); !ok {
		t.Fatalf("want hello registered after re-ingest")
	}
}

func TestIngestProjectInstallsAllFiles(t *testing.T) {
	e := New(fakeOracle{}, Options{WorkerPoolSize: 2})
	files := []ProjectFile{
		{Path: "a.rb", Stmts: greeterClass()},
		{Path: "b.rb", Stmts: []hostast.Node{testast.ClassDef("Other", []hostast.Node{
			testast.MethodDef("noop", nil, nil, false, 0),
		}, 0)}},
	}
	if err := e.IngestProject(files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := e.Methods().Lookup(fakeOracle{}, "Greeter", "greet"); !ok {
		t.Fatalf("want Greeter#greet installed from a.rb")
	}
	if _, ok := e.Methods().Lookup(fakeOracle{}, "Other", "noop"); !ok {
		t.Fatalf("want Other#noop installed from b.rb")
	}

	stats := e.Stats()
	if stats.FilesIndexed != 2 {
		t.Fatalf("want 2 files indexed, got %d", stats.FilesIndexed)
	}
	if stats.NodesByKind["Def"] < 2 {
		t.Fatalf("want at least 2 Def nodes counted, got %+v", stats.NodesByKind)
	}
}

func TestFinalizeLoadsCompatibleStore(t *testing.T) {
	store := libsig.Store{Version: "v1.2.0", Records: []libsig.Record{
		{Class: "String", Method: "upcase", Overloads: []libsig.Overload{
			{RestIndex: -1, Return: typeval.ClassInstance("String")},
		}},
	}}
	e := New(fakeOracle{}, Options{LibrarySignatureStore: store, ModuleMinVersion: "v1.0.0"})
	if err := e.Finalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Stats().LibraryLoaded {
		t.Fatalf("want LibraryLoaded after Finalize")
	}
	entry, ok := e.Library().LookupInstance("String", "upcase")
	if !ok || len(entry.Overloads) != 1 {
		t.Fatalf("want String#upcase preloaded, got %+v ok=%v", entry, ok)
	}
}

func TestFinalizeRejectsIncompatibleStore(t *testing.T) {
	e := New(fakeOracle{}, Options{
		LibrarySignatureStore: libsig.Store{Version: "v1.0.0"},
		ModuleMinVersion:      "v2.0.0",
	})
	err := e.Finalize()
	if err == nil {
		t.Fatalf("want an error for a store older than ModuleMinVersion")
	}
}

func TestReingestOnlyClearsItsOwnFileFromResolverCache(t *testing.T) {
	e := New(fakeOracle{}, Options{})
	e.Ingest("a.rb", greeterClass())
	other := testast.ClassDef("Other", []hostast.Node{
		testast.MethodDef("noop", nil, []hostast.Node{testast.Int(1, 0)}, false, 0),
	}, 0)
	e.Ingest("b.rb", []hostast.Node{other})

	defA, _ := e.Methods().Lookup(fakeOracle{}, "Greeter", "greet")
	defB, _ := e.Methods().Lookup(fakeOracle{}, "Other", "noop")
	e.Infer(defA.ReturnNode)
	e.Infer(defB.ReturnNode)
	before := e.Stats().ResolverCacheSize
	if before == 0 {
		t.Fatalf("want a populated resolver cache before re-ingest")
	}

	// Re-ingesting a.rb unchanged (without re-running Infer on anything)
	// should drop only a.rb's now-stale cache entries, leaving b.rb's
	// cached inference in place.
	e.Ingest("a.rb", greeterClass())

	reDefB, ok := e.Methods().Lookup(fakeOracle{}, "Other", "noop")
	if !ok || reDefB != defB {
		t.Fatalf("b.rb should be untouched by re-ingesting a.rb")
	}
	if _, ok := e.Find(defB.ReturnNode.Key()); !ok {
		t.Fatalf("b.rb's node should still be findable after re-ingesting a.rb")
	}
	after := e.Stats().ResolverCacheSize
	if after == 0 {
		t.Fatalf("want b.rb's cache entries to survive re-ingesting a.rb, got an empty cache")
	}
	if after >= before {
		t.Fatalf("want a.rb's stale cache entries dropped by re-ingest, before=%d after=%d", before, after)
	}
}

func TestClearAllEmptiesResolverCache(t *testing.T) {
	e := New(fakeOracle{}, Options{})
	e.Ingest("greeter.rb", greeterClass())
	def, _ := e.Methods().Lookup(fakeOracle{}, "Greeter", "greet")
	e.Infer(def.ReturnNode)
	if e.Stats().ResolverCacheSize == 0 {
		t.Fatalf("want a populated resolver cache before ClearAll")
	}
	e.ClearAll()
	if e.Stats().ResolverCacheSize != 0 {
		t.Fatalf("want an empty resolver cache after ClearAll")
	}
}
