// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "testing"

func TestKeyFormatAndParts(t *testing.T) {
	k := NewKey(MethodScope("App::User", "name"), TagLocalWrite, "x", 42)
	if string(k) != "App::User#name:local_write:x:42" {
		t.Fatalf("unexpected key format: %s", k)
	}
	scope, tag, disc, offset, ok := k.Parts()
	if !ok {
		t.Fatal("Parts() failed to parse a well-formed key")
	}
	if scope != "App::User#name" || tag != TagLocalWrite || disc != "x" || offset != 42 {
		t.Fatalf("Parts() = %v %v %v %v", scope, tag, disc, offset)
	}
}

func TestTopLevelAndClassScopes(t *testing.T) {
	if TopLevelScope != "" {
		t.Error("top level scope must be empty")
	}
	if ClassScope("App::User") != "App::User" {
		t.Error("class scope must be the bare class path")
	}
	if MethodScope("", "helper") != "#helper" {
		t.Error("top-level method scope must omit the class path")
	}
}

func TestCalledMethodsSharingBetweenWriteAndRead(t *testing.T) {
	write := NewLocalWrite(NewKey(TopLevelScope, TagLocalWrite, "recipe", 1), Loc{}, "recipe", nil)
	read := NewLocalRead(NewKey(TopLevelScope, TagLocalRead, "recipe", 10), Loc{}, "recipe", write)

	write.AppendCalledMethod("ingredients")
	if got := read.CalledMethods(); len(got) != 1 || got[0] != "ingredients" {
		t.Fatalf("read node should observe methods appended via the write node, got %v", got)
	}

	read.AppendCalledMethod("steps")
	if got := write.CalledMethods(); len(got) != 2 {
		t.Fatalf("write node should observe methods appended via the read node, got %v", got)
	}

	// Appending the same name twice must not duplicate it (§3.2).
	write.AppendCalledMethod("steps")
	if got := write.CalledMethods(); len(got) != 2 {
		t.Fatalf("duplicate called-method names must be deduped, got %v", got)
	}
}

func TestReadWithoutWriteHasIndependentList(t *testing.T) {
	read := NewLocalRead(NewKey(TopLevelScope, TagLocalRead, "x", 1), Loc{}, "x", nil)
	read.AppendCalledMethod("foo")
	if got := read.CalledMethods(); len(got) != 1 {
		t.Fatalf("unresolved read should still own its own called-methods list, got %v", got)
	}
}
