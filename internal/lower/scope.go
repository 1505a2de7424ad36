// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import "github.com/duckhaven/typelens/ir"

// localScope is one level of the scope chain (§4.2): top_level -> class ->
// method -> block. A block scope chains to its enclosing scope so it can
// see (and shadow) locals captured from outside; a method or class/module
// scope starts fresh, since neither closes over the locals of whatever
// lexically encloses it.
type localScope struct {
	parent *localScope
	vars   map[string]ir.Node
}

func newRootScope() *localScope {
	return &localScope{vars: make(map[string]ir.Node)}
}

// fork returns a child scope chained to s, used for block bodies and for
// the per-branch forks if/case lowering needs before merging (§4.2).
func (s *localScope) fork() *localScope {
	return &localScope{parent: s, vars: make(map[string]ir.Node)}
}

// lookup walks the scope chain outward, returning the nearest write node
// bound to name.
func (s *localScope) lookup(name string) (ir.Node, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if w, ok := cur.vars[name]; ok {
			return w, true
		}
	}
	return nil, false
}

// assignLocal always installs into s's own table, never an ancestor. Every
// write goes through this: a branch fork must not mutate the pre-branch
// scope directly, since mergeBranchedScopes diffs against what the fork's
// own table holds (§4.2). A straight-line reassignment that happens to sit
// in the same scope as its prior binding just overwrites that scope's own
// entry, which assignLocal already does correctly (s *is* the ancestor
// scope in that case).
func (s *localScope) assignLocal(name string, write ir.Node) {
	s.vars[name] = write
}

// ownWrite returns the write node s itself (not an ancestor) bound to name.
func (s *localScope) ownWrite(name string) (ir.Node, bool) {
	w, ok := s.vars[name]
	return w, ok
}

// ownNames returns every name s itself binds, for branch-merge diffing.
func (s *localScope) ownNames() []string {
	names := make([]string, 0, len(s.vars))
	for n := range s.vars {
		names = append(names, n)
	}
	return names
}

// classScope tracks instance variables shared by every method of one class,
// so a write in one method is visible to a read in another (§4.2).
type classScope struct {
	path  string
	ivars map[string]ir.Node
}

func newClassScope(path string) *classScope {
	return &classScope{path: path, ivars: make(map[string]ir.Node)}
}
