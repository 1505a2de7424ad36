// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simplify collapses a Union down to something worth displaying
// (§4.9): ancestor/descendant pairs fold to the ancestor, and a union that
// is still too wide after that is dropped to Unknown rather than shown.
package simplify

import (
	"github.com/duckhaven/typelens/oracle"
	"github.com/duckhaven/typelens/typeval"
)

// DefaultMemberCap is the default union-width cutoff beyond which Simplify
// returns Unknown (§4.9, configurable).
const DefaultMemberCap = 3

// Simplify reduces t (typically a Merge or duck-typing Union) per §4.9:
//  1. typeval.Union already removes structural duplicates.
//  2. for every ancestor/descendant pair both present in the union, the
//     descendant is dropped — only when the ancestor itself is a member.
//  3. a surviving single member unwraps.
//  4. more than cap members (0 picks DefaultMemberCap) collapses to Unknown.
func Simplify(t typeval.Type, o oracle.Oracle, cap int) typeval.Type {
	if cap <= 0 {
		cap = DefaultMemberCap
	}
	members, ok := t.Members()
	if !ok {
		return t
	}

	kept := make([]typeval.Type, 0, len(members))
	for _, m := range members {
		if hasAncestorInSet(m, members, o) {
			continue
		}
		kept = append(kept, m)
	}

	collapsed := typeval.Union(kept)
	if remaining, ok := collapsed.Members(); ok && len(remaining) > cap {
		return typeval.Unknown
	}
	return collapsed
}

// hasAncestorInSet reports whether some other member of set is a proper
// ancestor of m (excluding m itself), meaning m is redundant in the union.
func hasAncestorInSet(m typeval.Type, set []typeval.Type, o oracle.Oracle) bool {
	if m.Kind() != typeval.KindClassInstance {
		return false
	}
	ancestors := o.Ancestors(m.Name())
	for _, other := range set {
		if other.Kind() != typeval.KindClassInstance || other.Name() == m.Name() {
			continue
		}
		for _, a := range ancestors {
			if a == other.Name() && a != m.Name() {
				return true
			}
		}
	}
	return false
}
