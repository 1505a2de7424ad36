// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/duckhaven/typelens/typeval"
)

// duckType implements the method-uniqueness inference of §4.7: given the
// method names called on an expression whose type is otherwise unknown, ask
// the ancestry oracle which classes define all of them and collapse the
// result per the candidate-count table.
//
// Step 2 of §4.7 ("reject a candidate whose signature is incompatible with
// the call-site's arity/keyword usage") is not applied here: the IR only
// records which method names were called, not their per-call argument
// shape, so there is nothing to check a candidate's signature against.
func (r *Resolver) duckType(methodNames []string) (typeval.Type, string) {
	if len(methodNames) == 0 {
		return typeval.Unknown, "unknown: no called methods to infer from"
	}

	sorted := append([]string(nil), methodNames...)
	sort.Strings(sorted)
	groupKey := strings.Join(sorted, "\x00")

	v, _, _ := r.duckGroup.Do(groupKey, func() (interface{}, error) {
		return r.oracle.FindClassesDefiningMethods(methodNames), nil
	})
	classes := v.([]string)

	candidateCap := r.cfg.duckCap()
	switch {
	case len(classes) == 0:
		return typeval.Unknown, fmt.Sprintf("unresolved methods: %s", strings.Join(methodNames, ", "))
	case len(classes) == 1:
		return typeval.ClassInstance(classes[0]), fmt.Sprintf("inferred by unique method set {%s}", strings.Join(methodNames, ", "))
	case len(classes) <= candidateCap:
		sort.Strings(classes)
		types := make([]typeval.Type, len(classes))
		for i, c := range classes {
			types[i] = typeval.ClassInstance(c)
		}
		return typeval.Union(types), fmt.Sprintf("inferred by method set, ambiguous between {%s}", strings.Join(classes, ", "))
	default:
		return typeval.Unknown, "too ambiguous"
	}
}
