// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typeval

// Union normalizes a set of types into a single Type per §3.1 and §8's
// "Union normalization" property:
//   - flattens nested unions
//   - drops structural duplicates
//   - collapses a single surviving member to that member
//   - returns Unknown iff every input is Unknown
//   - mixing Unknown with a concrete type preserves both, so the reason
//     stays informative (§3.1)
func Union(ts []Type) Type {
	flat := make([]Type, 0, len(ts))
	allUnknown := len(ts) > 0
	for _, t := range ts {
		if members, ok := t.Members(); ok {
			flat = append(flat, members...)
			allUnknown = false
			continue
		}
		flat = append(flat, t)
		if !t.IsUnknown() {
			allUnknown = false
		}
	}
	if len(flat) == 0 {
		return Unknown
	}
	if allUnknown {
		return Unknown
	}

	deduped := make([]Type, 0, len(flat))
	for _, t := range flat {
		dup := false
		for _, seen := range deduped {
			if Equal(t, seen) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, t)
		}
	}

	if len(deduped) == 1 {
		return deduped[0]
	}

	sortUnion(deduped)
	return Type{kind: KindUnion, union: deduped}
}

// Equal reports structural equality. Union equality is order-independent:
// two unions are equal iff they have the same multiset of members.
func Equal(a, b Type) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUnknown, KindUnguessed, KindSelf, KindForwardingArgs:
		return true
	case KindClassInstance:
		return a.name == b.name && typeArgsEqual(a.typeArgs, b.typeArgs)
	case KindSingleton, KindTypeVariable:
		return a.name == b.name
	case KindArray, KindRange:
		return Equal(*a.elem, *b.elem)
	case KindHash:
		return Equal(*a.key, *b.key) && Equal(*a.value, *b.value)
	case KindHashShape:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key || !Equal(a.fields[i].Type, b.fields[i].Type) {
				return false
			}
		}
		return true
	case KindTuple:
		if len(a.tuple) != len(b.tuple) {
			return false
		}
		for i := range a.tuple {
			if !Equal(a.tuple[i], b.tuple[i]) {
				return false
			}
		}
		return true
	case KindUnion:
		return unionSetEqual(a.union, b.union)
	case KindMethodSignature:
		return signatureEqual(a, b)
	}
	return false
}

func typeArgsEqual(a, b []TypeArg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func unionSetEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, at := range a {
		found := false
		for j, bt := range b {
			if used[j] {
				continue
			}
			if Equal(at, bt) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func signatureEqual(a, b Type) bool {
	if len(a.sigParams) != len(b.sigParams) {
		return false
	}
	for i := range a.sigParams {
		pa, pb := a.sigParams[i], b.sigParams[i]
		if pa.Name != pb.Name || pa.Kind != pb.Kind || !Equal(pa.Type, pb.Type) {
			return false
		}
	}
	return Equal(*a.sigReturn, *b.sigReturn)
}

// Contains reports whether t equals or is a union member equal to candidate.
func Contains(t Type, candidate Type) bool {
	if Equal(t, candidate) {
		return true
	}
	if members, ok := t.Members(); ok {
		for _, m := range members {
			if Equal(m, candidate) {
				return true
			}
		}
	}
	return false
}
