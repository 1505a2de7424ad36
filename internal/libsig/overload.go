// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package libsig

import "github.com/duckhaven/typelens/typeval"

// resolveReturn implements the overload-resolution and substitution
// algorithm of §4.4:
//  1. filter overloads whose positional arity accepts len(argTypes)
//  2. among survivors, prefer the most specific match
//  3. on a tie, union the candidates' return types
//  4. substitute generic type parameters from the receiver's bound args (or
//     from the matched argument position when the method itself binds one)
//  5. substitute SelfType with the receiver's type
func resolveReturn(entry *MethodEntry, receiver typeval.Type, argTypes []typeval.Type) typeval.Type {
	candidates := filterByArity(entry.Overloads, len(argTypes))
	if len(candidates) == 0 {
		return typeval.Unknown
	}

	best := mostSpecific(candidates, argTypes)
	if len(best) == 0 {
		return typeval.Unknown
	}

	results := make([]typeval.Type, len(best))
	for i, ov := range best {
		results[i] = substitute(ov, receiver, argTypes)
	}
	return typeval.Union(results)
}

// filterByArity keeps overloads whose positional parameter list can accept
// n arguments: a rest parameter matches any count at or beyond its index.
func filterByArity(overloads []Overload, n int) []Overload {
	var out []Overload
	for _, ov := range overloads {
		if acceptsArity(ov, n) {
			out = append(out, ov)
		}
	}
	return out
}

func acceptsArity(ov Overload, n int) bool {
	if ov.RestIndex >= 0 {
		return n >= ov.RestIndex
	}
	return n == len(ov.Positional)
}

// mostSpecific narrows candidates to those whose parameter types are most
// specific relative to argTypes (§4.4 step 2): a declared type matches when
// it equals the argument type, is a TypeVariable, or either side is Unknown;
// a declared type that is an ancestor of the argument's class does not match
// (see matchParam). Ties (including all-tied) are returned together so the
// caller unions their return types.
func mostSpecific(overloads []Overload, argTypes []typeval.Type) []Overload {
	type scored struct {
		ov    Overload
		score int
	}
	var scoredList []scored
	bestScore := -1
	for _, ov := range overloads {
		s, ok := specificityScore(ov, argTypes)
		if !ok {
			continue
		}
		scoredList = append(scoredList, scored{ov, s})
		if s > bestScore {
			bestScore = s
		}
	}
	var out []Overload
	for _, s := range scoredList {
		if s.score == bestScore {
			out = append(out, s.ov)
		}
	}
	return out
}

// specificityScore returns a higher score for overloads whose declared
// parameter types more precisely match argTypes; an exact structural match
// scores 2 per position, a TypeVariable/Unknown match scores 1, and any
// other pairing (an ancestor class included) disqualifies the overload.
func specificityScore(ov Overload, argTypes []typeval.Type) (int, bool) {
	score := 0
	for i, declared := range positionalTypesForArity(ov, len(argTypes)) {
		if i >= len(argTypes) {
			break
		}
		m, ok := matchParam(declared, argTypes[i])
		if !ok {
			return 0, false
		}
		score += m
	}
	return score, true
}

// positionalTypesForArity expands a rest parameter to the needed count so
// specificityScore can walk it position by position.
func positionalTypesForArity(ov Overload, n int) []typeval.Type {
	if ov.RestIndex < 0 {
		types := make([]typeval.Type, len(ov.Positional))
		for i, p := range ov.Positional {
			types[i] = p.Type
		}
		return types
	}
	types := make([]typeval.Type, n)
	for i := 0; i < n; i++ {
		if i < ov.RestIndex {
			types[i] = ov.Positional[i].Type
		} else {
			types[i] = ov.Positional[ov.RestIndex].Type
		}
	}
	return types
}

// matchParam scores how well a declared parameter type matches an argument
// type: 2 for a structural match, 1 for a TypeVariable/Unknown/generic
// match (maximally permissive), 0 disqualifies via the second return value.
func matchParam(declared, arg typeval.Type) (int, bool) {
	if declared.IsUnknown() || arg.IsUnknown() || declared.Kind() == typeval.KindTypeVariable {
		return 1, true
	}
	if typeval.Equal(declared, arg) {
		return 2, true
	}
	// A declared ClassInstance matches an argument whose class is a
	// descendant is not decidable without an ancestry oracle at this layer;
	// libsig only sees Types, not class hierarchies, so anything short of
	// exact/TypeVariable/Unknown degrades to "no match" here. The resolver
	// does walk the oracle's ancestry for the *receiver* class when looking
	// up a library method entry (resolve.Resolver.lookupLibraryMethod), but
	// that is a different walk: it widens which (class, method) entry gets
	// looked up, not whether a given argument type matches a declared
	// parameter.
	return 0, false
}

// substitute performs steps 4-5 of §4.4: generic-parameter and SelfType
// substitution in ov's declared return type.
func substitute(ov Overload, receiver typeval.Type, argTypes []typeval.Type) typeval.Type {
	ret := ov.Return
	ret = substituteSelf(ret, receiver)
	ret = substituteGenerics(ret, ov, receiver, argTypes)
	return ret
}

func substituteSelf(t, receiver typeval.Type) typeval.Type {
	if t.Kind() == typeval.KindSelf {
		return receiver
	}
	return t
}

// substituteGenerics replaces TypeVariable(name) in t with the binding
// taken from the receiver's attached type arguments, falling back to the
// matched argument position when the overload itself binds a parameter of
// that name positionally.
func substituteGenerics(t typeval.Type, ov Overload, receiver typeval.Type, argTypes []typeval.Type) typeval.Type {
	if t.Kind() != typeval.KindTypeVariable {
		return t
	}
	name := t.Name()
	if bound, ok := receiver.TypeArg(name); ok {
		return bound
	}
	for i, p := range ov.Positional {
		if p.Type.Kind() == typeval.KindTypeVariable && p.Type.Name() == name && i < len(argTypes) {
			return argTypes[i]
		}
	}
	return typeval.Unknown
}
