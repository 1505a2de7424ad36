// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typeval

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Display renders t in the conventional surface syntax (§4.1):
// ClassInstance("User") -> "User", ArrayType(Integer) -> "Array[Integer]",
// Union([A,B]) -> "A | B", HashShape({a: Int}) -> "{ a: Integer }",
// Unknown -> "untyped".
func Display(t Type) string {
	switch t.kind {
	case KindUnknown:
		return "untyped"
	case KindUnguessed:
		return "unguessed"
	case KindClassInstance:
		if len(t.typeArgs) == 0 {
			return displayName(t.name)
		}
		parts := make([]string, len(t.typeArgs))
		for i, a := range t.typeArgs {
			parts[i] = Display(a.Type)
		}
		return displayName(t.name) + "[" + strings.Join(parts, ", ") + "]"
	case KindSingleton:
		return "Class(" + displayName(t.name) + ")"
	case KindSelf:
		return "self"
	case KindForwardingArgs:
		return "..."
	case KindTypeVariable:
		return t.name
	case KindArray:
		return "Array[" + Display(*t.elem) + "]"
	case KindRange:
		return "Range[" + Display(*t.elem) + "]"
	case KindHash:
		return "Hash[" + Display(*t.key) + ", " + Display(*t.value) + "]"
	case KindHashShape:
		var b strings.Builder
		b.WriteString("{ ")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Key)
			b.WriteString(": ")
			b.WriteString(Display(f.Type))
		}
		b.WriteString(" }")
		return b.String()
	case KindTuple:
		parts := make([]string, len(t.tuple))
		for i, e := range t.tuple {
			parts[i] = Display(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindUnion:
		parts := make([]string, len(t.union))
		for i, m := range t.union {
			parts[i] = Display(m)
		}
		return strings.Join(parts, " | ")
	case KindMethodSignature:
		return displaySignature(t)
	}
	return "untyped"
}

// displayName title-cases a bare identifier surfaced only as a symbol (e.g.
// a class name inferred from a lower-case literal tag) so built-in names
// render consistently; names that already carry a dotted/qualified path or
// initial capital pass through unchanged.
func displayName(name string) string {
	if name == "" {
		return name
	}
	if strings.ContainsAny(name, "./:") || (name[0] >= 'A' && name[0] <= 'Z') {
		return name
	}
	return titleCaser.String(name)
}

func displaySignature(t Type) string {
	var b strings.Builder
	b.WriteString("(")
	for i, p := range t.sigParams {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(paramPrefix(p.Kind))
		if p.Kind != ParamForwarding {
			b.WriteString(Display(p.Type))
			if p.Name != "" {
				b.WriteString(" ")
				b.WriteString(p.Name)
			}
		}
	}
	b.WriteString(") -> ")
	b.WriteString(Display(*t.sigReturn))
	return b.String()
}

// paramPrefix is the leading glyph for a parameter kind (§4.10).
func paramPrefix(k ParamKind) string {
	switch k {
	case ParamRequired:
		return ""
	case ParamOptional:
		return "?"
	case ParamRest:
		return "*"
	case ParamKeywordRequired:
		return "k:"
	case ParamKeywordOptional:
		return "k: ?"
	case ParamKeywordRest:
		return "**"
	case ParamBlock:
		return "&"
	case ParamForwarding:
		return "..."
	}
	return ""
}
