// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sigbuild formats a Def node's signature (§4.10) and renders it,
// plus the resolver's reasoning, as a hover card for the editor bridge.
package sigbuild

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/duckhaven/typelens/internal/resolve"
	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/typeval"
)

// Format resolves def's parameters and return node through r and renders
// the conventional surface syntax of §4.10:
//
//	(K1 T1 a, ?T2 b, *T3 c, k4: T4, k5: ?T5, **T6, &T7) -> T8
func Format(r *resolve.Resolver, def *ir.Def) string {
	parts := make([]string, 0, len(def.Params))
	for _, p := range def.Params {
		parts = append(parts, formatParam(r, p))
	}
	ret := "untyped"
	if def.ReturnNode != nil {
		ret = typeval.Display(r.Infer(def.ReturnNode).Type)
	} else {
		ret = typeval.Display(typeval.ClassInstance("NilClass"))
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}

func formatParam(r *resolve.Resolver, p *ir.Param) string {
	t := typeval.Display(r.Infer(p).Type)
	switch p.Kind {
	case ir.ParamRequired:
		return t + " " + p.Name
	case ir.ParamOptional:
		return "?" + t + " " + p.Name
	case ir.ParamRest:
		return "*" + t + " " + p.Name
	case ir.ParamKeywordRequired:
		return p.Name + ": " + t
	case ir.ParamKeywordOptional:
		return p.Name + ": ?" + t
	case ir.ParamKeywordRest:
		return "**" + t + " " + p.Name
	case ir.ParamBlock:
		return "&" + t + " " + p.Name
	case ir.ParamForwarding:
		return "..."
	default:
		return t + " " + p.Name
	}
}

// RenderMarkdown builds a hover card: the formatted signature in a fenced
// code block, followed by the resolver's reason for the return type, then
// renders it to HTML via goldmark for editors that display rich hovers.
func RenderMarkdown(r *resolve.Resolver, def *ir.Def) (string, error) {
	sig := Format(r, def)
	reason := "untyped"
	if def.ReturnNode != nil {
		reason = r.Infer(def.ReturnNode).Reason
	}

	var md strings.Builder
	md.WriteString("```\n")
	md.WriteString(def.Name)
	md.WriteString(sig)
	md.WriteString("\n```\n\n")
	md.WriteString("*" + reason + "*\n")

	var out bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}
