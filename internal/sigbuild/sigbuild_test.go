// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sigbuild

import (
	"strings"
	"testing"

	"github.com/duckhaven/typelens/internal/libsig"
	"github.com/duckhaven/typelens/internal/registry"
	"github.com/duckhaven/typelens/internal/resolve"
	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/oracle"
	"github.com/duckhaven/typelens/typeval"
)

type fakeOracle struct{}

func (fakeOracle) Ancestors(class string) []string                   { return []string{class} }
func (fakeOracle) FindClassesDefiningMethods(names []string) []string { return nil }
func (fakeOracle) ConstantKind(name string) oracle.ConstantKind       { return oracle.ConstantUnknown }

func newResolver() *resolve.Resolver {
	return resolve.New(fakeOracle{}, registry.NewMethodRegistry(), registry.NewInstanceVariableRegistry(), registry.NewClassVariableRegistry(), libsig.NewRegistry(), resolve.Config{})
}

func TestFormatRendersParamKindGlyphs(t *testing.T) {
	r := newResolver()
	intLit := ir.NewLiteral(ir.NewKey(ir.TopLevelScope, ir.TagLiteral, "Integer", 0), ir.Loc{}, typeval.ClassInstance("Integer"), 0, nil)

	req := ir.NewParam(ir.NewKey(ir.TopLevelScope, ir.TagParam, "a", 0), ir.Loc{}, "a", ir.ParamRequired, nil)
	req.AppendCalledMethod("succ") // no duck-typing classes registered, stays untyped

	opt := ir.NewParam(ir.NewKey(ir.TopLevelScope, ir.TagParam, "b", 1), ir.Loc{}, "b", ir.ParamOptional, intLit)
	rest := ir.NewParam(ir.NewKey(ir.TopLevelScope, ir.TagParam, "c", 2), ir.Loc{}, "c", ir.ParamRest, nil)
	kw := ir.NewParam(ir.NewKey(ir.TopLevelScope, ir.TagParam, "k", 3), ir.Loc{}, "k", ir.ParamKeywordRequired, intLit)
	block := ir.NewParam(ir.NewKey(ir.TopLevelScope, ir.TagParam, "blk", 4), ir.Loc{}, "blk", ir.ParamBlock, nil)

	def := ir.NewDef(ir.NewKey(ir.ClassScope("Foo"), ir.TagDef, "bar", 5), ir.Loc{}, "bar", "Foo",
		[]*ir.Param{req, opt, rest, kw, block}, intLit, []ir.Node{intLit}, false)

	got := Format(r, def)
	want := "(untyped a, ?Integer b, *untyped c, k: Integer, &untyped blk) -> Integer"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderMarkdownProducesHTML(t *testing.T) {
	r := newResolver()
	lit := ir.NewLiteral(ir.NewKey(ir.TopLevelScope, ir.TagLiteral, "String", 0), ir.Loc{}, typeval.ClassInstance("String"), "x", nil)
	def := ir.NewDef(ir.NewKey(ir.ClassScope("Foo"), ir.TagDef, "greet", 0), ir.Loc{}, "greet", "Foo", nil, lit, []ir.Node{lit}, false)

	html, err := RenderMarkdown(r, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "greet") || !strings.Contains(html, "<pre>") {
		t.Fatalf("want rendered hover card to contain the signature in a code block, got %q", html)
	}
}
