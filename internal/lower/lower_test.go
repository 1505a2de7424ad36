// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"testing"

	"github.com/duckhaven/typelens/hostast"
	"github.com/duckhaven/typelens/internal/index"
	"github.com/duckhaven/typelens/internal/registry"
	"github.com/duckhaven/typelens/internal/testast"
	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/oracle"
)

// fakeOracle is a minimal ancestry stand-in: every class's only ancestor is
// itself, so MethodRegistry.Lookup behaves like an exact-class lookup.
type fakeOracle struct{}

func (fakeOracle) Ancestors(class string) []string                   { return []string{class} }
func (fakeOracle) FindClassesDefiningMethods(names []string) []string { return nil }
func (fakeOracle) ConstantKind(name string) oracle.ConstantKind       { return oracle.ConstantUnknown }

func newTestContext(file string) *Context {
	return NewContext(file, Sink{
		Index:   index.New(),
		Methods: registry.NewMethodRegistry(),
		IVars:   registry.NewInstanceVariableRegistry(),
		CVars:   registry.NewClassVariableRegistry(),
	})
}

func TestLowerLocalAssignAndRead(t *testing.T) {
	ctx := newTestContext("a.rb")
	assign := testast.Assign(testast.Ident("x", 0), testast.Int(1, 1), 0)
	read := testast.Ident("x", 2)

	nodes := File(ctx, []hostast.Node{assign, read})
	if len(nodes) != 2 {
		t.Fatalf("want 2 top-level nodes, got %d", len(nodes))
	}
	write, ok := nodes[0].(*ir.LocalWrite)
	if !ok {
		t.Fatalf("want *ir.LocalWrite, got %T", nodes[0])
	}
	readNode, ok := nodes[1].(*ir.LocalRead)
	if !ok {
		t.Fatalf("want *ir.LocalRead, got %T", nodes[1])
	}
	if readNode.WriteNode != write {
		t.Fatalf("read did not resolve to the preceding write")
	}
}

func TestLowerIfMergesBranchWrites(t *testing.T) {
	ctx := newTestContext("a.rb")
	assign := testast.Assign(testast.Ident("x", 0), testast.Int(1, 1), 0)
	thenBody := []hostast.Node{testast.Assign(testast.Ident("x", 2), testast.Str("a", 3), 2)}
	ifNode := testast.If(testast.Bool(true, 4), thenBody, nil, 4)
	read := testast.Ident("x", 5)

	File(ctx, []hostast.Node{assign, ifNode, read})

	readNode, ok := ctx.sink.Index.NodesForFile("a.rb")[len(ctx.sink.Index.NodesForFile("a.rb"))-1].(*ir.LocalRead)
	if !ok {
		t.Fatalf("last node is not *ir.LocalRead")
	}
	write, ok := readNode.WriteNode.(*ir.LocalWrite)
	if !ok {
		t.Fatalf("want x's binding after the if to be a LocalWrite, got %T", readNode.WriteNode)
	}
	merge, ok := write.Value.(*ir.Merge)
	if !ok {
		t.Fatalf("want x's post-if write to carry a Merge value, got %T", write.Value)
	}
	if len(merge.Branches) != 2 {
		t.Fatalf("want 2 merge branches (then + implicit else), got %d", len(merge.Branches))
	}
}

func TestLowerMethodDefCollectsExplicitAndImplicitReturns(t *testing.T) {
	ctx := newTestContext("a.rb")
	params := []hostast.Param{testast.Param("n", hostast.ParamRequired, 0)}
	body := []hostast.Node{
		testast.If(testast.Ident("n", 1),
			[]hostast.Node{testast.Return(testast.Int(1, 2), 2)},
			nil, 1),
		testast.Int(0, 3),
	}
	def := testast.MethodDef("step", params, body, false, 0)

	nodes := File(ctx, []hostast.Node{def})
	d, ok := nodes[0].(*ir.Def)
	if !ok {
		t.Fatalf("want *ir.Def, got %T", nodes[0])
	}
	if d.Name != "step" || len(d.Params) != 1 || d.Params[0].Name != "n" {
		t.Fatalf("unexpected def shape: %+v", d)
	}
	merge, ok := d.ReturnNode.(*ir.Merge)
	if !ok {
		t.Fatalf("want return_node to be a Merge of the explicit return and the final expression, got %T", d.ReturnNode)
	}
	if len(merge.Branches) != 2 {
		t.Fatalf("want 2 return candidates, got %d", len(merge.Branches))
	}
}

func TestLowerMethodDefSingleReturnIsNotWrapped(t *testing.T) {
	ctx := newTestContext("a.rb")
	def := testast.MethodDef("answer", nil, []hostast.Node{testast.Int(42, 0)}, false, 0)

	nodes := File(ctx, []hostast.Node{def})
	d := nodes[0].(*ir.Def)
	if _, ok := d.ReturnNode.(*ir.Literal); !ok {
		t.Fatalf("want return_node to be the bare final literal, got %T", d.ReturnNode)
	}
}

func TestLowerMethodDefEmptyBodyHasNilReturn(t *testing.T) {
	ctx := newTestContext("a.rb")
	def := testast.MethodDef("noop", nil, nil, false, 0)

	nodes := File(ctx, []hostast.Node{def})
	d := nodes[0].(*ir.Def)
	if d.ReturnNode != nil {
		t.Fatalf("want nil return_node for an empty body, got %#v", d.ReturnNode)
	}
}

func TestLowerMethodDefRestoresOuterReturnsAfterNestedDef(t *testing.T) {
	ctx := newTestContext("a.rb")
	ctx.returns = append(ctx.returns, ir.NewReturn(ir.NewKey(ir.TopLevelScope, ir.TagReturn, "sentinel", 0), ir.Loc{}, nil))
	before := len(ctx.returns)

	def := testast.MethodDef("inner", nil, []hostast.Node{testast.Return(testast.Int(1, 0), 0)}, false, 0)
	File(ctx, []hostast.Node{def})

	if len(ctx.returns) != before {
		t.Fatalf("lowering a method def must restore the caller's returns accumulator, got len %d want %d", len(ctx.returns), before)
	}
}

func TestLowerClassModuleBuildsDottedPathAndRegistersMethods(t *testing.T) {
	ctx := newTestContext("a.rb")
	inner := testast.MethodDef("greet", nil, []hostast.Node{testast.Str("hi", 0)}, false, 0)
	outer := testast.ClassDef("Greeter", []hostast.Node{inner}, 0)
	nested := testast.ClassDef("Inner", nil, 1)
	top := testast.ClassDef("Outer", []hostast.Node{nested}, 2)

	nodes := File(ctx, []hostast.Node{outer, top})
	cm, ok := nodes[0].(*ir.ClassModule)
	if !ok {
		t.Fatalf("want *ir.ClassModule, got %T", nodes[0])
	}
	if cm.Name != "Greeter" {
		t.Fatalf("want class name Greeter, got %q", cm.Name)
	}
	if len(ctx.topClasses) != 3 {
		t.Fatalf("want every class, the nested one included, flattened into topClasses, got %d", len(ctx.topClasses))
	}
	if ctx.topClasses[1].Name != "Outer::Inner" {
		t.Fatalf("want the nested class path Outer::Inner, got %q", ctx.topClasses[1].Name)
	}
	if _, ok := ctx.sink.Methods.Lookup(fakeOracle{}, "Greeter", "greet"); !ok {
		t.Fatalf("want greet registered under class Greeter")
	}
}

func TestLowerCallRecordsCalledMethodOnReceiver(t *testing.T) {
	ctx := newTestContext("a.rb")
	assign := testast.Assign(testast.Ident("x", 0), testast.Int(1, 1), 0)
	call := testast.Call(testast.Ident("x", 2), "succ", nil, 2)

	File(ctx, []hostast.Node{assign, call})

	write := ctx.sink.Index.NodesForFile("a.rb")[1].(*ir.LocalWrite) // [0] is the Integer literal, installed first
	got := write.CalledMethods()
	if len(got) != 1 || got[0] != "succ" {
		t.Fatalf("want [\"succ\"] recorded on the write node, got %v", got)
	}
}

func TestLowerInstanceVarSharedAcrossMethods(t *testing.T) {
	ctx := newTestContext("a.rb")
	setter := testast.MethodDef("set", nil, []hostast.Node{
		testast.Assign(testast.IVar("count", 0), testast.Int(1, 1), 0),
	}, false, 0)
	getter := testast.MethodDef("get", nil, []hostast.Node{testast.IVar("count", 2)}, false, 2)
	class := testast.ClassDef("Counter", []hostast.Node{setter, getter}, 0)

	File(ctx, []hostast.Node{class})

	getDef, ok := ctx.sink.Methods.Lookup(fakeOracle{}, "Counter", "get")
	if !ok {
		t.Fatalf("want get registered")
	}
	read, ok := getDef.ReturnNode.(*ir.InstanceVarRead)
	if !ok {
		t.Fatalf("want get's return_node to be the @count read, got %T", getDef.ReturnNode)
	}
	if read.WriteNode == nil {
		t.Fatalf("want @count read to resolve to the write installed by set")
	}
}
