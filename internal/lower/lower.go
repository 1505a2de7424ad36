// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/duckhaven/typelens/hostast"
	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/typeval"
)

func loc(n hostast.Node) ir.Loc {
	l := n.Loc()
	return ir.Loc{Line: l.StartLine, StartCol: l.StartCol, EndCol: l.EndCol, Offset: l.Offset}
}

// File lowers every top-level statement of an AST, returning the resulting
// top-level node list. Nested classes are flattened into Context.topClasses
// as they are encountered, matching §4.2's "nested classes are also kept in
// members and then flattened for top-level registration".
func File(ctx *Context, stmts []hostast.Node) []ir.Node {
	return lowerStmts(ctx, stmts)
}

func lowerStmts(ctx *Context, stmts []hostast.Node) []ir.Node {
	out := make([]ir.Node, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, lowerNode(ctx, s))
	}
	return out
}

func lowerNode(ctx *Context, n hostast.Node) ir.Node {
	switch n.Kind() {
	case hostast.KindIntLiteral:
		return lowerScalarLiteral(ctx, n, typeval.ClassInstance("Integer"))
	case hostast.KindFloatLiteral:
		return lowerScalarLiteral(ctx, n, typeval.ClassInstance("Float"))
	case hostast.KindStringLiteral:
		return lowerScalarLiteral(ctx, n, typeval.ClassInstance("String"))
	case hostast.KindSymbolLiteral:
		return lowerScalarLiteral(ctx, n, typeval.ClassInstance("Symbol"))
	case hostast.KindBoolLiteral:
		return lowerScalarLiteral(ctx, n, typeval.ClassInstance("Boolean"))
	case hostast.KindNilLiteral:
		return lowerScalarLiteral(ctx, n, typeval.ClassInstance("NilClass"))
	case hostast.KindArrayLiteral:
		return lowerArrayLiteral(ctx, n)
	case hostast.KindHashLiteral:
		return lowerHashLiteral(ctx, n)
	case hostast.KindSelf:
		return lowerSelf(ctx, n)
	case hostast.KindIdent:
		return lowerIdentRead(ctx, n)
	case hostast.KindInstanceVar:
		return lowerIVarRead(ctx, n)
	case hostast.KindClassVar:
		return lowerCVarRead(ctx, n)
	case hostast.KindConstRef:
		return lowerConstRead(ctx, n)
	case hostast.KindAssign:
		return lowerAssign(ctx, n)
	case hostast.KindOpAssign:
		return lowerOpAssign(ctx, n)
	case hostast.KindIndexAssign:
		return lowerIndexAssign(ctx, n)
	case hostast.KindIf:
		return lowerIf(ctx, n)
	case hostast.KindCase:
		return lowerCase(ctx, n)
	case hostast.KindCall:
		return lowerCall(ctx, n)
	case hostast.KindMethodDef:
		return lowerMethodDef(ctx, n)
	case hostast.KindClassDef, hostast.KindModuleDef:
		return lowerClassModule(ctx, n)
	case hostast.KindReturn:
		return lowerReturn(ctx, n)
	case hostast.KindBegin:
		return lowerBegin(ctx, n)
	}
	// Defensive: an exhaustive switch over a closed hostast.Kind should
	// never reach here for a conformant collaborator (§7: "unknown node
	// type... must never happen in a conformant build").
	return ir.NewLiteral(ir.NewKey(ctx.currentScopeKey(), ir.TagLiteral, "NilClass", loc(n).Offset), loc(n), typeval.ClassInstance("NilClass"), nil, nil)
}

func lowerScalarLiteral(ctx *Context, n hostast.Node, t typeval.Type) ir.Node {
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagLiteral, t.Name(), loc(n).Offset)
	lit := ir.NewLiteral(key, loc(n), t, n.LiteralValue(), nil)
	ctx.install(lit)
	return lit
}

func lowerArrayLiteral(ctx *Context, n hostast.Node) ir.Node {
	elemNodes := lowerStmts(ctx, n.Elements())
	elemType := literalElementType(elemNodes)
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagLiteral, "Array", loc(n).Offset)
	lit := ir.NewLiteral(key, loc(n), typeval.Array(elemType), nil, elemNodes)
	ctx.install(lit)
	return lit
}

func lowerHashLiteral(ctx *Context, n hostast.Node) ir.Node {
	entries := n.HashEntries()
	values := make([]ir.Node, 0, len(entries))
	fields := make([]typeval.HashField, 0, len(entries))
	shape := true
	for _, e := range entries {
		vNode := lowerNode(ctx, e.Value)
		values = append(values, vNode)
		if e.Key == nil || e.Key.Kind() != hostast.KindSymbolLiteral {
			shape = false
			continue
		}
		sym, _ := e.Key.LiteralValue().(string)
		fields = append(fields, typeval.HashField{Key: sym, Type: syntacticType(vNode)})
	}
	var t typeval.Type
	if shape {
		t = typeval.HashShapeOf(fields)
	} else {
		valTypes := make([]typeval.Type, len(values))
		for i, v := range values {
			valTypes[i] = syntacticType(v)
		}
		t = typeval.Hash(typeval.ClassInstance("Symbol"), typeval.Union(valTypes))
	}
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagLiteral, "Hash", loc(n).Offset)
	lit := ir.NewLiteral(key, loc(n), t, nil, values)
	ctx.install(lit)
	return lit
}

// literalElementType computes an array literal's best-effort static
// element type from its already-lowered children: a union of whichever
// children are themselves literals, Unknown for the rest (§4.2 is
// lowering-time only; full resolution happens later in the resolver).
func literalElementType(elems []ir.Node) typeval.Type {
	if len(elems) == 0 {
		return typeval.Unknown
	}
	types := make([]typeval.Type, len(elems))
	for i, e := range elems {
		types[i] = syntacticType(e)
	}
	return typeval.Union(types)
}

// syntacticType returns a node's statically-known type at lowering time: a
// Literal node's own Type, or Unknown for anything whose type depends on
// resolution.
func syntacticType(n ir.Node) typeval.Type {
	if lit, ok := n.(*ir.Literal); ok {
		return lit.Type
	}
	return typeval.Unknown
}

func lowerSelf(ctx *Context, n hostast.Node) ir.Node {
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagSelf, "self", loc(n).Offset)
	self := ir.NewSelf(key, loc(n), ctx.currentClassPath(), ctx.inSingleton)
	ctx.install(self)
	return self
}

func lowerIdentRead(ctx *Context, n hostast.Node) ir.Node {
	name := n.Name()
	write, _ := ctx.scope.lookup(name)
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagLocalRead, name, loc(n).Offset)
	read := ir.NewLocalRead(key, loc(n), name, write)
	ctx.install(read)
	return read
}

func lowerIVarRead(ctx *Context, n hostast.Node) ir.Node {
	name := n.Name()
	class := ctx.currentClassPath()
	write := ctx.classScopeFor(class).ivars[name]
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagIVarRead, name, loc(n).Offset)
	read := ir.NewInstanceVarRead(key, loc(n), name, class, write)
	ctx.install(read)
	return read
}

func lowerCVarRead(ctx *Context, n hostast.Node) ir.Node {
	name := n.Name()
	class := ctx.currentClassPath()
	var write ir.Node
	if node, ok := ctx.sink.CVars.Lookup(class, name); ok {
		write = node
	}
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagCVarRead, name, loc(n).Offset)
	read := ir.NewClassVarRead(key, loc(n), name, class, write)
	ctx.install(read)
	return read
}

func lowerConstRead(ctx *Context, n hostast.Node) ir.Node {
	name := n.Name()
	var dep ir.Node
	if d := n.Dependency(); d != nil {
		dep = lowerNode(ctx, d)
	}
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagConst, name, loc(n).Offset)
	c := ir.NewConstant(key, loc(n), name, dep)
	ctx.install(c)
	return c
}

func lowerAssign(ctx *Context, n hostast.Node) ir.Node {
	target := n.Target()
	value := lowerNode(ctx, n.Value())
	return bindAssignTarget(ctx, target, value)
}

// bindAssignTarget installs value as the new binding for target, dispatched
// on the target's syntactic kind (§4.2).
func bindAssignTarget(ctx *Context, target hostast.Node, value ir.Node) ir.Node {
	switch target.Kind() {
	case hostast.KindInstanceVar:
		name := target.Name()
		class := ctx.currentClassPath()
		key := ir.NewKey(ctx.currentScopeKey(), ir.TagIVarWrite, name, loc(target).Offset)
		w := ir.NewInstanceVarWrite(key, loc(target), name, class, value)
		ctx.installIVarWrite(w)
		return w
	case hostast.KindClassVar:
		name := target.Name()
		class := ctx.currentClassPath()
		key := ir.NewKey(ctx.currentScopeKey(), ir.TagCVarWrite, name, loc(target).Offset)
		w := ir.NewClassVarWrite(key, loc(target), name, class, value)
		ctx.installCVarWrite(w)
		return w
	case hostast.KindConstRef:
		name := target.Name()
		key := ir.NewKey(ctx.currentScopeKey(), ir.TagConst, name, loc(target).Offset)
		c := ir.NewConstant(key, loc(target), name, value)
		ctx.install(c)
		return c
	default: // KindIdent and anything else falls back to a local write
		name := target.Name()
		key := ir.NewKey(ctx.currentScopeKey(), ir.TagLocalWrite, name, loc(target).Offset)
		w := ir.NewLocalWrite(key, loc(target), name, value)
		ctx.install(w)
		ctx.scope.assignLocal(name, w)
		return w
	}
}

func lowerOpAssign(ctx *Context, n hostast.Node) ir.Node {
	target := n.Target()
	name := target.Name()
	original := currentBindingOrUnassigned(ctx, target)
	value := lowerNode(ctx, n.Value())

	var newValue ir.Node
	switch n.OpKind() {
	case hostast.OpAssignOr, hostast.OpAssignAnd:
		mkey := ir.NewKey(ctx.currentScopeKey(), ir.TagMerge, name, loc(n).Offset)
		newValue = ir.NewMerge(mkey, loc(n), []ir.Node{original, value})
		ctx.install(newValue)
	default: // OpAssignAdd and friends: x += e -> Call(:+, x, [e])
		ckey := ir.NewKey(ctx.currentScopeKey(), ir.TagCall, n.OpMethod(), loc(n).Offset)
		call := ir.NewCall(ckey, loc(n), n.OpMethod(), original, []ir.Node{value})
		ctx.install(call)
		newValue = call
	}
	return bindAssignTarget(ctx, target, newValue)
}

// currentBindingOrUnassigned resolves target's pre-assignment value node, a
// synthetic nil literal if there is none (used by compound-assignment and
// branch-merge lowering, §4.2).
func currentBindingOrUnassigned(ctx *Context, target hostast.Node) ir.Node {
	switch target.Kind() {
	case hostast.KindInstanceVar:
		if w, ok := ctx.classScopeFor(ctx.currentClassPath()).ivars[target.Name()]; ok {
			return w
		}
	case hostast.KindClassVar:
		if w, ok := ctx.sink.CVars.Lookup(ctx.currentClassPath(), target.Name()); ok {
			return w
		}
	default:
		if w, ok := ctx.scope.lookup(target.Name()); ok {
			return w
		}
	}
	return nilLiteral(ctx, target)
}

func nilLiteral(ctx *Context, n hostast.Node) ir.Node {
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagLiteral, "NilClass", loc(n).Offset)
	lit := ir.NewLiteral(key, loc(n), typeval.ClassInstance("NilClass"), nil, nil)
	ctx.install(lit)
	return lit
}

func lowerIndexAssign(ctx *Context, n hostast.Node) ir.Node {
	target := n.IndexTarget()
	keyNode := lowerNode(ctx, n.IndexKey())
	valueNode := lowerNode(ctx, n.Value())

	container := currentBindingOrUnassigned(ctx, target)
	newType := mutatedContainerType(container, keyNode, valueNode)

	wkey := ir.NewKey(ctx.currentScopeKey(), ir.TagLocalWrite, target.Name(), loc(n).Offset)
	mutated := ir.NewLiteral(wkey+"_value", loc(n), newType, nil, literalChildrenOf(container))
	w := ir.NewLocalWrite(wkey, loc(n), target.Name(), mutated)
	ctx.install(mutated)
	ctx.install(w)
	if target.Kind() == hostast.KindIdent {
		ctx.scope.assignLocal(target.Name(), w)
	}
	return w
}

func literalChildrenOf(n ir.Node) []ir.Node {
	if lit, ok := n.(*ir.Literal); ok {
		return lit.Values
	}
	return nil
}

// mutatedContainerType computes the new static type of an indexed-assign
// target (§4.2): add a key to a HashShape, widen to HashType on a
// non-symbol key, or promote an ArrayType's element to a union with the
// assigned value's type.
func mutatedContainerType(container, keyNode, valueNode ir.Node) typeval.Type {
	cur := syntacticType(container)
	valType := syntacticType(valueNode)
	switch cur.Kind() {
	case typeval.KindHashShape:
		if lit, ok := keyNode.(*ir.Literal); ok && cur.Kind() == typeval.KindHashShape {
			if sym, ok := lit.LiteralValue.(string); ok && lit.Type.Kind() == typeval.KindClassInstance && lit.Type.Name() == "Symbol" {
				return cur.WithHashField(sym, valType)
			}
		}
		return cur.Widen()
	case typeval.KindHash:
		_, v, _ := cur.HashKeyValue()
		return typeval.Hash(typeval.ClassInstance("Symbol"), typeval.Union([]typeval.Type{v, valType}))
	case typeval.KindArray:
		elem, _ := cur.Elem()
		return typeval.Array(typeval.Union([]typeval.Type{elem, valType}))
	default:
		return typeval.Unknown
	}
}
