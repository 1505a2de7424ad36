// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/duckhaven/typelens/hostast"
	"github.com/duckhaven/typelens/ir"
)

// lowerMethodDef forks a fresh method scope, lowers parameters and body,
// and builds return_node from every explicit Return plus the implicit last
// expression (§4.2).
func lowerMethodDef(ctx *Context, n hostast.Node) ir.Node {
	name := n.DefName()
	singleton := n.DefSingleton()
	class := ctx.currentClassPath()

	outerScope := ctx.scope
	outerMethod, outerInMethod, outerSingleton := ctx.methodName, ctx.inMethod, ctx.inSingleton
	outerReturns := ctx.returns

	ctx.scope = newRootScope()
	ctx.methodName = name
	ctx.inMethod = true
	ctx.inSingleton = singleton
	ctx.returns = nil

	params := lowerParams(ctx, n.DefParams())
	body := lowerStmts(ctx, n.Body())
	returnNode := buildReturnNode(ctx, body)

	ctx.scope = outerScope
	ctx.methodName, ctx.inMethod, ctx.inSingleton = outerMethod, outerInMethod, outerSingleton
	ctx.returns = outerReturns

	key := ir.NewKey(ir.ClassScope(class), ir.TagDef, name, loc(n).Offset)
	def := ir.NewDef(key, loc(n), name, class, params, returnNode, body, singleton)
	ctx.installDef(def)
	return def
}

// buildReturnNode implements §4.2's return_node construction: a single node
// when exactly one of {explicit returns, implicit final expression}
// survives, nil for an empty body, a Merge otherwise.
func buildReturnNode(ctx *Context, body []ir.Node) ir.Node {
	candidates := make([]ir.Node, 0, len(ctx.returns)+1)
	for _, r := range ctx.returns {
		candidates = append(candidates, r)
	}
	if len(body) > 0 {
		last := body[len(body)-1]
		if _, isReturn := last.(*ir.Return); !isReturn {
			candidates = append(candidates, last)
		}
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	default:
		key := ir.NewKey(ctx.currentScopeKey(), ir.TagMerge, "return", 0)
		merge := ir.NewMerge(key, ir.Loc{}, candidates)
		ctx.install(merge)
		return merge
	}
}

// lowerParams builds one ir.Param per declared parameter, flattening
// destructured names to their leaves (a destructured parameter is supplied
// by the collaborator already flattened into individual hostast.Param
// entries, since destructuring syntax is host-language-specific and out of
// this module's AST contract), and binds each into the method scope.
func lowerParams(ctx *Context, params []hostast.Param) []*ir.Param {
	out := make([]*ir.Param, 0, len(params))
	for _, p := range params {
		var deflt ir.Node
		if p.Default != nil {
			deflt = lowerNode(ctx, p.Default)
		}
		key := ir.NewKey(ctx.currentScopeKey(), ir.TagParam, p.Name, p.Loc.Offset)
		irParam := ir.NewParam(key, ir.Loc{Line: p.Loc.StartLine, StartCol: p.Loc.StartCol, EndCol: p.Loc.EndCol, Offset: p.Loc.Offset}, p.Name, ir.ParamKind(p.Kind), deflt)
		ctx.install(irParam)
		ctx.scope.assignLocal(p.Name, irParam)
		out = append(out, irParam)
	}
	return out
}

// lowerClassModule forks a class scope whose full path is parent::name,
// lowers nested members, and flattens nested classes into
// Context.topClasses for top-level registration (§4.2).
func lowerClassModule(ctx *Context, n hostast.Node) ir.Node {
	name := n.DefinedName()
	outerPath := ctx.classPath
	ctx.classPath = append(append([]string{}, outerPath...), name)
	fullPath := ctx.currentClassPath()

	outerScope := ctx.scope
	ctx.scope = newRootScope()

	members := lowerStmts(ctx, n.Members())

	ctx.scope = outerScope
	ctx.classPath = outerPath

	key := ir.NewKey(ir.TopLevelScope, ir.TagClass, fullPath, loc(n).Offset)
	cm := ir.NewClassModule(key, loc(n), fullPath, members)
	ctx.install(cm)
	ctx.topClasses = append(ctx.topClasses, cm)
	return cm
}
