// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/duckhaven/typelens/hostast"
	"github.com/duckhaven/typelens/ir"
)

// lowerIf lowers if/unless (§4.2): each branch runs in a forked child
// scope; every variable written in either branch becomes a Merge of its
// branch value and its pre-branch value (or a nil literal, modeling "may be
// unassigned" for an else-less conditional).
func lowerIf(ctx *Context, n hostast.Node) ir.Node {
	lowerNode(ctx, n.Cond()) // condition is evaluated for its called-methods/side effects only

	outer := ctx.scope
	thenScope := outer.fork()
	ctx.scope = thenScope
	lowerStmts(ctx, n.Then())
	ctx.scope = outer

	var elseScope *localScope
	if n.Else() != nil {
		elseScope = outer.fork()
		ctx.scope = elseScope
		lowerStmts(ctx, n.Else())
		ctx.scope = outer
	}

	mergeBranchedScopes(ctx, n, outer, []*localScope{thenScope, elseScope})
	return nilLiteral(ctx, n)
}

// lowerCase lowers case/when (§4.2): every when-branch (and the optional
// else) runs in its own forked scope, then merges the same way as if/else.
func lowerCase(ctx *Context, n hostast.Node) ir.Node {
	if subj := n.Subject(); subj != nil {
		lowerNode(ctx, subj)
	}
	outer := ctx.scope
	var branches []*localScope
	for _, body := range n.WhenBranches() {
		bs := outer.fork()
		ctx.scope = bs
		lowerStmts(ctx, body)
		ctx.scope = outer
		branches = append(branches, bs)
	}
	if els := n.ElseBody(); els != nil {
		bs := outer.fork()
		ctx.scope = bs
		lowerStmts(ctx, els)
		ctx.scope = outer
		branches = append(branches, bs)
	} else {
		branches = append(branches, nil) // no else: "may be unassigned"
	}
	mergeBranchedScopes(ctx, n, outer, branches)
	return nilLiteral(ctx, n)
}

// mergeBranchedScopes installs, in outer, a Merge write for every variable
// name any forked branch scope assigned (§4.2).
func mergeBranchedScopes(ctx *Context, anchor hostast.Node, outer *localScope, branches []*localScope) {
	seen := make(map[string]bool)
	var names []string
	for _, b := range branches {
		if b == nil {
			continue
		}
		for _, name := range b.ownNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for _, name := range names {
		branchValues := make([]ir.Node, 0, len(branches))
		for _, b := range branches {
			if b != nil {
				if w, ok := b.ownWrite(name); ok {
					branchValues = append(branchValues, w)
					continue
				}
			}
			// Branch didn't touch this variable: fall back to its
			// pre-branch value, or a nil literal if it never existed.
			if w, ok := outer.lookup(name); ok {
				branchValues = append(branchValues, w)
			} else {
				branchValues = append(branchValues, nilLiteral(ctx, anchor))
			}
		}
		mkey := ir.NewKey(ctx.currentScopeKey(), ir.TagMerge, name, loc(anchor).Offset)
		merge := ir.NewMerge(mkey, loc(anchor), branchValues)
		ctx.install(merge)
		wkey := ir.NewKey(ctx.currentScopeKey(), ir.TagLocalWrite, name, loc(anchor).Offset)
		w := ir.NewLocalWrite(wkey, loc(anchor), name, merge)
		ctx.install(w)
		outer.assignLocal(name, w)
	}
}

// lowerCall lowers a method call, its arguments, and an attached block
// literal (§4.2).
func lowerCall(ctx *Context, n hostast.Node) ir.Node {
	var receiver ir.Node
	if r := n.Receiver(); r != nil {
		receiver = lowerNode(ctx, r)
	} else {
		receiver = lowerImplicitSelf(ctx, n)
	}

	args := lowerStmts(ctx, n.Args())

	key := ir.NewKey(ctx.currentScopeKey(), ir.TagCall, n.Method(), loc(n).Offset)
	call := ir.NewCall(key, loc(n), n.Method(), receiver, args)
	ctx.install(call)

	if n.HasBlock() {
		lowerBlock(ctx, n, call)
	}

	recordMethodCall(receiver, n.Method())
	return call
}

// lowerImplicitSelf synthesizes the Self node for a call with no explicit
// receiver (§4.2: "synthesize Self when implicit inside a class").
func lowerImplicitSelf(ctx *Context, n hostast.Node) ir.Node {
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagSelf, "self", loc(n).Offset)
	self := ir.NewSelf(key, loc(n), ctx.currentClassPath(), ctx.inSingleton)
	ctx.install(self)
	return self
}

// recordMethodCall appends method to the called-methods list of the node
// the call was made on, if that node tracks one (§3.2, §4.2): for each
// method name invoked on a variable/param node, append it unless already
// present.
func recordMethodCall(receiver ir.Node, method string) {
	type appender interface{ AppendCalledMethod(string) }
	if a, ok := receiver.(appender); ok {
		a.AppendCalledMethod(method)
	}
}

// lowerBlock forks a block scope chained to the call site's enclosing
// scope, binds one BlockParamSlot per declared block parameter, lowers the
// block body, and attaches the body's result node to call.BlockBody (§4.2).
func lowerBlock(ctx *Context, n hostast.Node, call *ir.Call) {
	call.HasBlock = true
	outer := ctx.scope
	blockScope := outer.fork()
	ctx.scope = blockScope

	params := n.BlockParams()
	slots := make([]*ir.BlockParamSlot, 0, len(params))
	for i, p := range params {
		pkey := ir.NewKey(ctx.currentScopeKey(), ir.TagBlockParam, p.Name(), loc(p).Offset)
		slot := ir.NewBlockParamSlot(pkey, loc(p), i, p.Name(), call)
		ctx.install(slot)
		blockScope.assignLocal(p.Name(), slot)
		slots = append(slots, slot)
	}
	call.BlockParams = slots

	body := lowerStmts(ctx, n.BlockBody())
	ctx.scope = outer

	if len(body) == 0 {
		call.BlockBody = nilLiteral(ctx, n)
	} else {
		call.BlockBody = body[len(body)-1]
	}
}

// lowerReturn lowers an explicit return statement (§4.2); ReturnValue is a
// nil-literal substitute when the source omits a value.
func lowerReturn(ctx *Context, n hostast.Node) ir.Node {
	var value ir.Node
	if rv := n.ReturnValue(); rv != nil {
		value = lowerNode(ctx, rv)
	} else {
		value = nilLiteral(ctx, n)
	}
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagReturn, "return", loc(n).Offset)
	ret := ir.NewReturn(key, loc(n), value)
	ctx.install(ret)
	ctx.returns = append(ctx.returns, ret)
	return ret
}

// lowerBegin flattens begin/rescue/else/ensure into a sequence of sibling
// body statements (§4.2): the rescue bodies are independent branches that
// feed the method's return_node through the same merge machinery as
// if/case.
func lowerBegin(ctx *Context, n hostast.Node) ir.Node {
	outer := ctx.scope

	mainScope := outer.fork()
	ctx.scope = mainScope
	mainBody := lowerStmts(ctx, n.BeginBody())
	if els := n.ElseBody(); els != nil {
		mainBody = append(mainBody, lowerStmts(ctx, els)...)
	}
	ctx.scope = outer

	branches := []*localScope{mainScope}
	var rescueResults []ir.Node
	if len(mainBody) > 0 {
		rescueResults = append(rescueResults, mainBody[len(mainBody)-1])
	}
	for _, rb := range n.RescueBodies() {
		rs := outer.fork()
		ctx.scope = rs
		body := lowerStmts(ctx, rb)
		ctx.scope = outer
		branches = append(branches, rs)
		if len(body) > 0 {
			rescueResults = append(rescueResults, body[len(body)-1])
		}
	}
	mergeBranchedScopes(ctx, n, outer, branches)

	if ensure := n.EnsureBody(); ensure != nil {
		lowerStmts(ctx, ensure)
	}

	if len(rescueResults) == 0 {
		return nilLiteral(ctx, n)
	}
	if len(rescueResults) == 1 {
		return rescueResults[0]
	}
	key := ir.NewKey(ctx.currentScopeKey(), ir.TagMerge, "begin", loc(n).Offset)
	merge := ir.NewMerge(key, loc(n), rescueResults)
	ctx.install(merge)
	return merge
}
