// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testast is a synthetic builder for hostast.Node trees, used by
// tests that exercise lowering and end-to-end inference without depending
// on any real host-language parser (§4.2's collaborator is out of scope for
// this module).
package testast

import "github.com/duckhaven/typelens/hostast"

// Node is a mutable, struct-based implementation of hostast.Node. Tests
// build one with a constructor (Int, Ident, Call, ...) and set whichever
// extra fields the construct needs.
type Node struct {
	kind hostast.Kind
	loc  hostast.Loc

	literalValue interface{}
	elements     []hostast.Node
	hashEntries  []hostast.HashEntry
	name         string
	dependency   hostast.Node

	target   hostast.Node
	value    hostast.Node
	opKind   hostast.OpAssignKind
	opMethod string

	indexTarget hostast.Node
	indexKey    hostast.Node

	cond hostast.Node
	then []hostast.Node
	els  []hostast.Node

	subject      hostast.Node
	whenBranches [][]hostast.Node

	receiver    hostast.Node
	method      string
	args        []hostast.Node
	blockParams []hostast.Node
	blockBody   []hostast.Node
	hasBlock    bool

	defName      string
	defParams    []hostast.Param
	defSingleton bool
	body         []hostast.Node

	definedName string
	members     []hostast.Node

	returnValue hostast.Node

	beginBody    []hostast.Node
	rescueBodies [][]hostast.Node
	ensureBody   []hostast.Node
}

var _ hostast.Node = (*Node)(nil)

func (n *Node) Kind() hostast.Kind { return n.kind }
func (n *Node) Loc() hostast.Loc   { return n.loc }

func (n *Node) LiteralValue() interface{}     { return n.literalValue }
func (n *Node) Elements() []hostast.Node      { return n.elements }
func (n *Node) HashEntries() []hostast.HashEntry { return n.hashEntries }
func (n *Node) Name() string                  { return n.name }
func (n *Node) Dependency() hostast.Node      { return n.dependency }

func (n *Node) Target() hostast.Node      { return n.target }
func (n *Node) Value() hostast.Node       { return n.value }
func (n *Node) OpKind() hostast.OpAssignKind { return n.opKind }
func (n *Node) OpMethod() string          { return n.opMethod }

func (n *Node) IndexTarget() hostast.Node { return n.indexTarget }
func (n *Node) IndexKey() hostast.Node    { return n.indexKey }

func (n *Node) Cond() hostast.Node   { return n.cond }
func (n *Node) Then() []hostast.Node { return n.then }
func (n *Node) Else() []hostast.Node { return n.els }

func (n *Node) Subject() hostast.Node          { return n.subject }
func (n *Node) WhenBranches() [][]hostast.Node { return n.whenBranches }

func (n *Node) Receiver() hostast.Node     { return n.receiver }
func (n *Node) Method() string             { return n.method }
func (n *Node) Args() []hostast.Node       { return n.args }
func (n *Node) BlockParams() []hostast.Node { return n.blockParams }
func (n *Node) BlockBody() []hostast.Node  { return n.blockBody }
func (n *Node) HasBlock() bool             { return n.hasBlock }

func (n *Node) DefName() string            { return n.defName }
func (n *Node) DefParams() []hostast.Param { return n.defParams }
func (n *Node) DefSingleton() bool         { return n.defSingleton }
func (n *Node) Body() []hostast.Node       { return n.body }

func (n *Node) DefinedName() string   { return n.definedName }
func (n *Node) Members() []hostast.Node { return n.members }

func (n *Node) ReturnValue() hostast.Node { return n.returnValue }

func (n *Node) BeginBody() []hostast.Node     { return n.beginBody }
func (n *Node) RescueBodies() [][]hostast.Node { return n.rescueBodies }
func (n *Node) ElseBody() []hostast.Node       { return n.els }
func (n *Node) EnsureBody() []hostast.Node     { return n.ensureBody }

// --- constructors -----------------------------------------------------

func at(offset int) hostast.Loc { return hostast.Loc{StartLine: 1, StartCol: offset, EndCol: offset + 1, Offset: offset} }

func Int(v int, offset int) *Node {
	return &Node{kind: hostast.KindIntLiteral, loc: at(offset), literalValue: v}
}

func Float(v float64, offset int) *Node {
	return &Node{kind: hostast.KindFloatLiteral, loc: at(offset), literalValue: v}
}

func Str(v string, offset int) *Node {
	return &Node{kind: hostast.KindStringLiteral, loc: at(offset), literalValue: v}
}

func Sym(v string, offset int) *Node {
	return &Node{kind: hostast.KindSymbolLiteral, loc: at(offset), literalValue: v}
}

func Bool(v bool, offset int) *Node {
	return &Node{kind: hostast.KindBoolLiteral, loc: at(offset), literalValue: v}
}

func Nil(offset int) *Node {
	return &Node{kind: hostast.KindNilLiteral, loc: at(offset)}
}

func Array(offset int, elems ...hostast.Node) *Node {
	return &Node{kind: hostast.KindArrayLiteral, loc: at(offset), elements: elems}
}

func Hash(offset int, entries ...hostast.HashEntry) *Node {
	return &Node{kind: hostast.KindHashLiteral, loc: at(offset), hashEntries: entries}
}

func Self(offset int) *Node {
	return &Node{kind: hostast.KindSelf, loc: at(offset)}
}

func Ident(name string, offset int) *Node {
	return &Node{kind: hostast.KindIdent, loc: at(offset), name: name}
}

func IVar(name string, offset int) *Node {
	return &Node{kind: hostast.KindInstanceVar, loc: at(offset), name: name}
}

func CVar(name string, offset int) *Node {
	return &Node{kind: hostast.KindClassVar, loc: at(offset), name: name}
}

func Const(name string, offset int) *Node {
	return &Node{kind: hostast.KindConstRef, loc: at(offset), name: name}
}

func Assign(target, value hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindAssign, loc: at(offset), target: target, value: value}
}

func OpAssign(target, value hostast.Node, opKind hostast.OpAssignKind, opMethod string, offset int) *Node {
	return &Node{kind: hostast.KindOpAssign, loc: at(offset), target: target, value: value, opKind: opKind, opMethod: opMethod}
}

func IndexAssign(target, key, value hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindIndexAssign, loc: at(offset), indexTarget: target, indexKey: key, value: value}
}

func If(cond hostast.Node, then, els []hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindIf, loc: at(offset), cond: cond, then: then, els: els}
}

func Case(subject hostast.Node, whenBranches [][]hostast.Node, els []hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindCase, loc: at(offset), subject: subject, whenBranches: whenBranches, els: els}
}

func Call(receiver hostast.Node, method string, args []hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindCall, loc: at(offset), receiver: receiver, method: method, args: args}
}

// WithBlock attaches a block (with the given parameter names) to a call
// built by Call.
func (n *Node) WithBlock(params []string, body []hostast.Node) *Node {
	n.hasBlock = true
	n.blockBody = body
	for i, p := range params {
		n.blockParams = append(n.blockParams, Ident(p, n.loc.Offset+i))
	}
	return n
}

func MethodDef(name string, params []hostast.Param, body []hostast.Node, singleton bool, offset int) *Node {
	return &Node{kind: hostast.KindMethodDef, loc: at(offset), defName: name, defParams: params, body: body, defSingleton: singleton}
}

func ClassDef(name string, members []hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindClassDef, loc: at(offset), definedName: name, members: members}
}

func ModuleDef(name string, members []hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindModuleDef, loc: at(offset), definedName: name, members: members}
}

func Return(value hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindReturn, loc: at(offset), returnValue: value}
}

func Begin(body []hostast.Node, rescues [][]hostast.Node, els, ensure []hostast.Node, offset int) *Node {
	return &Node{kind: hostast.KindBegin, loc: at(offset), beginBody: body, rescueBodies: rescues, els: els, ensureBody: ensure}
}

func Param(name string, kind hostast.ParamKind, offset int) hostast.Param {
	return hostast.Param{Name: name, Kind: kind, Loc: at(offset)}
}

func ParamWithDefault(name string, kind hostast.ParamKind, deflt hostast.Node, offset int) hostast.Param {
	return hostast.Param{Name: name, Kind: kind, Default: deflt, Loc: at(offset)}
}

func Entry(key, value hostast.Node) hostast.HashEntry {
	return hostast.HashEntry{Key: key, Value: value}
}
