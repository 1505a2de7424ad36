// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the intermediate representation: a reverse-dependency
// graph in which every expression is a node that points at the nodes whose
// types determine its own (§3.2). Nodes are a closed set of concrete types,
// each reporting its variant through Node.NodeKind; the resolver dispatches
// with a type switch over those concrete types, the way go/ast's Node
// hierarchy is closed over the parser's grammar.
package ir

import "github.com/duckhaven/typelens/typeval"

// NodeKind discriminates the IR node variants.
type NodeKind uint8

const (
	KindLiteral NodeKind = iota
	KindLocalWrite
	KindLocalRead
	KindInstanceVarWrite
	KindInstanceVarRead
	KindClassVarWrite
	KindClassVarRead
	KindParam
	KindCall
	KindBlockParamSlot
	KindDef
	KindClassModule
	KindConstant
	KindSelf
	KindReturn
	KindMerge
)

// Loc is a node's source location (§3.2).
type Loc struct {
	Line     int
	StartCol int
	EndCol   int
	Offset   int
}

// Node is implemented by every IR node variant. It is a closed interface:
// the only implementations are the concrete types in this file, which the
// resolver and lowering select with type switches and type assertions, and
// NodeKind() names the variant (used by engine.Stats) (§9, "Class hierarchy
// used for node variants").
type Node interface {
	Key() Key
	NodeKind() NodeKind
	Loc() Loc
	// CalledMethods returns the method names invoked on this node's value,
	// in source order. Read nodes return their write/param node's list,
	// which they share through the same pointer (see base.calledMethods).
	CalledMethods() []string
}

// base carries the fields common to every node: its key, location, and
// called-methods list. calledMethods is a pointer to a slice:
// LocalRead/IVarRead/CVarRead nodes are constructed with the pointer copied
// from their write/param node, so the read and the write hold one shared,
// mutable list and an AppendCalledMethod through either node is seen by
// both. A read with no write node gets a list of its own.
type base struct {
	key           Key
	loc           Loc
	calledMethods *[]string
}

func newBase(key Key, loc Loc) base {
	list := make([]string, 0, 2)
	return base{key: key, loc: loc, calledMethods: &list}
}

// sharedBase builds a base that shares its called-methods list with an
// existing node — used by LocalRead/IVarRead/CVarRead, whose called-methods
// must propagate to/from the write node they alias (§4.2: "called-methods
// list is shared by reference with the write/param node").
func sharedBase(key Key, loc Loc, shareWith Node) base {
	if shareWith == nil {
		return newBase(key, loc)
	}
	if sb, ok := shareWith.(interface{ sharedList() *[]string }); ok {
		return base{key: key, loc: loc, calledMethods: sb.sharedList()}
	}
	return newBase(key, loc)
}

func (b base) Key() Key       { return b.key }
func (b base) Loc() Loc       { return b.loc }
func (b base) sharedList() *[]string { return b.calledMethods }

func (b base) CalledMethods() []string {
	if b.calledMethods == nil {
		return nil
	}
	return *b.calledMethods
}

// AppendCalledMethod records that method was invoked on the value this node
// produces, in source order, skipping a name already present (§3.2).
func (b base) AppendCalledMethod(method string) {
	for _, m := range *b.calledMethods {
		if m == method {
			return
		}
	}
	*b.calledMethods = append(*b.calledMethods, method)
}

// Literal is a scalar, array, or hash literal (§3.2). LiteralValue holds the
// scalar payload (nil for arrays/hashes); Values holds child IR nodes for
// array elements or hash values so their dependencies stay reachable.
type Literal struct {
	base
	Type         typeval.Type
	LiteralValue interface{}
	Values       []Node
}

func (n *Literal) NodeKind() NodeKind { return KindLiteral }

// NewLiteral constructs a Literal node.
func NewLiteral(key Key, loc Loc, t typeval.Type, literalValue interface{}, values []Node) *Literal {
	return &Literal{base: newBase(key, loc), Type: t, LiteralValue: literalValue, Values: values}
}

// LocalWrite is a local-variable assignment.
type LocalWrite struct {
	base
	Name  string
	Value Node
}

func (n *LocalWrite) NodeKind() NodeKind { return KindLocalWrite }

// NewLocalWrite constructs a LocalWrite node.
func NewLocalWrite(key Key, loc Loc, name string, value Node) *LocalWrite {
	return &LocalWrite{base: newBase(key, loc), Name: name, Value: value}
}

// LocalRead is a local-variable reference. WriteNode is the write it
// aliases, or nil meaning "assumed externally defined / unknown" (§3.2).
type LocalRead struct {
	base
	Name      string
	WriteNode Node
}

func (n *LocalRead) NodeKind() NodeKind { return KindLocalRead }

// NewLocalRead constructs a LocalRead node, sharing its called-methods list
// with writeNode when one is known.
func NewLocalRead(key Key, loc Loc, name string, writeNode Node) *LocalRead {
	return &LocalRead{base: sharedBase(key, loc, writeNode), Name: name, WriteNode: writeNode}
}

// InstanceVarWrite is an instance-variable assignment, keyed by owning class.
type InstanceVarWrite struct {
	base
	Name      string
	ClassName string
	Value     Node
}

func (n *InstanceVarWrite) NodeKind() NodeKind { return KindInstanceVarWrite }

// NewInstanceVarWrite constructs an InstanceVarWrite node.
func NewInstanceVarWrite(key Key, loc Loc, name, className string, value Node) *InstanceVarWrite {
	return &InstanceVarWrite{base: newBase(key, loc), Name: name, ClassName: className, Value: value}
}

// InstanceVarRead is an instance-variable reference.
type InstanceVarRead struct {
	base
	Name      string
	ClassName string
	WriteNode Node
}

func (n *InstanceVarRead) NodeKind() NodeKind { return KindInstanceVarRead }

// NewInstanceVarRead constructs an InstanceVarRead node.
func NewInstanceVarRead(key Key, loc Loc, name, className string, writeNode Node) *InstanceVarRead {
	return &InstanceVarRead{base: sharedBase(key, loc, writeNode), Name: name, ClassName: className, WriteNode: writeNode}
}

// ClassVarWrite is a class-variable assignment.
type ClassVarWrite struct {
	base
	Name      string
	ClassName string
	Value     Node
}

func (n *ClassVarWrite) NodeKind() NodeKind { return KindClassVarWrite }

// NewClassVarWrite constructs a ClassVarWrite node.
func NewClassVarWrite(key Key, loc Loc, name, className string, value Node) *ClassVarWrite {
	return &ClassVarWrite{base: newBase(key, loc), Name: name, ClassName: className, Value: value}
}

// ClassVarRead is a class-variable reference.
type ClassVarRead struct {
	base
	Name      string
	ClassName string
	WriteNode Node
}

func (n *ClassVarRead) NodeKind() NodeKind { return KindClassVarRead }

// NewClassVarRead constructs a ClassVarRead node.
func NewClassVarRead(key Key, loc Loc, name, className string, writeNode Node) *ClassVarRead {
	return &ClassVarRead{base: sharedBase(key, loc, writeNode), Name: name, ClassName: className, WriteNode: writeNode}
}

// ParamKind classifies a Param's binding form.
type ParamKind uint8

const (
	ParamRequired ParamKind = iota
	ParamOptional
	ParamRest
	ParamKeywordRequired
	ParamKeywordOptional
	ParamKeywordRest
	ParamBlock
	ParamForwarding
)

// Param is a method or block parameter.
type Param struct {
	base
	Name    string
	Kind    ParamKind
	Default Node // optional
}

func (n *Param) NodeKind() NodeKind { return KindParam }

// NewParam constructs a Param node.
func NewParam(key Key, loc Loc, name string, kind ParamKind, deflt Node) *Param {
	return &Param{base: newBase(key, loc), Name: name, Kind: kind, Default: deflt}
}

// Call is a method call; Receiver == nil means implicit self.
type Call struct {
	base
	Method      string
	Receiver    Node
	Args        []Node
	BlockParams []*BlockParamSlot
	BlockBody   Node
	HasBlock    bool
}

func (n *Call) NodeKind() NodeKind { return KindCall }

// NewCall constructs a Call node.
func NewCall(key Key, loc Loc, method string, receiver Node, args []Node) *Call {
	return &Call{base: newBase(key, loc), Method: method, Receiver: receiver, Args: args}
}

// BlockParamSlot is a parameter bound by a block; its type is inferred from
// the receiver of its owning call (§3.2).
type BlockParamSlot struct {
	base
	Index    int
	Name     string
	CallNode *Call
}

func (n *BlockParamSlot) NodeKind() NodeKind { return KindBlockParamSlot }

// NewBlockParamSlot constructs a BlockParamSlot node.
func NewBlockParamSlot(key Key, loc Loc, index int, name string, call *Call) *BlockParamSlot {
	return &BlockParamSlot{base: newBase(key, loc), Index: index, Name: name, CallNode: call}
}

// Def is a method definition. ReturnNode is nil only when the body is empty.
type Def struct {
	base
	Name       string
	ClassName  string
	Params     []*Param
	ReturnNode Node
	BodyNodes  []Node
	Singleton  bool
}

func (n *Def) NodeKind() NodeKind { return KindDef }

// NewDef constructs a Def node.
func NewDef(key Key, loc Loc, name, className string, params []*Param, returnNode Node, body []Node, singleton bool) *Def {
	return &Def{base: newBase(key, loc), Name: name, ClassName: className, Params: params, ReturnNode: returnNode, BodyNodes: body, Singleton: singleton}
}

// ClassModule is a class or module definition.
type ClassModule struct {
	base
	Name    string
	Members []Node
}

func (n *ClassModule) NodeKind() NodeKind { return KindClassModule }

// NewClassModule constructs a ClassModule node.
func NewClassModule(key Key, loc Loc, name string, members []Node) *ClassModule {
	return &ClassModule{base: newBase(key, loc), Name: name, Members: members}
}

// Constant is a named constant reference or assignment. Dependency is the
// assigned value node, or nil for a bare reference.
type Constant struct {
	base
	Name       string
	Dependency Node
}

func (n *Constant) NodeKind() NodeKind { return KindConstant }

// NewConstant constructs a Constant node.
func NewConstant(key Key, loc Loc, name string, dependency Node) *Constant {
	return &Constant{base: newBase(key, loc), Name: name, Dependency: dependency}
}

// Self is the `self` receiver, possibly in a singleton (class-method)
// context.
type Self struct {
	base
	ClassName string
	Singleton bool
}

func (n *Self) NodeKind() NodeKind { return KindSelf }

// NewSelf constructs a Self node.
func NewSelf(key Key, loc Loc, className string, singleton bool) *Self {
	return &Self{base: newBase(key, loc), ClassName: className, Singleton: singleton}
}

// Return is an explicit return statement; Value is a nil-literal node when
// the source omits a value.
type Return struct {
	base
	Value Node
}

func (n *Return) NodeKind() NodeKind { return KindReturn }

// NewReturn constructs a Return node.
func NewReturn(key Key, loc Loc, value Node) *Return {
	return &Return{base: newBase(key, loc), Value: value}
}

// Merge is a control-flow join: if/else, case, rescue, ||=, &&=, or a
// multi-return method's implicit merge point. Its type is the union of its
// branch types (§3.2).
type Merge struct {
	base
	Branches []Node
}

func (n *Merge) NodeKind() NodeKind { return KindMerge }

// NewMerge constructs a Merge node.
func NewMerge(key Key, loc Loc, branches []Node) *Merge {
	return &Merge{base: newBase(key, loc), Branches: branches}
}
