// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hostast declares the contract the host language parser
// (explicitly a collaborator, never built by this module — see spec §1)
// must satisfy for the lowering pass to consume its output. It is a closed
// tagged sum, mirrored after go/ast's node hierarchy but flattened into a
// single Kind-discriminated interface so the lowering's exhaustive switch
// never needs runtime reflection over the collaborator's concrete node
// types (§9, "Runtime reflection on AST node classes").
package hostast

// Loc is a source location as supplied by the collaborator's parser.
type Loc struct {
	StartLine int
	StartCol  int
	EndCol    int
	Offset    int
}

// Kind discriminates the syntax forms the lowering protocol (§4.2) handles.
type Kind uint8

const (
	KindIntLiteral Kind = iota
	KindFloatLiteral
	KindStringLiteral
	KindSymbolLiteral
	KindBoolLiteral
	KindNilLiteral
	KindArrayLiteral
	KindHashLiteral
	KindSelf
	KindIdent        // bare local-variable reference
	KindInstanceVar  // @name
	KindClassVar     // @@name
	KindConstRef     // Name or A::B
	KindAssign       // x = e
	KindOpAssign     // x ||= e / x &&= e / x += e (Op tells which)
	KindIndexAssign  // a[k] = v
	KindIf           // if/unless, with optional else branch
	KindCase         // case/when, multiple branches
	KindCall         // method call, optional receiver, optional block
	KindMethodDef    // def
	KindClassDef     // class Foo < Bar
	KindModuleDef    // module Foo
	KindReturn       // explicit return
	KindBegin        // begin/rescue/else/ensure
	KindBlockParam   // |x| inside a block param list; the lowering never reads it (BlockParams() yields KindIdent nodes)
)

// OpAssignKind distinguishes the compound-assignment operators (§4.2).
type OpAssignKind uint8

const (
	OpAssignOr  OpAssignKind = iota // ||=
	OpAssignAnd                    // &&=
	OpAssignAdd                    // += (Op holds the underlying binary method, e.g. "+")
)

// Node is any syntax node the collaborator's parser produces. Every
// accessor below is valid only for the Kinds documented on it; the lowering
// never calls an accessor without first checking Kind().
type Node interface {
	Kind() Kind
	Loc() Loc

	// Scalar literals (Int/Float/String/Symbol/Bool).
	LiteralValue() interface{}

	// KindArrayLiteral / KindHashLiteral.
	Elements() []Node     // array values, or alternating hash key/value pairs
	HashEntries() []HashEntry

	// KindIdent / KindInstanceVar / KindClassVar / KindConstRef.
	Name() string

	// KindConstRef: Dependency is the RHS when this ConstRef node is itself
	// the target of a constant assignment, nil for a bare reference.
	Dependency() Node

	// KindAssign / KindOpAssign / KindIndexAssign.
	Target() Node
	Value() Node
	OpKind() OpAssignKind
	OpMethod() string // underlying binary method name for OpAssignAdd-style compounds

	// KindIndexAssign.
	IndexTarget() Node
	IndexKey() Node

	// KindIf.
	Cond() Node
	Then() []Node
	Else() []Node // nil if no else branch present

	// KindCase.
	Subject() Node          // nil for a subject-less case
	WhenBranches() [][]Node // one []Node body per `when`

	// KindCall.
	Receiver() Node // nil means implicit self
	Method() string
	Args() []Node
	BlockParams() []Node // KindIdent nodes naming the block's parameters
	BlockBody() []Node   // nil if HasBlock is false
	HasBlock() bool

	// KindMethodDef.
	DefName() string
	DefParams() []Param
	DefSingleton() bool // `def self.foo` vs `def foo`
	Body() []Node

	// KindClassDef / KindModuleDef.
	DefinedName() string // class/module simple name
	Members() []Node

	// KindReturn.
	ReturnValue() Node // nil-literal substitute when source omits a value

	// KindBegin.
	BeginBody() []Node
	RescueBodies() [][]Node
	ElseBody() []Node // also a KindCase's else branch; nil if absent
	EnsureBody() []Node
}

// HashEntry is one key/value pair of a hash literal. Key is nil for a
// double-splat entry (**h), which the lowering treats as widening the
// result to HashType.
type HashEntry struct {
	Key   Node
	Value Node
}

// ParamKind classifies a parameter in a DefParams() list.
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

// Param is one parameter of a method definition.
type Param struct {
	Name    string
	Kind    ParamKind
	Default Node // non-nil only for ParamOptional / ParamKeywordOptional
	Loc     Loc
}
