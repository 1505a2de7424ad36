// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve is the type resolver (§4.6): given an IR node it returns
// the best type it can infer, memoizing results and breaking cycles the way
// go/types breaks initialization cycles — with a sentinel placeholder
// installed before recursing.
package resolve

import (
	"sync"

	"github.com/duckhaven/typelens/internal/libsig"
	"github.com/duckhaven/typelens/internal/registry"
	"github.com/duckhaven/typelens/internal/simplify"
	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/oracle"
	"github.com/duckhaven/typelens/typeval"

	"golang.org/x/sync/singleflight"
)

// Source classifies where a Result's type came from, for display and for
// callers that want to distinguish a guess from a fact.
type Source uint8

const (
	SourceLiteral Source = iota
	SourceProject
	SourceLibrary
	SourceInference
	SourceUnknown
)

// Result is what Infer returns for a node (§4.6).
type Result struct {
	Type   typeval.Type
	Reason string
	Source Source
}

var unknownResult = Result{Type: typeval.Unknown, Reason: "unknown node type", Source: SourceUnknown}

// Config tunes the resolver's heuristics; the zero Config uses the spec's
// stated defaults.
type Config struct {
	// DuckTypeCandidateCap is the duck-typing cutoff of §4.7 step 5/6.
	DuckTypeCandidateCap int
	// MergeSimplifyCap bounds a Merge's resulting union width (§4.9).
	MergeSimplifyCap int
}

func (c Config) duckCap() int {
	if c.DuckTypeCandidateCap <= 0 {
		return 3
	}
	return c.DuckTypeCandidateCap
}

func (c Config) simplifyCap() int {
	if c.MergeSimplifyCap <= 0 {
		return simplify.DefaultMemberCap
	}
	return c.MergeSimplifyCap
}

type cacheEntry struct {
	inferring bool
	result    Result
}

// Resolver infers IR node types against the project's registries, a
// library-signature registry, and an externally supplied ancestry oracle
// (§4.6-§4.9).
type Resolver struct {
	oracle  oracle.Oracle
	methods *registry.MethodRegistry
	ivars   *registry.InstanceVariableRegistry
	cvars   *registry.ClassVariableRegistry
	libsig  *libsig.Registry
	cfg     Config

	mu        sync.Mutex
	cache     map[ir.Node]*cacheEntry
	duckGroup singleflight.Group
}

// New builds a Resolver over the given project registries and library
// registry, consulting o for ancestry facts.
func New(o oracle.Oracle, methods *registry.MethodRegistry, ivars *registry.InstanceVariableRegistry, cvars *registry.ClassVariableRegistry, lib *libsig.Registry, cfg Config) *Resolver {
	return &Resolver{
		oracle:  o,
		methods: methods,
		ivars:   ivars,
		cvars:   cvars,
		libsig:  lib,
		cfg:     cfg,
		cache:   make(map[ir.Node]*cacheEntry),
	}
}

// Infer returns node's inferred type, memoizing the result and guarding
// against cycles with an Inferring sentinel (§4.8).
func (r *Resolver) Infer(node ir.Node) Result {
	if node == nil {
		return unknownResult
	}

	r.mu.Lock()
	if e, ok := r.cache[node]; ok {
		if e.inferring {
			r.mu.Unlock()
			return Result{Type: typeval.Unknown, Reason: "circular dependency", Source: SourceUnknown}
		}
		res := e.result
		r.mu.Unlock()
		return res
	}
	r.cache[node] = &cacheEntry{inferring: true}
	r.mu.Unlock()

	res := r.infer(node)

	r.mu.Lock()
	r.cache[node] = &cacheEntry{result: res}
	r.mu.Unlock()
	return res
}

// ClearNodes drops the memoized result for exactly the given nodes, instead
// of the whole cache (§4.8, §5: "re-ingest of a file removes the prior
// entries... no query ever observes a mix"). The resolver has no file
// attribution of its own, so the caller (the façade, which does know which
// nodes a file contributed via its key index) supplies the node list —
// typically a re-ingested file's prior node set, now unreachable from the
// index and otherwise just wasting cache memory.
func (r *Resolver) ClearNodes(nodes []ir.Node) {
	if len(nodes) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range nodes {
		delete(r.cache, n)
	}
}

// ClearAll empties the memoization cache (§4.8: "a global clear is also
// supported").
func (r *Resolver) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[ir.Node]*cacheEntry)
}

// CacheSize reports the number of memoized entries, for debug
// introspection (SPEC_FULL.md §4: "engine.Stats()... cache hit/miss").
func (r *Resolver) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Resolver) infer(node ir.Node) Result {
	switch n := node.(type) {
	case *ir.Literal:
		return r.inferLiteral(n)
	case *ir.LocalWrite:
		return r.inferWrite(n.Value)
	case *ir.InstanceVarWrite:
		return r.inferWrite(n.Value)
	case *ir.ClassVarWrite:
		return r.inferWrite(n.Value)
	case *ir.LocalRead:
		return r.inferRead(n.WriteNode, n.CalledMethods())
	case *ir.InstanceVarRead:
		return r.inferRead(n.WriteNode, n.CalledMethods())
	case *ir.ClassVarRead:
		return r.inferRead(n.WriteNode, n.CalledMethods())
	case *ir.Param:
		return r.inferParam(n)
	case *ir.Constant:
		return r.inferConstant(n)
	case *ir.Call:
		return r.inferCall(n)
	case *ir.BlockParamSlot:
		return r.inferBlockParamSlot(n)
	case *ir.Def:
		return r.inferDef(n)
	case *ir.Merge:
		return r.inferMerge(n)
	case *ir.Self:
		return r.inferSelf(n)
	case *ir.Return:
		return r.Infer(n.Value)
	case *ir.ClassModule:
		return Result{Type: typeval.Singleton(n.Name), Reason: "project: class/module reference", Source: SourceProject}
	}
	return unknownResult
}

func (r *Resolver) inferLiteral(n *ir.Literal) Result {
	return Result{Type: n.Type, Reason: "literal: " + typeval.Display(n.Type), Source: SourceLiteral}
}

func (r *Resolver) inferWrite(value ir.Node) Result {
	if value == nil {
		return Result{Type: typeval.Unknown, Reason: "unknown: no value", Source: SourceUnknown}
	}
	return r.Infer(value)
}

func (r *Resolver) inferRead(write ir.Node, calledMethods []string) Result {
	if write != nil {
		return r.Infer(write)
	}
	t, reason := r.duckType(calledMethods)
	return Result{Type: t, Reason: reason, Source: SourceInference}
}

func (r *Resolver) inferParam(n *ir.Param) Result {
	if n.Default != nil {
		return r.Infer(n.Default)
	}
	t, reason := r.duckType(n.CalledMethods())
	if !t.IsUnknown() {
		return Result{Type: t, Reason: reason, Source: SourceInference}
	}
	return Result{Type: typeval.Unknown, Reason: "unknown: parameter without type info", Source: SourceUnknown}
}

func (r *Resolver) inferConstant(n *ir.Constant) Result {
	if n.Dependency != nil {
		return r.Infer(n.Dependency)
	}
	switch r.oracle.ConstantKind(n.Name) {
	case oracle.ConstantClass:
		return Result{Type: typeval.Singleton(n.Name), Reason: "project: class constant", Source: SourceProject}
	case oracle.ConstantModule:
		return Result{Type: typeval.Singleton(n.Name), Reason: "project: module constant", Source: SourceProject}
	default:
		return Result{Type: typeval.Unknown, Reason: "unknown: not a class/module constant", Source: SourceUnknown}
	}
}

func (r *Resolver) inferSelf(n *ir.Self) Result {
	if n.Singleton {
		return Result{Type: typeval.Singleton(n.ClassName), Reason: "project: self (singleton)", Source: SourceProject}
	}
	return Result{Type: typeval.ClassInstance(n.ClassName), Reason: "project: self", Source: SourceProject}
}

func (r *Resolver) inferDef(n *ir.Def) Result {
	if n.Name == "initialize" {
		return Result{Type: typeval.SelfType, Reason: "project: constructor returns self", Source: SourceProject}
	}
	if len(n.BodyNodes) == 0 {
		return Result{Type: typeval.ClassInstance("NilClass"), Reason: "project: empty method body", Source: SourceProject}
	}
	return r.Infer(n.ReturnNode)
}

func (r *Resolver) inferMerge(n *ir.Merge) Result {
	types := make([]typeval.Type, 0, len(n.Branches))
	for _, b := range n.Branches {
		res := r.Infer(b)
		if res.Type.IsUnknown() {
			continue
		}
		types = append(types, res.Type)
	}
	if len(types) == 0 {
		return Result{Type: typeval.Unknown, Reason: "unknown: non-returning branches", Source: SourceUnknown}
	}
	union := simplify.Simplify(typeval.Union(types), r.oracle, r.cfg.simplifyCap())
	return Result{Type: union, Reason: "inference: merged branch types", Source: SourceInference}
}

func (r *Resolver) inferArgTypes(args []ir.Node) []typeval.Type {
	types := make([]typeval.Type, len(args))
	for i, a := range args {
		types[i] = r.Infer(a).Type
	}
	return types
}

// substituteSelf replaces a top-level SelfType with receiver (§4.4 step 5 /
// §4.6's Call protocol); nested occurrences inside a union or container are
// left alone, matching libsig's own top-level-only substitution.
func substituteSelf(t, receiver typeval.Type) typeval.Type {
	if t.Kind() == typeval.KindSelf {
		return receiver
	}
	return t
}

func (r *Resolver) inferCall(n *ir.Call) Result {
	recv := r.Infer(n.Receiver)
	recvType := recv.Type

	switch recvType.Kind() {
	case typeval.KindClassInstance:
		class := recvType.Name()
		if res, ok := r.lookupProjectMethod(class, n.Method, recvType); ok {
			return res
		}
		if res, ok := r.lookupLibraryMethod(class, n.Method, recvType, n.Args, false); ok {
			return res
		}
	case typeval.KindSingleton:
		class := recvType.Name()
		if res, ok := r.lookupProjectMethod(class, n.Method, recvType); ok {
			return res
		}
		if res, ok := r.lookupLibraryMethod(class, n.Method, recvType, n.Args, true); ok {
			return res
		}
	}

	// Receiver type unknown or the method wasn't found on it: fall back to
	// the synthetic root class so universal methods (to_s, ==, !) resolve.
	if res, ok := r.lookupProjectMethod("Object", n.Method, typeval.ClassInstance("Object")); ok {
		return res
	}
	if res, ok := r.lookupLibraryMethod("Object", n.Method, typeval.ClassInstance("Object"), n.Args, false); ok {
		return res
	}
	return Result{Type: typeval.Unknown, Reason: "unresolved call: " + n.Method, Source: SourceUnknown}
}

func (r *Resolver) lookupProjectMethod(class, method string, receiver typeval.Type) (Result, bool) {
	def, ok := r.methods.Lookup(r.oracle, class, method)
	if !ok {
		return Result{}, false
	}
	inner := r.Infer(def)
	return Result{
		Type:   substituteSelf(inner.Type, receiver),
		Reason: "project: " + class + "#" + method,
		Source: SourceProject,
	}, true
}

// lookupLibraryMethod walks class's ancestry (a project-defined class that
// subclasses a library class, e.g. "class MyError < StandardError", must
// still resolve the library-declared method) the same way
// registry.MethodRegistry.Lookup does for project methods, querying the
// library-signature registry at each ancestor in search order.
func (r *Resolver) lookupLibraryMethod(class, method string, receiver typeval.Type, args []ir.Node, singleton bool) (Result, bool) {
	argTypes := r.inferArgTypes(args)
	for _, ancestor := range r.oracle.Ancestors(class) {
		var t typeval.Type
		if singleton {
			t = r.libsig.SingletonReturnType(ancestor, method, receiver, argTypes)
		} else {
			t = r.libsig.ReturnType(ancestor, method, receiver, argTypes)
		}
		if !t.IsUnknown() {
			return Result{Type: t, Reason: "library: " + ancestor + "#" + method, Source: SourceLibrary}, true
		}
	}
	return Result{}, false
}

func (r *Resolver) inferBlockParamSlot(n *ir.BlockParamSlot) Result {
	call := n.CallNode
	recv := r.Infer(call.Receiver)

	if elem, ok := recv.Type.Elem(); ok {
		return Result{Type: elem, Reason: "project: block parameter from enumerable element", Source: SourceInference}
	}
	if k, v, ok := recv.Type.HashKeyValue(); ok {
		return Result{Type: typeval.Tuple(k, v), Reason: "project: block parameter from hash pair", Source: SourceInference}
	}

	if recv.Type.Kind() == typeval.KindClassInstance {
		types := r.libsig.BlockParamTypes(recv.Type.Name(), call.Method)
		if n.Index < len(types) {
			return Result{Type: types[n.Index], Reason: "library: declared block parameter type", Source: SourceLibrary}
		}
	}

	t, reason := r.duckType(n.CalledMethods())
	return Result{Type: t, Reason: reason, Source: SourceInference}
}
