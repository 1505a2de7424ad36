// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine is the runtime façade (§4.11): the single entry point an
// editor bridge drives. It owns the key index, the project registries, the
// library-signature registry and the resolver behind one mutex, grounded on
// golang-tools/internal/lsp/cache/view.go's View — a per-session object
// bundling configuration and caches behind a single lock, handed a
// collaborator-supplied snapshot of the world on every query.
package engine

import (
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	xerrors "golang.org/x/xerrors"

	"github.com/duckhaven/typelens/hostast"
	"github.com/duckhaven/typelens/internal/index"
	"github.com/duckhaven/typelens/internal/libsig"
	"github.com/duckhaven/typelens/internal/lower"
	"github.com/duckhaven/typelens/internal/registry"
	"github.com/duckhaven/typelens/internal/resolve"
	"github.com/duckhaven/typelens/internal/telemetry"
	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/oracle"
)

// Options configures an Engine (SPEC_FULL.md §2.3). The zero value is
// usable: every field falls back to the spec's stated default.
type Options struct {
	// DuckTypeCandidateCap is the method-uniqueness candidate cutoff (§4.7).
	DuckTypeCandidateCap int
	// SimplifyCandidateCap bounds a simplified union's width (§4.9).
	SimplifyCandidateCap int
	// WorkerPoolSize bounds the concurrent file-lowering pool used by
	// IngestProject (§5). Defaults to runtime.GOMAXPROCS(0).
	WorkerPoolSize int
	// LibrarySignatureStore is the bundled library-signature store to
	// preload on Finalize (§4.4). A zero Store (no Version, no Records) is
	// a no-op.
	LibrarySignatureStore libsig.Store
	// ModuleMinVersion gates LibrarySignatureStore's acceptance via
	// x/mod/semver (SPEC_FULL.md §3.3); empty skips the check.
	ModuleMinVersion string
}

func (o Options) workers() int {
	if o.WorkerPoolSize > 0 {
		return o.WorkerPoolSize
	}
	return runtime.GOMAXPROCS(0)
}

// Stats is the introspection surface SPEC_FULL.md §4 adds for debug UIs
// (spec.md §4.3/§6 call for "introspection... for debug UIs" without
// pinning its exact shape).
type Stats struct {
	FilesIndexed      int
	NodesByKind       map[string]int
	ResolverCacheSize int
	LibraryLoaded     bool
}

// ProjectFile is one unit of work for IngestProject (SPEC_FULL.md §3.1):
// a file path paired with its already-parsed AST statements.
type ProjectFile struct {
	Path  string
	Stmts []hostast.Node
}

// Engine is the façade (§4.11): one mutex over the key index, the project
// registries and the resolver cache. Parsing and lowering happens outside
// the lock; only installation into the indices is synchronized (§5).
type Engine struct {
	opts   Options
	oracle oracle.Oracle

	mu       sync.Mutex
	index    *index.KeyIndex
	methods  *registry.MethodRegistry
	ivars    *registry.InstanceVariableRegistry
	cvars    *registry.ClassVariableRegistry
	lib      *libsig.Registry
	resolver *resolve.Resolver

	finalized bool
}

// New wires a fresh Engine over o (the ancestry oracle the editor bridge
// supplies, §6) and opts.
func New(o oracle.Oracle, opts Options) *Engine {
	idx := index.New()
	methods := registry.NewMethodRegistry()
	ivars := registry.NewInstanceVariableRegistry()
	cvars := registry.NewClassVariableRegistry()
	lib := libsig.NewRegistry()
	cfg := resolve.Config{
		DuckTypeCandidateCap: opts.DuckTypeCandidateCap,
		MergeSimplifyCap:     opts.SimplifyCandidateCap,
	}
	return &Engine{
		opts:     opts,
		oracle:   o,
		index:    idx,
		methods:  methods,
		ivars:    ivars,
		cvars:    cvars,
		lib:      lib,
		resolver: resolve.New(o, methods, ivars, cvars, lib, cfg),
	}
}

// lowerFile parses nothing (the caller already has an AST) and runs the
// full lowering pass into a private, unshared Sink — its own KeyIndex and
// registries, touched by no other goroutine — so the AST walk never
// contends on e.mu (§5: "parsing and lowering may be done concurrently
// outside the lock; only the install step enters it"). It takes no lock.
func (e *Engine) lowerFile(file string, stmts []hostast.Node) lower.Sink {
	sink := lower.Sink{
		Index:   index.New(),
		Methods: registry.NewMethodRegistry(),
		IVars:   registry.NewInstanceVariableRegistry(),
		CVars:   registry.NewClassVariableRegistry(),
	}
	ctx := lower.NewContext(file, sink)
	lower.File(ctx, stmts)
	return sink
}

// Ingest lowers file's AST off-lock, then installs it under e.mu,
// replacing any prior entries for file (§4.11, §5: "re-ingest of a file
// removes the prior entries before installing new ones; no query ever
// observes a mix"). The install step only copies already-built nodes out of
// the private sink lowerFile returned, so it holds e.mu for a copy, not a
// walk.
func (e *Engine) Ingest(file string, stmts []hostast.Node) {
	span := telemetry.StartSpan("engine.ingest")
	defer span.End()

	sink := e.lowerFile(file, stmts)

	e.mu.Lock()
	defer e.mu.Unlock()
	prior := e.index.NodesForFile(file)
	e.removeFileLocked(file)
	e.installLocked(file, sink)
	e.resolver.ClearNodes(prior)
	telemetry.Log("ingested file", map[string]interface{}{"file": file})
}

// installLocked copies every entry a private sink accumulated for file into
// e's shared index/registries. Caller must hold e.mu.
func (e *Engine) installLocked(file string, sink lower.Sink) {
	for _, n := range sink.Index.NodesForFile(file) {
		e.index.Add(file, n)
	}
	for _, me := range sink.Methods.EntriesForFile(file) {
		e.methods.Register(file, me.Class, me.Method, me.Def)
	}
	for _, ve := range sink.IVars.EntriesForFile(file) {
		e.ivars.Register(file, ve.Class, ve.Name, ve.Write)
	}
	for _, ve := range sink.CVars.EntriesForFile(file) {
		e.cvars.Register(file, ve.Class, ve.Name, ve.Write)
	}
}

func (e *Engine) removeFileLocked(file string) {
	e.index.RemoveFile(file)
	e.methods.RemoveFile(file)
	e.ivars.RemoveFile(file)
	e.cvars.RemoveFile(file)
}

// IngestProject lowers every file in files concurrently, bounded by
// Options.WorkerPoolSize, then serializes installation through e.mu one
// file at a time (SPEC_FULL.md §3.1, spec.md §5: "parsing and lowering may
// be done concurrently outside the lock; only the install step enters
// it"). Files are parsed into standalone Contexts off-lock so the
// expensive walk overlaps across files; each file's install step still
// removes-then-installs so no reader ever observes a half-ingested file.
func (e *Engine) IngestProject(files []ProjectFile) error {
	g := new(errgroup.Group)
	g.SetLimit(e.opts.workers())
	for _, f := range files {
		f := f
		g.Go(func() error {
			e.Ingest(f.Path, f.Stmts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return xerrors.Errorf("ingest project: %w", err)
	}
	return nil
}

// Finalize marks the index complete after the first full project walk and
// preloads the library-signature registry (§4.11). Calling it more than
// once re-validates and re-loads the configured store.
func (e *Engine) Finalize() error {
	span := telemetry.StartSpan("engine.finalize")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	if store := e.opts.LibrarySignatureStore; len(store.Records) > 0 || store.Version != "" {
		if err := e.lib.LoadStore(store, e.opts.ModuleMinVersion); err != nil {
			telemetry.LogError("library-signature store rejected", err)
			return xerrors.Errorf("finalize: %w", err)
		}
	}
	e.finalized = true
	return nil
}

// Finalized reports whether Finalize has run (§4.11: "marks the index
// complete after the first full project walk").
func (e *Engine) Finalized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finalized
}

// Find is a synchronized key lookup (§4.11).
func (e *Engine) Find(k ir.Key) (ir.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.FindByKey(k)
}

// Infer is a synchronized resolver invocation (§4.11).
func (e *Engine) Infer(node ir.Node) resolve.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolver.Infer(node)
}

// ClearAll drops every cached inference result, mirroring a full re-index
// (§4.8: "a global clear is also supported").
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resolver.ClearAll()
}

// Methods, IVars, CVars and Library expose the underlying registries
// read-only, for the search/introspection surface spec.md §4.3 and §6 call
// for ("search(prefix) for debug UIs"). Callers must not mutate through
// these beyond the registries' own exported methods, and must not call
// them concurrently with Ingest/Finalize without going through Stats or
// another façade method that already holds e.mu — these are thin,
// synchronized views.
func (e *Engine) Methods() *registry.MethodRegistry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.methods
}

func (e *Engine) IVars() *registry.InstanceVariableRegistry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ivars
}

func (e *Engine) CVars() *registry.ClassVariableRegistry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cvars
}

func (e *Engine) Library() *libsig.Registry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lib
}

// Stats reports aggregate counts for the debug-introspection surface
// SPEC_FULL.md §4 supplements (files indexed, nodes per kind, resolver
// cache size, whether the library store has loaded).
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	files := e.index.Files()
	sort.Strings(files)

	byKind := make(map[string]int)
	for _, f := range files {
		for _, n := range e.index.NodesForFile(f) {
			byKind[kindName(n.NodeKind())]++
		}
	}

	return Stats{
		FilesIndexed:      len(files),
		NodesByKind:       byKind,
		ResolverCacheSize: e.resolver.CacheSize(),
		LibraryLoaded:     e.lib.Loaded(),
	}
}

func kindName(k ir.NodeKind) string {
	switch k {
	case ir.KindLiteral:
		return "Literal"
	case ir.KindLocalWrite:
		return "LocalWrite"
	case ir.KindLocalRead:
		return "LocalRead"
	case ir.KindInstanceVarWrite:
		return "InstanceVarWrite"
	case ir.KindInstanceVarRead:
		return "InstanceVarRead"
	case ir.KindClassVarWrite:
		return "ClassVarWrite"
	case ir.KindClassVarRead:
		return "ClassVarRead"
	case ir.KindParam:
		return "Param"
	case ir.KindCall:
		return "Call"
	case ir.KindBlockParamSlot:
		return "BlockParamSlot"
	case ir.KindDef:
		return "Def"
	case ir.KindClassModule:
		return "ClassModule"
	case ir.KindConstant:
		return "Constant"
	case ir.KindSelf:
		return "Self"
	case ir.KindReturn:
		return "Return"
	case ir.KindMerge:
		return "Merge"
	default:
		return "Unknown"
	}
}
