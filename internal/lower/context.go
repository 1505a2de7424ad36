// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lower walks a host-language AST (§4.2, an external collaborator's
// parse tree conforming to package hostast) and builds the IR reverse-
// dependency graph, registering every node inline into the key index and
// the project registries as it goes.
package lower

import (
	"github.com/duckhaven/typelens/internal/index"
	"github.com/duckhaven/typelens/internal/registry"
	"github.com/duckhaven/typelens/ir"
)

// Sink is where a freshly lowered node is installed (§4.2: "insertion into
// the key index happens inline"). The façade supplies a private index and
// registries per file and copies their entries into its shared tables
// afterwards; Context never holds a reference to anything that outlives
// lowering itself except through Sink.
type Sink struct {
	Index   *index.KeyIndex
	Methods *registry.MethodRegistry
	IVars   *registry.InstanceVariableRegistry
	CVars   *registry.ClassVariableRegistry
}

// Context is the per-file lowering state (§4.2): the scope chain, the
// current class path and method name, and the sink nodes are installed
// into. A Context carries no references to AST nodes once lowering
// completes (§4.2 invariant).
type Context struct {
	file  string
	sink  Sink
	scope *localScope

	classPath  []string // nested class/module path components
	methodName string
	inMethod   bool
	inSingleton bool

	classScopes map[string]*classScope
	topClasses  []*ir.ClassModule // every class/module, nested ones included, for flattened registration

	// returns accumulates every explicit Return encountered while lowering
	// the innermost method body, so Def.ReturnNode can be built from all of
	// them regardless of nesting depth (§4.2).
	returns []*ir.Return
}

// NewContext starts a fresh lowering context for file, installing nodes
// into sink as they are built.
func NewContext(file string, sink Sink) *Context {
	return &Context{
		file:        file,
		sink:        sink,
		scope:       newRootScope(),
		classScopes: make(map[string]*classScope),
	}
}

// currentClassPath returns the fully-qualified dotted/"::"-joined path of
// the innermost enclosing class/module, or "" at the top level.
func (c *Context) currentClassPath() string {
	if len(c.classPath) == 0 {
		return ""
	}
	path := c.classPath[0]
	for _, p := range c.classPath[1:] {
		path += "::" + p
	}
	return path
}

// currentScopeKey returns the §3.3 scope prefix for a node built right now.
func (c *Context) currentScopeKey() ir.Scope {
	class := c.currentClassPath()
	if c.inMethod {
		return ir.MethodScope(class, c.methodName)
	}
	if class == "" {
		return ir.TopLevelScope
	}
	return ir.ClassScope(class)
}

// classScopeFor returns (creating if needed) the ivar-sharing scope for
// classPath.
func (c *Context) classScopeFor(classPath string) *classScope {
	cs, ok := c.classScopes[classPath]
	if !ok {
		cs = newClassScope(classPath)
		c.classScopes[classPath] = cs
	}
	return cs
}

// install records node in the key index.
func (c *Context) install(node ir.Node) {
	c.sink.Index.Add(c.file, node)
}

// installDef additionally registers node in the method registry.
func (c *Context) installDef(def *ir.Def) {
	c.install(def)
	c.sink.Methods.Register(c.file, def.ClassName, def.Name, def)
}

// installIVarWrite additionally registers node in the instance-variable
// registry and the class's shared ivar table.
func (c *Context) installIVarWrite(w *ir.InstanceVarWrite) {
	c.install(w)
	c.sink.IVars.Register(c.file, w.ClassName, w.Name, w)
	c.classScopeFor(w.ClassName).ivars[w.Name] = w
}

// installCVarWrite additionally registers node in the class-variable registry.
func (c *Context) installCVarWrite(w *ir.ClassVarWrite) {
	c.install(w)
	c.sink.CVars.Register(c.file, w.ClassName, w.Name, w)
}
