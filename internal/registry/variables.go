// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/oracle"
)

type classVar struct {
	class, name string
}

// varRegistry is the shared shape behind InstanceVariableRegistry and
// ClassVariableRegistry: a (class_path, var_name) -> write-node table,
// per-file tagged for O(entries in that file) removal (§4.3).
type varRegistry struct {
	byClass map[string]map[string]ir.Node
	byFile  map[fileTag][]classVar
}

func newVarRegistry() varRegistry {
	return varRegistry{
		byClass: make(map[string]map[string]ir.Node),
		byFile:  make(map[fileTag][]classVar),
	}
}

func (v *varRegistry) register(file, classPath, name string, write ir.Node) {
	vars, ok := v.byClass[classPath]
	if !ok {
		vars = make(map[string]ir.Node)
		v.byClass[classPath] = vars
	}
	vars[name] = write
	v.byFile[file] = append(v.byFile[file], classVar{classPath, name})
}

func (v *varRegistry) lookupExact(classPath, name string) (ir.Node, bool) {
	vars, ok := v.byClass[classPath]
	if !ok {
		return nil, false
	}
	w, ok := vars[name]
	return w, ok
}

// VarEntry is one (class_path, var_name) -> write-node registration, used to
// replay entries lowered into a private, unshared registry into the shared
// one under the façade's lock (§5).
type VarEntry struct {
	Class, Name string
	Write       ir.Node
}

func (v *varRegistry) entriesForFile(file string) []VarEntry {
	var out []VarEntry
	for _, cv := range v.byFile[file] {
		if vars, ok := v.byClass[cv.class]; ok {
			if w, ok := vars[cv.name]; ok {
				out = append(out, VarEntry{Class: cv.class, Name: cv.name, Write: w})
			}
		}
	}
	return out
}

func (v *varRegistry) removeFile(file string) {
	for _, cv := range v.byFile[file] {
		if vars, ok := v.byClass[cv.class]; ok {
			delete(vars, cv.name)
			if len(vars) == 0 {
				delete(v.byClass, cv.class)
			}
		}
	}
	delete(v.byFile, file)
}

// InstanceVariableRegistry maps (class_path, ivar_name) -> write node.
// Lookup walks the ancestry oracle (§4.3).
type InstanceVariableRegistry struct{ varRegistry }

// NewInstanceVariableRegistry returns an empty InstanceVariableRegistry.
func NewInstanceVariableRegistry() *InstanceVariableRegistry {
	return &InstanceVariableRegistry{varRegistry: newVarRegistry()}
}

// Register records that classPath declares instance variable name via write.
func (r *InstanceVariableRegistry) Register(file, classPath, name string, write ir.Node) {
	r.register(file, classPath, name, write)
}

// Lookup walks o's ancestry for classPath, returning the first write node
// found for name.
func (r *InstanceVariableRegistry) Lookup(o oracle.Oracle, classPath, name string) (ir.Node, bool) {
	for _, ancestor := range o.Ancestors(classPath) {
		if w, ok := r.lookupExact(ancestor, name); ok {
			return w, true
		}
	}
	return nil, false
}

// RemoveFile forgets every entry file contributed.
func (r *InstanceVariableRegistry) RemoveFile(file string) { r.removeFile(file) }

// EntriesForFile returns every entry file contributed, for merging a
// privately-lowered registry into a shared one.
func (r *InstanceVariableRegistry) EntriesForFile(file string) []VarEntry { return r.entriesForFile(file) }

// ClassVariableRegistry maps (class_path, cvar_name) -> write node. Lookup
// does NOT walk ancestors (§4.3: "class-variable lookup does not").
type ClassVariableRegistry struct{ varRegistry }

// NewClassVariableRegistry returns an empty ClassVariableRegistry.
func NewClassVariableRegistry() *ClassVariableRegistry {
	return &ClassVariableRegistry{varRegistry: newVarRegistry()}
}

// Register records that classPath declares class variable name via write.
func (r *ClassVariableRegistry) Register(file, classPath, name string, write ir.Node) {
	r.register(file, classPath, name, write)
}

// Lookup returns the write node declared directly on classPath, with no
// ancestor walk.
func (r *ClassVariableRegistry) Lookup(classPath, name string) (ir.Node, bool) {
	return r.lookupExact(classPath, name)
}

// RemoveFile forgets every entry file contributed.
func (r *ClassVariableRegistry) RemoveFile(file string) { r.removeFile(file) }

// EntriesForFile returns every entry file contributed, for merging a
// privately-lowered registry into a shared one.
func (r *ClassVariableRegistry) EntriesForFile(file string) []VarEntry { return r.entriesForFile(file) }
