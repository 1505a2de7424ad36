// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry holds the project-defined method and variable
// registries (§4.3): per-class tables of Def/write nodes, each entry tagged
// by the file that contributed it so removal is O(entries in that file).
package registry

import (
	"sort"
	"strings"

	"github.com/duckhaven/typelens/ir"
	"github.com/duckhaven/typelens/oracle"
)

type fileTag = string

// MethodRegistry maps (class_path, method_name) -> Def node, honoring an
// ancestry oracle on lookup (§4.3).
type MethodRegistry struct {
	byClass map[string]map[string]*ir.Def
	byFile  map[fileTag][]classMethod
}

type classMethod struct {
	class, method string
}

// NewMethodRegistry returns an empty MethodRegistry.
func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		byClass: make(map[string]map[string]*ir.Def),
		byFile:  make(map[fileTag][]classMethod),
	}
}

// Register records that classPath defines methodName via def, attributing
// the entry to file for later removal.
func (m *MethodRegistry) Register(file, classPath, methodName string, def *ir.Def) {
	methods, ok := m.byClass[classPath]
	if !ok {
		methods = make(map[string]*ir.Def)
		m.byClass[classPath] = methods
	}
	methods[methodName] = def
	m.byFile[file] = append(m.byFile[file], classMethod{classPath, methodName})
}

// Lookup walks o's ancestry for classPath in method-resolution order,
// returning the first class that defines methodName (§4.3).
func (m *MethodRegistry) Lookup(o oracle.Oracle, classPath, methodName string) (*ir.Def, bool) {
	for _, ancestor := range o.Ancestors(classPath) {
		if methods, ok := m.byClass[ancestor]; ok {
			if def, ok := methods[methodName]; ok {
				return def, true
			}
		}
	}
	return nil, false
}

// MethodsForClass returns the method names classPath directly defines
// (ancestors not included), for debug introspection (§4.3).
func (m *MethodRegistry) MethodsForClass(classPath string) []string {
	methods, ok := m.byClass[classPath]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search returns every "ClassPath#method" pair whose method name has the
// given prefix, for debug UIs (§4.3).
func (m *MethodRegistry) Search(prefix string) []string {
	var out []string
	for class, methods := range m.byClass {
		for name := range methods {
			if strings.HasPrefix(name, prefix) {
				out = append(out, class+"#"+name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// MethodEntry is one (class_path, method_name) -> Def registration, used to
// replay entries lowered into a private, unshared registry into the shared
// one under the façade's lock (§5).
type MethodEntry struct {
	Class, Method string
	Def           *ir.Def
}

// EntriesForFile returns every entry file contributed, for merging a
// privately-lowered registry into a shared one.
func (m *MethodRegistry) EntriesForFile(file string) []MethodEntry {
	var out []MethodEntry
	for _, cm := range m.byFile[file] {
		if methods, ok := m.byClass[cm.class]; ok {
			if def, ok := methods[cm.method]; ok {
				out = append(out, MethodEntry{Class: cm.class, Method: cm.method, Def: def})
			}
		}
	}
	return out
}

// RemoveFile forgets every entry file contributed (§4.3, §4.5).
func (m *MethodRegistry) RemoveFile(file string) {
	for _, cm := range m.byFile[file] {
		if methods, ok := m.byClass[cm.class]; ok {
			delete(methods, cm.method)
			if len(methods) == 0 {
				delete(m.byClass, cm.class)
			}
		}
	}
	delete(m.byFile, file)
}
