// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package libsig

import (
	"sort"
	"strings"
	"sync"

	"github.com/duckhaven/typelens/typeval"
)

// key identifies a (class, method) pair in the registry's hash tables.
type key struct {
	class  string
	method string
}

// MethodEntry wraps one or more overloads of a single (class, method) pair
// (§4.4).
type MethodEntry struct {
	Overloads []Overload
}

// Registry preloads every method signature from a bundled library-signature
// store into hash tables keyed by (class, method) and (class,
// class_method), read-only after Load (§4.4, §5: "requires no locking").
type Registry struct {
	mu        sync.RWMutex // Load takes the write lock; lookups and Search take the read lock
	instance  map[key]*MethodEntry
	singleton map[key]*MethodEntry
	loaded    bool
}

// NewRegistry returns an empty registry; call Load to preload records.
func NewRegistry() *Registry {
	return &Registry{
		instance:  make(map[key]*MethodEntry),
		singleton: make(map[key]*MethodEntry),
	}
}

// Load preloads records into the registry's hash tables. It is intended to
// run once at startup (§4.4); calling it again replaces prior entries for
// the records supplied, grounded on the bundled-store compatibility check
// in store.go.
func (r *Registry) Load(records []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Records for the same (class, method) within one call accumulate;
	// an entry left by an earlier call is replaced.
	fresh := make(map[*MethodEntry]bool)
	for _, rec := range records {
		table := r.instance
		if rec.Singleton {
			table = r.singleton
		}
		k := key{class: rec.Class, method: rec.Method}
		if entry, ok := table[k]; ok && fresh[entry] {
			entry.Overloads = append(entry.Overloads, rec.Overloads...)
		} else {
			entry := &MethodEntry{Overloads: append([]Overload(nil), rec.Overloads...)}
			table[k] = entry
			fresh[entry] = true
		}
	}
	r.loaded = true
}

// Loaded reports whether Load has run.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// LookupInstance returns the instance-method entry for (class, method), if any.
func (r *Registry) LookupInstance(class, method string) (*MethodEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.instance[key{class, method}]
	return e, ok
}

// LookupSingleton returns the class-method entry for (class, method), if any.
func (r *Registry) LookupSingleton(class, method string) (*MethodEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.singleton[key{class, method}]
	return e, ok
}

// ReturnType performs overload resolution (§4.4) for an instance-method
// call. receiver carries the type arguments bound to any generic
// parameters on its class, used for substitution. It returns Unknown when
// no overload matches.
func (r *Registry) ReturnType(class, method string, receiver typeval.Type, argTypes []typeval.Type) typeval.Type {
	entry, ok := r.LookupInstance(class, method)
	if !ok {
		return typeval.Unknown
	}
	return resolveReturn(entry, receiver, argTypes)
}

// SingletonReturnType is ReturnType's class-method counterpart.
func (r *Registry) SingletonReturnType(class, method string, receiver typeval.Type, argTypes []typeval.Type) typeval.Type {
	entry, ok := r.LookupSingleton(class, method)
	if !ok {
		return typeval.Unknown
	}
	return resolveReturn(entry, receiver, argTypes)
}

// BlockParamTypes returns the declared block parameter types for (class,
// method), used when a block literal's parameters have no other source of
// inference (§4.4).
func (r *Registry) BlockParamTypes(class, method string) []typeval.Type {
	entry, ok := r.LookupInstance(class, method)
	if !ok {
		return nil
	}
	for _, ov := range entry.Overloads {
		if ov.Block != nil {
			types := make([]typeval.Type, len(ov.Block))
			for i, p := range ov.Block {
				types[i] = p.Type
			}
			return types
		}
	}
	return nil
}

// Search returns every (class, method) pair whose method name has the given
// prefix, for debug introspection (§4.3/§6, extended to the library side per
// SPEC_FULL.md §4).
func (r *Registry) Search(prefix string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for k := range r.instance {
		if strings.HasPrefix(k.method, prefix) {
			out = append(out, k.class+"#"+k.method)
		}
	}
	for k := range r.singleton {
		if strings.HasPrefix(k.method, prefix) {
			out = append(out, k.class+"."+k.method)
		}
	}
	sort.Strings(out)
	return out
}
