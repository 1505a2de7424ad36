// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index is the location/key index (§4.5): a per-file append +
// per-file remove structure mapping a node's stable key to the node itself,
// grounded on the map-of-file-scoped-handles pattern in
// golang-tools/internal/lsp/cache/snapshot.go (files map[span.URI]...,
// invalidated per URI on edit).
package index

import "github.com/duckhaven/typelens/ir"

// KeyIndex is the global key -> node lookup plus the per-file vectors
// needed to remove exactly the entries one file contributed. Concurrent
// writes must be synchronized by the caller (the runtime façade, §4.11);
// readers and writers never overlap (§4.5).
type KeyIndex struct {
	byKey  map[ir.Key]ir.Node
	byFile map[string][]ir.Key
}

// New returns an empty KeyIndex.
func New() *KeyIndex {
	return &KeyIndex{
		byKey:  make(map[ir.Key]ir.Node),
		byFile: make(map[string][]ir.Key),
	}
}

// Add inserts node into the global key -> node map and records it against
// file for later removal (§4.5).
func (idx *KeyIndex) Add(file string, node ir.Node) {
	idx.byKey[node.Key()] = node
	idx.byFile[file] = append(idx.byFile[file], node.Key())
}

// RemoveFile deletes every key file contributed, then drops its vector
// (§4.5, §5: "re-ingest removes the prior entries before installing new
// ones").
func (idx *KeyIndex) RemoveFile(file string) {
	for _, k := range idx.byFile[file] {
		delete(idx.byKey, k)
	}
	delete(idx.byFile, file)
}

// FindByKey is an O(1) lookup.
func (idx *KeyIndex) FindByKey(k ir.Key) (ir.Node, bool) {
	n, ok := idx.byKey[k]
	return n, ok
}

// NodesForFile returns every node file currently contributes, in the order
// they were added (§4.5).
func (idx *KeyIndex) NodesForFile(file string) []ir.Node {
	keys := idx.byFile[file]
	nodes := make([]ir.Node, 0, len(keys))
	for _, k := range keys {
		if n, ok := idx.byKey[k]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Files returns the set of files currently contributing entries, for debug
// introspection.
func (idx *KeyIndex) Files() []string {
	files := make([]string, 0, len(idx.byFile))
	for f := range idx.byFile {
		files = append(files, f)
	}
	return files
}
