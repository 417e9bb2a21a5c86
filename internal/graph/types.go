// Package graph builds a file-level dependency graph by regex-extracting
// imports/exports from raw source and resolving import paths to workspace
// files, independent of the Chunker (see spec.md §9, "Dual import parsing").
package graph

import (
	dgraph "github.com/dominikbraun/graph"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

// Import is a single import specifier found in a file, re-exported here so
// callers don't need to depend on the chunk package just for this type.
type Import = chunk.Import

// DependencyNode is one file's extracted metadata plus whatever chunks have
// been attached to it by AttachChunks.
type DependencyNode struct {
	Filepath string
	Exports  map[string]bool
	Imports  []Import
	Chunks   []chunk.Chunk
}

// DependencyGraph is the full workspace import graph: nodes keyed by
// repository-relative filepath, with forward and reverse adjacency.
//
// Edges are stored authoritatively in a dominikbraun/graph directed graph
// (g); Edges/ReverseEdges are a denormalized index kept in lockstep on
// every AddEdge, since dominikbraun/graph doesn't expose reverse-edge
// iteration directly and spec.md's contract is stated in terms of those
// two maps.
type DependencyGraph struct {
	Nodes        map[string]*DependencyNode
	Edges        map[string]map[string]bool
	ReverseEdges map[string]map[string]bool

	// Cyclic reports whether the import graph contains a cycle, computed
	// from g via dominikbraun/graph's topological sort in Finalize.
	Cyclic bool

	g dgraph.Graph[string, string]
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes:        make(map[string]*DependencyNode),
		Edges:        make(map[string]map[string]bool),
		ReverseEdges: make(map[string]map[string]bool),
		g:            dgraph.New(dgraph.StringHash, dgraph.Directed()),
	}
}

func (g *DependencyGraph) ensureNode(filepath string) *DependencyNode {
	n, ok := g.Nodes[filepath]
	if !ok {
		n = &DependencyNode{Filepath: filepath, Exports: make(map[string]bool)}
		g.Nodes[filepath] = n
		g.Edges[filepath] = make(map[string]bool)
		g.ReverseEdges[filepath] = make(map[string]bool)
		_ = g.g.AddVertex(filepath)
	}
	return n
}

// AddEdge records from→to, and to's reverse edge back to from. Both
// endpoints must already exist as nodes; callers (the builder) enforce
// that invariant before calling this.
func (g *DependencyGraph) AddEdge(from, to string) {
	if g.Edges[from] == nil {
		g.Edges[from] = make(map[string]bool)
	}
	if g.ReverseEdges[to] == nil {
		g.ReverseEdges[to] = make(map[string]bool)
	}
	if !g.Edges[from][to] {
		// AddEdge errors on a duplicate or self-referential edge; the
		// graph is allowed to be cyclic (spec.md §3) but not
		// multi-edged, so we only call through on first insertion.
		_ = g.g.AddEdge(from, to)
	}
	g.Edges[from][to] = true
	g.ReverseEdges[to][from] = true
}

// Finalize runs a topological sort over the authoritative dominikbraun/graph
// instance and records whether the import graph is cyclic. BuildGraph calls
// this once after all edges are added.
func (g *DependencyGraph) Finalize() {
	_, err := dgraph.TopologicalSort(g.g)
	g.Cyclic = err != nil
}

// Dependencies returns the filepaths f imports, in no particular order.
func (g *DependencyGraph) Dependencies(f string) []string {
	return setKeys(g.Edges[f])
}

// Dependents returns the filepaths that import f.
func (g *DependencyGraph) Dependents(f string) []string {
	return setKeys(g.ReverseEdges[f])
}

// FindExportingFiles returns every file whose export set contains symbol.
func (g *DependencyGraph) FindExportingFiles(symbol string) []string {
	var out []string
	for path, node := range g.Nodes {
		if node.Exports[symbol] {
			out = append(out, path)
		}
	}
	return out
}

// AttachChunks appends chunks to their owning node, skipping chunks whose
// file has no corresponding node.
func (g *DependencyGraph) AttachChunks(chunks []chunk.Chunk) {
	for _, c := range chunks {
		if node, ok := g.Nodes[c.Filepath]; ok {
			node.Chunks = append(node.Chunks, c)
		}
	}
}

func setKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
