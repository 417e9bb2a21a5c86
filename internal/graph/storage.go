package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Snapshot is the on-disk shape of a DependencyGraph, per spec.md §6.
// chunk_ids is advisory; chunks are re-attached from the vector snapshot
// on load, not reconstructed from here.
type Snapshot struct {
	Nodes        map[string]NodeSnapshot `json:"nodes"`
	Edges        map[string][]string     `json:"edges"`
	ReverseEdges map[string][]string     `json:"reverse_edges"`
}

// NodeSnapshot is one node's persisted shape.
type NodeSnapshot struct {
	Filepath string   `json:"filepath"`
	Exports  []string `json:"exports"`
	Imports  []Import `json:"imports"`
	ChunkIDs []string `json:"chunk_ids"`
}

// ToSnapshot converts the in-memory graph to its serializable form.
func (g *DependencyGraph) ToSnapshot() *Snapshot {
	snap := &Snapshot{
		Nodes:        make(map[string]NodeSnapshot, len(g.Nodes)),
		Edges:        make(map[string][]string, len(g.Edges)),
		ReverseEdges: make(map[string][]string, len(g.ReverseEdges)),
	}

	for path, node := range g.Nodes {
		ids := make([]string, 0, len(node.Chunks))
		for _, c := range node.Chunks {
			ids = append(ids, c.ID)
		}
		snap.Nodes[path] = NodeSnapshot{
			Filepath: node.Filepath,
			Exports:  setKeys(node.Exports),
			Imports:  node.Imports,
			ChunkIDs: ids,
		}
	}
	for path, set := range g.Edges {
		snap.Edges[path] = setKeys(set)
	}
	for path, set := range g.ReverseEdges {
		snap.ReverseEdges[path] = setKeys(set)
	}
	return snap
}

// FromSnapshot rebuilds a DependencyGraph from its serialized form. Chunks
// are left empty; callers re-attach them via AttachChunks after loading
// the matching vector snapshot.
func FromSnapshot(snap *Snapshot) *DependencyGraph {
	g := NewDependencyGraph()
	for path, ns := range snap.Nodes {
		node := g.ensureNode(path)
		node.Imports = ns.Imports
		for _, e := range ns.Exports {
			node.Exports[e] = true
		}
	}
	for from, tos := range snap.Edges {
		for _, to := range tos {
			g.AddEdge(from, to)
		}
	}
	g.Finalize()
	return g
}

// SaveSnapshot writes the graph atomically (write-to-temp, flock, rename)
// to path, matching the teacher's write-new-then-rename idiom.
func SaveSnapshot(g *DependencyGraph, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("graph snapshot: create dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("graph snapshot: acquire lock: %w", err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(g.ToSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("graph snapshot: marshal: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("graph snapshot: write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("graph snapshot: rename: %w", err)
	}
	return nil
}

// LoadSnapshot reads and decodes a graph snapshot from path.
func LoadSnapshot(path string) (*DependencyGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graph snapshot: read: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("graph snapshot: unmarshal: %w", err)
	}
	return FromSnapshot(&snap), nil
}
