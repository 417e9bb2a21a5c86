package graph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

func TestSnapshotRoundTrip_PreservesEdgesAndMetadataButNotChunks(t *testing.T) {
	t.Parallel()

	g := NewDependencyGraph()
	g.ensureNode("a.ts")
	g.ensureNode("b.ts")
	g.Nodes["a.ts"].Exports["Foo"] = true
	g.Nodes["a.ts"].Imports = []Import{{Symbol: "Foo", From: "./b", Line: 1}}
	g.AddEdge("a.ts", "b.ts")
	g.AttachChunks([]chunk.Chunk{{ID: "c1", Filepath: "a.ts"}})

	snap := g.ToSnapshot()
	assert.Equal(t, []string{"c1"}, snap.Nodes["a.ts"].ChunkIDs)

	restored := FromSnapshot(snap)
	require.Contains(t, restored.Nodes, "a.ts")
	require.Contains(t, restored.Nodes, "b.ts")
	assert.Contains(t, restored.Dependencies("a.ts"), "b.ts")
	assert.Contains(t, restored.Dependents("b.ts"), "a.ts")
	assert.True(t, restored.Nodes["a.ts"].Exports["Foo"])
	assert.Empty(t, restored.Nodes["a.ts"].Chunks, "chunks are advisory only and re-attached from the vector snapshot, not the graph snapshot")
}

func TestSaveAndLoadSnapshot_RoundTripsThroughDisk(t *testing.T) {
	t.Parallel()

	g := NewDependencyGraph()
	g.ensureNode("a.ts")
	g.ensureNode("b.ts")
	g.AddEdge("a.ts", "b.ts")

	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, SaveSnapshot(g, path))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Contains(t, loaded.Dependencies("a.ts"), "b.ts")
}

func TestLoadSnapshot_MissingFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
