package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

// a -> b -> c -> d, a linear chain for hop-bound assertions.
func buildChain(t *testing.T) *DependencyGraph {
	t.Helper()
	g := NewDependencyGraph()
	for _, f := range []string{"a.ts", "b.ts", "c.ts", "d.ts"} {
		g.ensureNode(f)
	}
	g.AddEdge("a.ts", "b.ts")
	g.AddEdge("b.ts", "c.ts")
	g.AddEdge("c.ts", "d.ts")
	return g
}

func TestExpandContext_SeedsAppearFirstAtDepthZero(t *testing.T) {
	t.Parallel()

	g := buildChain(t)
	got := g.ExpandContext([]string{"a.ts"}, ExpandOptions{MaxHops: 2, IncludeImports: true, MaxFiles: 10})
	require.NotEmpty(t, got)
	assert.Equal(t, "a.ts", got[0])
}

func TestExpandContext_RespectsMaxHops(t *testing.T) {
	t.Parallel()

	g := buildChain(t)
	got := g.ExpandContext([]string{"a.ts"}, ExpandOptions{MaxHops: 1, IncludeImports: true, MaxFiles: 10})
	assert.ElementsMatch(t, []string{"a.ts", "b.ts"}, got)
}

func TestExpandContext_RespectsMaxFiles(t *testing.T) {
	t.Parallel()

	g := buildChain(t)
	got := g.ExpandContext([]string{"a.ts"}, ExpandOptions{MaxHops: 10, IncludeImports: true, MaxFiles: 2})
	assert.Len(t, got, 2)
}

func TestExpandContext_IncludeDependentsWalksReverseEdges(t *testing.T) {
	t.Parallel()

	g := buildChain(t)
	got := g.ExpandContext([]string{"d.ts"}, ExpandOptions{MaxHops: 2, IncludeDependents: true, MaxFiles: 10})
	assert.Contains(t, got, "c.ts")
	assert.Contains(t, got, "b.ts")
}

func TestExpandContext_NoDirectionsEnabledReturnsOnlySeeds(t *testing.T) {
	t.Parallel()

	g := buildChain(t)
	got := g.ExpandContext([]string{"a.ts"}, ExpandOptions{MaxHops: 5, MaxFiles: 10})
	assert.Equal(t, []string{"a.ts"}, got)
}

func TestGetExpandedChunks_ConcatenatesInDiscoveryOrderAndTruncates(t *testing.T) {
	t.Parallel()

	g := buildChain(t)
	g.AttachChunks([]chunk.Chunk{
		{ID: "a1", Filepath: "a.ts"},
		{ID: "b1", Filepath: "b.ts"},
		{ID: "b2", Filepath: "b.ts"},
		{ID: "c1", Filepath: "c.ts"},
	})

	start := []chunk.Chunk{{ID: "a1", Filepath: "a.ts"}}
	got := g.GetExpandedChunks(start, ExpandOptions{MaxHops: 2, IncludeImports: true, MaxFiles: 10}, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "b1", got[1].ID)
	assert.Equal(t, "b2", got[2].ID)
}

func TestGetExpandedChunks_DedupsStartFilesBeforeExpanding(t *testing.T) {
	t.Parallel()

	g := buildChain(t)
	g.AttachChunks([]chunk.Chunk{{ID: "a1", Filepath: "a.ts"}})

	start := []chunk.Chunk{
		{ID: "a1", Filepath: "a.ts"},
		{ID: "a1-dup", Filepath: "a.ts"},
	}
	got := g.GetExpandedChunks(start, ExpandOptions{MaxHops: 0, MaxFiles: 10}, 10)
	assert.Len(t, got, 1)
}
