package vectorstore

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

func mustStore(t *testing.T, dim int) Store {
	t.Helper()
	s, err := New(dim, "test-model")
	require.NoError(t, err)
	return s
}

func TestStore_AddRejectsDimensionMismatch(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 3)
	err := s.Add(context.Background(), []Entry{{ID: "1", Embedding: []float32{1, 2}}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestStore_SearchRanksByCosineSimilarityDescending(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "close", Embedding: []float32{1, 0}, Chunk: chunk.Chunk{ID: "close"}},
		{ID: "far", Embedding: []float32{0, 1}, Chunk: chunk.Chunk{ID: "far"}},
	}))

	results, err := s.Search(context.Background(), []float32{1, 0}, SearchOptions{TopK: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].Entry.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestStore_SearchRespectsMinScore(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "orthogonal", Embedding: []float32{0, 1}},
	}))

	results, err := s.Search(context.Background(), []float32{1, 0}, SearchOptions{TopK: 10, MinScore: 0.5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_SearchRejectsDimensionMismatch(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 3)
	_, err := s.Search(context.Background(), []float32{1, 2}, SearchOptions{TopK: 1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestStore_AddUpsertsByID_LastWriteWinsButPositionStable(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "1", Embedding: []float32{1, 0}, Chunk: chunk.Chunk{ID: "1", Content: "v1"}},
		{ID: "2", Embedding: []float32{0, 1}, Chunk: chunk.Chunk{ID: "2", Content: "v1"}},
	}))
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "1", Embedding: []float32{1, 0}, Chunk: chunk.Chunk{ID: "1", Content: "v2"}},
	}))

	stats := s.Stats()
	assert.Equal(t, 2, stats.TotalEntries, "upsert must not grow entry count for an existing id")

	results, err := s.Search(context.Background(), []float32{1, 0}, SearchOptions{TopK: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v2", results[0].Entry.Chunk.Content)
}

func TestStore_DeleteRemovesEntries(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "1", Embedding: []float32{1, 0}},
		{ID: "2", Embedding: []float32{0, 1}},
	}))

	removed, err := s.Delete(context.Background(), []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Stats().TotalEntries)
}

func TestStore_DeleteByFilepathRemovesAllEntriesForThatFile(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "1", Embedding: []float32{1, 0}, Chunk: chunk.Chunk{Filepath: "a.ts"}},
		{ID: "2", Embedding: []float32{0, 1}, Chunk: chunk.Chunk{Filepath: "a.ts"}},
		{ID: "3", Embedding: []float32{1, 1}, Chunk: chunk.Chunk{Filepath: "b.ts"}},
	}))

	removed, err := s.DeleteByFilepath(context.Background(), "a.ts")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Stats().TotalEntries)
}

func TestStore_GetByFilepathFiltersCorrectly(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "1", Embedding: []float32{1, 0}, Chunk: chunk.Chunk{Filepath: "a.ts"}},
		{ID: "2", Embedding: []float32{0, 1}, Chunk: chunk.Chunk{Filepath: "b.ts"}},
	}))

	got := s.GetByFilepath("a.ts")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestStore_SearchHandlesZeroVectorEntryWithoutError(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	require.NoError(t, s.Add(context.Background(), []Entry{
		{ID: "zero", Embedding: []float32{0, 0}},
	}))

	results, err := s.Search(context.Background(), []float32{1, 0}, SearchOptions{TopK: 10})
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, math.IsNaN(float64(r.Score)))
	}
}
