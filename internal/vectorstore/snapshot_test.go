package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

func TestSaveAndLoad_RoundTripsEntriesAndMetadata(t *testing.T) {
	t.Parallel()

	s := mustStore(t, 2)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, []Entry{
		{ID: "1", Embedding: []float32{1, 0}, Chunk: chunk.Chunk{ID: "1", Filepath: "a.ts"}},
	}))

	path := filepath.Join(t.TempDir(), "vectors.json")
	require.NoError(t, Save(s, path))

	loaded, err := Load(ctx, path)
	require.NoError(t, err)

	stats := loaded.Stats()
	assert.Equal(t, 2, stats.Dimension)
	assert.Equal(t, "test-model", stats.Model)

	got := loaded.GetByFilepath("a.ts")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestSave_RejectsNonMemStore(t *testing.T) {
	t.Parallel()

	var fake Store = fakeStore{}
	err := Save(fake, filepath.Join(t.TempDir(), "vectors.json"))
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

type fakeStore struct{}

func (fakeStore) Add(ctx context.Context, entries []Entry) error { return nil }
func (fakeStore) Search(ctx context.Context, query []float32, opts SearchOptions) ([]SearchResult, error) {
	return nil, nil
}
func (fakeStore) Delete(ctx context.Context, ids []string) (int, error) { return 0, nil }
func (fakeStore) DeleteByFilepath(ctx context.Context, filepath string) (int, error) {
	return 0, nil
}
func (fakeStore) GetByFilepath(filepath string) []Entry { return nil }
func (fakeStore) Stats() Stats                          { return Stats{} }

func TestLoad_MissingFileErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
