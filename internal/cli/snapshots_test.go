package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/chunk"
	"github.com/codesearch-core/codesearch/internal/chunk/lang"
	"github.com/codesearch-core/codesearch/internal/config"
	"github.com/codesearch-core/codesearch/internal/embedclient"
	"github.com/codesearch-core/codesearch/internal/engine"
	"github.com/codesearch-core/codesearch/internal/vectorstore"
)

func newTestEngineForSnapshots(t *testing.T) *engine.Engine {
	t.Helper()
	store, err := vectorstore.New(8, "test-model")
	require.NoError(t, err)

	chunker := chunk.New(map[chunk.Language]chunk.Parser{
		chunk.LangGo: lang.NewGoParser(),
	})
	return engine.New(chunker, embedclient.NewMock(8), store, engine.Config{EmbeddingModel: "test-model"})
}

func TestSaveAndLoadSnapshots_RoundTrip(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	e := newTestEngineForSnapshots(t)

	_, err := e.Index(context.Background(), rootDir, []engine.IndexFile{
		{Filepath: "a.go", Content: "package sample\n\nfunc Greet() string { return \"hi\" }\n"},
	})
	require.NoError(t, err)

	require.NoError(t, saveSnapshots(e, rootDir))
	assert.FileExists(t, filepath.Join(rootDir, ".codesearch", "graph.json"))
	assert.FileExists(t, filepath.Join(rootDir, ".codesearch", "vectors.json"))

	restored := newTestEngineForSnapshots(t)
	cfg := config.Default()
	require.NoError(t, loadSnapshots(context.Background(), restored, rootDir, cfg))

	status := restored.Status()
	assert.True(t, status.Ready)

	files, err := restored.ListFiles("")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.go", files[0].Filepath)
	assert.Equal(t, 1, files[0].ChunkCount)
}

func TestLoadSnapshots_MissingGraphIsNotAnError(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	e := newTestEngineForSnapshots(t)
	cfg := config.Default()

	require.NoError(t, loadSnapshots(context.Background(), e, rootDir, cfg))
	assert.False(t, e.Status().Ready)
}
