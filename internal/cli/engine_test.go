package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/embedclient"
)

func writeCLIConfig(t *testing.T, rootDir, content string) {
	t.Helper()
	dir := filepath.Join(rootDir, ".codesearch")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))
}

func TestBuildEngine_AssemblesEngineFromDefaultConfig(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	e, cfg, err := buildEngine(context.Background(), rootDir)
	require.NoError(t, err)
	require.NotNil(t, e)
	require.NotNil(t, cfg)

	assert.NotNil(t, e.Store)
	assert.NotNil(t, e.Graph)
	assert.NotNil(t, e.BGEReranker)
	assert.Nil(t, e.LLMReranker)
	assert.False(t, e.Config.LLMConfigured)
}

func TestBuildEngine_PropagatesInvalidConfig(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	writeCLIConfig(t, rootDir, "embedding:\n  provider: not-a-real-provider\n")

	_, _, err := buildEngine(context.Background(), rootDir)
	require.Error(t, err)
}

func TestDiscoverAndIndex_IndexesMatchingFiles(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, "cmd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "cmd", "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "README.md"), []byte("# hi\n"), 0o644))

	e, cfg, err := buildEngine(context.Background(), rootDir)
	require.NoError(t, err)
	// Substitute a dependency-free embedder: buildEngine wires the
	// configured HTTP embedding endpoint, which nothing is listening on
	// in this test.
	e.Embedder = embedclient.NewMock(cfg.Embedding.Dimensions)

	meta, err := discoverAndIndex(context.Background(), e, cfg, rootDir)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 1, meta.Stats.Files)
}

func TestDiscoverAndIndex_NoMatchingFilesFails(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "README.md"), []byte("# hi\n"), 0o644))

	e, cfg, err := buildEngine(context.Background(), rootDir)
	require.NoError(t, err)

	_, err = discoverAndIndex(context.Background(), e, cfg, rootDir)
	require.Error(t, err)
}
