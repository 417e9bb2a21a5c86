package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/codesearch-core/codesearch/internal/chunk"
	"github.com/codesearch-core/codesearch/internal/config"
	"github.com/codesearch-core/codesearch/internal/engine"
	"github.com/codesearch-core/codesearch/internal/graph"
	"github.com/codesearch-core/codesearch/internal/vectorstore"
)

// saveSnapshots writes the graph and (in-process) vector store snapshots
// to .codesearch/. A postgres-backed store has no file snapshot to write.
func saveSnapshots(e *engine.Engine, rootDir string) error {
	dir := filepath.Join(rootDir, ".codesearch")

	if err := graph.SaveSnapshot(e.Graph, filepath.Join(dir, "graph.json")); err != nil {
		return err
	}
	if err := vectorstore.Save(e.Store, filepath.Join(dir, "vectors.json")); err != nil {
		if errors.Is(err, vectorstore.ErrUnsupportedBackend) {
			return nil
		}
		return err
	}
	return nil
}

// loadSnapshots restores the graph and (for the in-process backend)
// vector store from .codesearch/ and marks e ready. A missing graph
// snapshot means no index has been built yet: e stays un-ready and
// operations report IndexNotInitialized, which is not treated as an
// error here.
func loadSnapshots(ctx context.Context, e *engine.Engine, rootDir string, cfg *config.Config) error {
	dir := filepath.Join(rootDir, ".codesearch")
	graphPath := filepath.Join(dir, "graph.json")

	if _, err := os.Stat(graphPath); err != nil {
		return nil
	}

	g, err := graph.LoadSnapshot(graphPath)
	if err != nil {
		return err
	}

	store := e.Store
	if cfg.Storage.Backend != "postgres" {
		vectorsPath := filepath.Join(dir, "vectors.json")
		if _, err := os.Stat(vectorsPath); err == nil {
			store, err = vectorstore.Load(ctx, vectorsPath)
			if err != nil {
				return err
			}
		}
	}

	var chunks []chunk.Chunk
	for path := range g.Nodes {
		for _, entry := range store.GetByFilepath(path) {
			chunks = append(chunks, entry.Chunk)
		}
	}
	g.AttachChunks(chunks)

	e.LoadSnapshot(g, store, &engine.IndexMeta{EmbeddingModel: cfg.Embedding.Model})
	return nil
}
