// Package embedclient defines the Embedder contract the retrieval
// pipeline consumes (spec.md §2, §6) plus a mock and a thin HTTP client.
// The embedding provider itself is an external collaborator per spec.md
// §1 — this package never bundles a model.
package embedclient

import "context"

// Embedder maps text to fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
