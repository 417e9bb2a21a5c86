// Package retrieval implements the three-stage pipeline from spec.md §4.4:
// vector search → graph expansion → reranking.
package retrieval

import (
	"github.com/codesearch-core/codesearch/internal/chunk"
	"github.com/codesearch-core/codesearch/internal/rerank"
)

// Stage names the pipeline state a RetrievalResult was produced at.
type Stage string

const (
	StageVector   Stage = "vector"
	StageGraph    Stage = "graph"
	StageReranked Stage = "reranked"
)

// Options configures a retrieval request, per spec.md §4.4.
type Options struct {
	TopK              int
	MinScore          float32
	ExpandGraph       bool
	MaxHops           int
	MaxExpandedChunks int
	Reranker          rerank.Kind
	RerankTopK        int
}

// DefaultOptions matches spec.md §4.4's stated defaults.
func DefaultOptions() Options {
	return Options{
		TopK:              10,
		MinScore:          0,
		ExpandGraph:       true,
		MaxHops:           2,
		MaxExpandedChunks: 20,
		Reranker:          rerank.KindBGE,
		RerankTopK:        5,
	}
}

// Result is one stage's output: parallel chunks/scores slices plus
// provenance of which files the candidate set expanded from.
type Result struct {
	Chunks       []chunk.Chunk
	Scores       []float32
	ExpandedFrom []string
	Stage        Stage
}
