// Package rerank implements the Stage 3 reranker collaborators from
// spec.md §4.4/§6: a bge subprocess client and an llm chat client, both
// degrading gracefully to the first rerank_top_k chunks on any failure.
package rerank

import "context"

// Kind selects which reranker a retrieval request should use.
type Kind string

const (
	KindBGE  Kind = "bge"
	KindLLM  Kind = "llm"
	KindNone Kind = "none"
)

// Candidate is one chunk eligible for reranking, carrying the passage text
// the reranker scores and its current (pre-rerank) score.
type Candidate struct {
	Passage      string
	CurrentScore float32
}

// Result is one reranked candidate: its original index into the input
// slice, and its new score.
type Result struct {
	Index int
	Score float32
}

// Reranker reorders candidates by relevance to query and truncates to
// topK. Implementations never surface an error for a recoverable failure
// (timeout, nonzero exit, bad output) — per spec.md §4.4 and §7, they
// degrade internally to the first topK candidates in original order with
// their original scores, and the pipeline's stage still reports
// stage=reranked.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []Candidate, topK int) []Result
}

// degrade is the shared graceful-degradation fallback: the first topK
// candidates, original order, original scores.
func degrade(candidates []Candidate, topK int) []Result {
	if topK > len(candidates) {
		topK = len(candidates)
	}
	out := make([]Result, topK)
	for i := 0; i < topK; i++ {
		out[i] = Result{Index: i, Score: candidates[i].CurrentScore}
	}
	return out
}
