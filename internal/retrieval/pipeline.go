package retrieval

import (
	"context"
	"fmt"

	"github.com/codesearch-core/codesearch/internal/chunk"
	"github.com/codesearch-core/codesearch/internal/embedclient"
	"github.com/codesearch-core/codesearch/internal/graph"
	"github.com/codesearch-core/codesearch/internal/rerank"
	"github.com/codesearch-core/codesearch/internal/vectorstore"
)

// Pipeline orchestrates the three retrieval stages. Graph may be nil, in
// which case stage 2 is always skipped regardless of Options.ExpandGraph.
type Pipeline struct {
	Embedder embedclient.Embedder
	Store    vectorstore.Store
	Graph    *graph.DependencyGraph

	BGEReranker rerank.Reranker
	LLMReranker rerank.Reranker
}

// Retrieve runs embed → search → (expand) → (rerank) for query, returning
// the result of the last stage that actually ran. Embedder and store
// errors propagate; reranker errors never do (spec.md §4.4, §7).
func (p *Pipeline) Retrieve(ctx context.Context, query string, opts Options) (*Result, error) {
	vectors, err := p.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("retrieval: embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("retrieval: embedder returned no vectors")
	}

	searchResults, err := p.Store.Search(ctx, vectors[0], vectorstore.SearchOptions{
		TopK:     opts.TopK,
		MinScore: opts.MinScore,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieval: vector search: %w", err)
	}

	stage1 := &Result{Stage: StageVector}
	for _, r := range searchResults {
		stage1.Chunks = append(stage1.Chunks, r.Entry.Chunk)
		stage1.Scores = append(stage1.Scores, r.Score)
	}
	if len(stage1.Chunks) == 0 {
		return stage1, nil
	}

	current := stage1
	if opts.ExpandGraph && p.Graph != nil {
		current = p.expand(stage1, opts)
	}

	if opts.Reranker != rerank.KindNone && len(current.Chunks) > opts.RerankTopK {
		reranked := p.rerank(ctx, query, current, opts)
		if reranked != nil {
			current = reranked
		}
	}

	return current, nil
}

// expand runs stage 2: BFS over the graph from stage1's files, scoring
// carried-over chunks with their original vector score and newly
// discovered chunks with 0.
func (p *Pipeline) expand(stage1 *Result, opts Options) *Result {
	scoreByID := make(map[string]float32, len(stage1.Chunks))
	for i, c := range stage1.Chunks {
		scoreByID[c.ID] = stage1.Scores[i]
	}

	expandOpts := graph.ExpandOptions{
		MaxHops:           opts.MaxHops,
		IncludeImports:    true,
		IncludeDependents: true,
		MaxFiles:          20,
	}
	expanded := p.Graph.GetExpandedChunks(stage1.Chunks, expandOpts, opts.MaxExpandedChunks)

	seenFiles := map[string]bool{}
	var expandedFrom []string
	for _, c := range stage1.Chunks {
		if !seenFiles[c.Filepath] {
			seenFiles[c.Filepath] = true
			expandedFrom = append(expandedFrom, c.Filepath)
		}
	}

	result := &Result{Stage: StageGraph, ExpandedFrom: expandedFrom}
	for _, c := range expanded {
		score := scoreByID[c.ID] // zero value is 0 when absent, matching spec.md
		result.Chunks = append(result.Chunks, c)
		result.Scores = append(result.Scores, score)
	}
	return result
}

// rerank runs stage 3. It returns nil if current has no chunks, if
// opts.Reranker names no known reranker, or if the selected reranker is
// nil; the caller then keeps the previous stage's result. It never returns
// nil on reranker failure — a degraded-but-present result is still
// returned with stage=reranked.
func (p *Pipeline) rerank(ctx context.Context, query string, current *Result, opts Options) *Result {
	if len(current.Chunks) == 0 {
		return nil
	}

	var reranker rerank.Reranker
	switch opts.Reranker {
	case rerank.KindBGE:
		reranker = p.BGEReranker
	case rerank.KindLLM:
		reranker = p.LLMReranker
	default:
		return nil
	}
	if reranker == nil {
		return nil
	}

	candidates := make([]rerank.Candidate, len(current.Chunks))
	for i, c := range current.Chunks {
		candidates[i] = rerank.Candidate{
			Passage:      passageText(c),
			CurrentScore: current.Scores[i],
		}
	}

	ranked := reranker.Rerank(ctx, query, candidates, opts.RerankTopK)

	out := &Result{Stage: StageReranked, ExpandedFrom: current.ExpandedFrom}
	for _, r := range ranked {
		out.Chunks = append(out.Chunks, current.Chunks[r.Index])
		out.Scores = append(out.Scores, r.Score)
	}
	return out
}

// passageText builds the reranker passage string from spec.md §4.4:
// "<filepath>:<start>-<end> (<node_type>: <name>)\n<content>".
func passageText(c chunk.Chunk) string {
	return fmt.Sprintf("%s:%d-%d (%s: %s)\n%s", c.Filepath, c.StartLine, c.EndLine, c.NodeType, c.Name, c.Content)
}
