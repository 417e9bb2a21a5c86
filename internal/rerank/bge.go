package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"sort"
	"time"
)

// bgeTimeout is the hard ceiling from spec.md §5/§6: 30s regardless of any
// caller-provided timeout.
const bgeTimeout = 30 * time.Second

// BGE reranks by delegating to an external scoring subprocess over a
// one-shot stdin/stdout JSON protocol (spec.md §6): write
// {query, passages[]} to stdin, read a JSON array of floats from stdout.
type BGE struct {
	// Command is the subprocess to run, e.g. "bge-rerank". Args are
	// appended as-is; the protocol itself carries no arguments.
	Command string
	Args    []string
}

type bgeRequest struct {
	Query    string   `json:"query"`
	Passages []string `json:"passages"`
}

// Rerank implements Reranker. On timeout, nonzero exit, empty output,
// unparseable output, or a process error, it degrades to the first topK
// candidates in original order. The subprocess is always terminated on
// settle.
func (b *BGE) Rerank(ctx context.Context, query string, candidates []Candidate, topK int) []Result {
	ctx, cancel := context.WithTimeout(ctx, bgeTimeout)
	defer cancel()

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Passage
	}

	reqBody, err := json.Marshal(bgeRequest{Query: query, Passages: passages})
	if err != nil {
		return degrade(candidates, topK)
	}

	cmd := exec.CommandContext(ctx, b.Command, b.Args...)
	cmd.Stdin = bytes.NewReader(reqBody)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return degrade(candidates, topK)
	}

	var scores []float32
	if err := json.Unmarshal(stdout.Bytes(), &scores); err != nil {
		return degrade(candidates, topK)
	}
	if len(scores) != len(candidates) || len(scores) == 0 {
		return degrade(candidates, topK)
	}

	ranked := make([]Result, len(candidates))
	for i, sc := range scores {
		ranked[i] = Result{Index: i, Score: sc}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if topK > len(ranked) {
		topK = len(ranked)
	}
	return ranked[:topK]
}
