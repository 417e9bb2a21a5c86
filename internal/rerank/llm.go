package rerank

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ChatClient is the minimal external LLM collaborator the llm reranker
// needs. The concrete provider is out of scope per spec.md §1; callers
// supply their own implementation.
type ChatClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// LLM reranks by asking a chat model to rank passage indices.
type LLM struct {
	Client ChatClient
}

var reIndexList = regexp.MustCompile(`[\d,\s]+`)

// Rerank implements Reranker. On parse failure, request error, or an
// empty/garbled response it degrades to the first topK candidates.
func (l *LLM) Rerank(ctx context.Context, query string, candidates []Candidate, topK int) []Result {
	prompt := buildPrompt(query, candidates, topK)

	reply, err := l.Client.Chat(ctx, prompt)
	if err != nil {
		return degrade(candidates, topK)
	}

	indices, ok := parseIndices(reply, len(candidates))
	if !ok || len(indices) == 0 {
		return degrade(candidates, topK)
	}

	if topK > len(indices) {
		topK = len(indices)
	}
	out := make([]Result, topK)
	for rank := 0; rank < topK; rank++ {
		out[rank] = Result{Index: indices[rank], Score: 1 - float32(rank)*0.1}
	}
	return out
}

func buildPrompt(query string, candidates []Candidate, topK int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\n\nRank the %d most relevant passages below, most relevant first.\n", query, topK)
	fmt.Fprintf(&sb, "Respond with ONLY a JSON array of integer indices, e.g. [3,0,7].\n\n")
	for i, c := range candidates {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i, c.Passage)
	}
	return sb.String()
}

// parseIndices extracts the first run of digits/commas/whitespace from
// reply, parses it into integers, clamps each into [0,n), and
// deduplicates while preserving order.
func parseIndices(reply string, n int) ([]int, bool) {
	match := reIndexList.FindString(reply)
	if strings.TrimSpace(match) == "" {
		return nil, false
	}

	fields := strings.FieldsFunc(match, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})

	seen := make(map[int]bool, len(fields))
	var out []int
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		if v < 0 {
			v = 0
		}
		if n > 0 && v >= n {
			v = n - 1
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, len(out) > 0
}
