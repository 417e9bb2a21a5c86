package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegrade_ReturnsFirstTopKInOriginalOrder(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		{Passage: "a", CurrentScore: 0.9},
		{Passage: "b", CurrentScore: 0.5},
		{Passage: "c", CurrentScore: 0.1},
	}

	got := degrade(candidates, 2)
	assert.Equal(t, []Result{
		{Index: 0, Score: 0.9},
		{Index: 1, Score: 0.5},
	}, got)
}

func TestDegrade_ClampsTopKToCandidateCount(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{{Passage: "only", CurrentScore: 1}}
	got := degrade(candidates, 5)
	assert.Len(t, got, 1)
}

func TestDegrade_EmptyCandidates(t *testing.T) {
	t.Parallel()

	got := degrade(nil, 3)
	assert.Empty(t, got)
}
