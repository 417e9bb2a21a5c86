package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringArg_RequiredMissing(t *testing.T) {
	t.Parallel()

	_, err := parseStringArg(map[string]interface{}{}, "query", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestParseStringArg_RequiredEmpty(t *testing.T) {
	t.Parallel()

	_, err := parseStringArg(map[string]interface{}{"query": ""}, "query", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestParseStringArg_OptionalMissingReturnsEmpty(t *testing.T) {
	t.Parallel()

	val, err := parseStringArg(map[string]interface{}{}, "reranker", false)
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestParseStringArg_WrongTypeErrors(t *testing.T) {
	t.Parallel()

	_, err := parseStringArg(map[string]interface{}{"query": 5}, "query", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a string")
}

func TestParseStringArg_ValidValue(t *testing.T) {
	t.Parallel()

	val, err := parseStringArg(map[string]interface{}{"filepath": "a.go"}, "filepath", true)
	require.NoError(t, err)
	assert.Equal(t, "a.go", val)
}

func TestParseClampedInt_MissingReturnsDefault(t *testing.T) {
	t.Parallel()

	got := parseClampedInt(map[string]interface{}{}, "top_k", 10, 1, 50)
	assert.Equal(t, 10, got)
}

func TestParseClampedInt_WrongTypeReturnsDefault(t *testing.T) {
	t.Parallel()

	got := parseClampedInt(map[string]interface{}{"top_k": "not-a-number"}, "top_k", 10, 1, 50)
	assert.Equal(t, 10, got)
}

func TestParseClampedInt_ClampsAboveMax(t *testing.T) {
	t.Parallel()

	got := parseClampedInt(map[string]interface{}{"top_k": float64(999)}, "top_k", 10, 1, 50)
	assert.Equal(t, 50, got)
}

func TestParseClampedInt_ClampsBelowMin(t *testing.T) {
	t.Parallel()

	got := parseClampedInt(map[string]interface{}{"top_k": float64(-5)}, "top_k", 10, 1, 50)
	assert.Equal(t, 1, got)
}

func TestParseClampedInt_ValidValuePassesThrough(t *testing.T) {
	t.Parallel()

	got := parseClampedInt(map[string]interface{}{"top_k": float64(25)}, "top_k", 10, 1, 50)
	assert.Equal(t, 25, got)
}
