package embedclient

import (
	"context"
	"hash/fnv"
)

// Mock is a deterministic, dependency-free Embedder for tests: it hashes
// each input string into a dimension-sized vector so identical text always
// embeds identically.
type Mock struct {
	dimension int
}

// NewMock builds a Mock of the given dimension.
func NewMock(dimension int) *Mock { return &Mock{dimension: dimension} }

func (m *Mock) Dimension() int { return m.dimension }

func (m *Mock) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t, m.dimension)
	}
	return out, nil
}

func hashVector(text string, dim int) []float32 {
	v := make([]float32, dim)
	h := fnv.New32a()
	for i := 0; i < dim; i++ {
		h.Write([]byte{byte(i)})
		h.Write([]byte(text))
		sum := h.Sum32()
		v[i] = float32(sum%2000)/1000 - 1 // in [-1, 1)
	}
	return v
}
