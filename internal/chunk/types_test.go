package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveID_StableAcrossIdenticalInput(t *testing.T) {
	t.Parallel()

	id1 := DeriveID("main.go", 10, "func main() {}")
	id2 := DeriveID("main.go", 10, "func main() {}")
	assert.Equal(t, id1, id2)
}

func TestDeriveID_DiffersOnAnyComponent(t *testing.T) {
	t.Parallel()

	base := DeriveID("main.go", 10, "func main() {}")

	cases := []string{
		DeriveID("other.go", 10, "func main() {}"),
		DeriveID("main.go", 11, "func main() {}"),
		DeriveID("main.go", 10, "func main() { /* x */ }"),
	}
	for _, got := range cases {
		assert.NotEqual(t, base, got)
	}
}
