package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Validate(Default()))
}
