package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

const pySample = `import os
from typing import Optional


def _private_helper():
    return 1


def public_function(x: int) -> int:
    return x + 1


class Widget:
    def method(self) -> None:
        pass


@decorator
def decorated_function():
    pass


@decorator
class DecoratedClass:
    pass
`

func TestPythonParser_UnderscorePrefixIsNotExported(t *testing.T) {
	t.Parallel()

	p := NewPythonParser()
	chunks := p.ParseFile("sample.py", []byte(pySample))
	require.NotEmpty(t, chunks)

	byName := map[string]chunk.Chunk{}
	for _, c := range chunks {
		byName[c.Name] = c
	}

	require.Contains(t, byName, "_private_helper")
	assert.Empty(t, byName["_private_helper"].Exports)

	require.Contains(t, byName, "public_function")
	assert.Equal(t, []string{"public_function"}, byName["public_function"].Exports)
}

func TestPythonParser_ClassAndMethodBothChunked(t *testing.T) {
	t.Parallel()

	p := NewPythonParser()
	chunks := p.ParseFile("sample.py", []byte(pySample))

	var names []string
	for _, c := range chunks {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "method")
}

func TestPythonParser_DecoratedDefinitionsResolveInnerName(t *testing.T) {
	t.Parallel()

	p := NewPythonParser()
	chunks := p.ParseFile("sample.py", []byte(pySample))

	byName := map[string]chunk.Chunk{}
	for _, c := range chunks {
		byName[c.Name] = c
	}

	require.Contains(t, byName, "decorated_function")
	assert.Equal(t, chunk.NodeFunction, byName["decorated_function"].NodeType)
	assert.Contains(t, byName["decorated_function"].Content, "@decorator")

	require.Contains(t, byName, "DecoratedClass")
	assert.Equal(t, chunk.NodeClass, byName["DecoratedClass"].NodeType)
}

func TestPythonParser_ImportsAttachedToEveryChunk(t *testing.T) {
	t.Parallel()

	p := NewPythonParser()
	chunks := p.ParseFile("sample.py", []byte(pySample))
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.Contains(t, c.Imports, "os")
		assert.Contains(t, c.Imports, "typing")
	}
}
