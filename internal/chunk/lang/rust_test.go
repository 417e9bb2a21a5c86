package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

const rustSample = `use std::collections::HashMap;

pub struct Widget {
    id: u32,
}

impl Widget {
    pub fn new(id: u32) -> Self {
        Widget { id }
    }
}

fn private_helper() -> bool {
    true
}
`

func TestRustParser_PubModifierSetsExports(t *testing.T) {
	t.Parallel()

	p := NewRustParser()
	chunks := p.ParseFile("widget.rs", []byte(rustSample))
	require.NotEmpty(t, chunks)

	byName := map[string]chunk.Chunk{}
	for _, c := range chunks {
		byName[c.Name] = c
	}

	require.Contains(t, byName, "Widget")
	assert.Equal(t, []string{"Widget"}, byName["Widget"].Exports)
	assert.Equal(t, chunk.NodeStruct, byName["Widget"].NodeType)

	require.Contains(t, byName, "private_helper")
	assert.Empty(t, byName["private_helper"].Exports)
}

func TestRustParser_ImplBlockNamedAfterItsType(t *testing.T) {
	t.Parallel()

	p := NewRustParser()
	chunks := p.ParseFile("widget.rs", []byte(rustSample))

	var implNames []string
	for _, c := range chunks {
		if c.Name == "impl Widget" {
			implNames = append(implNames, c.Name)
		}
	}
	assert.Contains(t, implNames, "impl Widget")
}

func TestRustParser_UseDeclarationsAttachedToEveryChunk(t *testing.T) {
	t.Parallel()

	p := NewRustParser()
	chunks := p.ParseFile("widget.rs", []byte(rustSample))
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.Contains(t, c.Imports, "std::collections::HashMap")
	}
}
