// Package lang holds one file per grammar, each implementing chunk.Parser.
package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

// treeSitterParser carries the common walk/slice machinery shared by every
// tree-sitter-backed language. Each language file supplies its own
// chunkable-node dispatch and name-extraction rules on top of this.
type treeSitterParser struct {
	language *sitter.Language
	lang     chunk.Language
}

func newTreeSitterParser(language *sitter.Language, l chunk.Language) *treeSitterParser {
	return &treeSitterParser{language: language, lang: l}
}

// parseTree parses source and returns the root node plus the split lines,
// or ok=false if the grammar rejected the input.
func (p *treeSitterParser) parseTree(source []byte) (root *sitter.Node, lines []string, ok bool) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil, false
	}
	defer tree.Close()

	root = tree.RootNode()
	if root == nil {
		return nil, nil, false
	}
	lines = strings.Split(string(source), "\n")
	return root, lines, true
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func nodeLines(node *sitter.Node) (start, end int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if start > len(lines) {
		return ""
	}
	if end > len(lines) {
		end = len(lines)
	}
	if end < start {
		end = start
	}
	return strings.Join(lines[start-1:end], "\n")
}

func childByType(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(uint(i))
		if c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

func childrenByType(node *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	if node == nil {
		return out
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(uint(i))
		if c != nil && c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// collectTypes walks node's subtree collecting the text of any node whose
// kind is in kinds, deduplicating while preserving discovery order.
func collectTypes(node *sitter.Node, source []byte, kinds map[string]bool) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if kinds[n.Kind()] {
			text := nodeText(n, source)
			if text != "" && !seen[text] {
				seen[text] = true
				out = append(out, text)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(node)
	return out
}

// containsKind reports whether node's subtree contains a node of any given kind.
func containsKind(node *sitter.Node, kinds ...string) bool {
	if node == nil {
		return false
	}
	want := map[string]bool{}
	for _, k := range kinds {
		want[k] = true
	}
	found := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || found {
			return
		}
		if want[n.Kind()] {
			found = true
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(node)
	return found
}
