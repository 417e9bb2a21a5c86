package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

var rustTypeKinds = map[string]bool{
	"type_identifier":          true,
	"generic_type":             true,
	"scoped_type_identifier":   true,
}

var rustChunkable = map[string]chunk.NodeType{
	"function_item": chunk.NodeFunction,
	"impl_item":     chunk.NodeOther, // resolved to "impl <type>" name below
	"struct_item":   chunk.NodeStruct,
	"enum_item":     chunk.NodeOther,
	"trait_item":    chunk.NodeInterface,
	"mod_item":      chunk.NodeModule,
	"type_item":     chunk.NodeType_,
}

// RustParser parses .rs files.
type RustParser struct {
	p *treeSitterParser
}

// NewRustParser constructs the Rust parser.
func NewRustParser() *RustParser {
	return &RustParser{p: newTreeSitterParser(sitter.NewLanguage(rust.Language()), chunk.LangRust)}
}

// ParseFile implements chunk.Parser.
func (p *RustParser) ParseFile(path string, content []byte) []chunk.Chunk {
	root, lines, ok := p.p.parseTree(content)
	if !ok {
		return nil
	}

	imports := extractRustImports(root, content)
	importStrs := make([]string, len(imports))
	for i, imp := range imports {
		importStrs[i] = imp.From
	}

	w := &rustWalker{path: path, source: content, lines: lines, imports: importStrs}
	w.walk(root)
	return w.chunks
}

type rustWalker struct {
	path    string
	source  []byte
	lines   []string
	imports []string
	chunks  []chunk.Chunk
}

func (w *rustWalker) walk(node *sitter.Node) {
	if node == nil {
		return
	}
	if nt, ok := rustChunkable[node.Kind()]; ok {
		w.emit(node, nt)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(uint(i)))
	}
}

func hasPubModifier(node *sitter.Node, source []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(uint(i))
		if c != nil && c.Kind() == "visibility_modifier" {
			return true
		}
	}
	_ = source
	return false
}

func (w *rustWalker) emit(node *sitter.Node, nt chunk.NodeType) {
	start, end := nodeLines(node)
	content := sliceLines(w.lines, start, end)
	types := collectTypes(node, w.source, rustTypeKinds)

	var name string
	if node.Kind() == "impl_item" {
		typeNode := node.ChildByFieldName("type")
		name = "impl " + nodeText(typeNode, w.source)
	} else {
		name = nodeText(node.ChildByFieldName("name"), w.source)
	}
	if name == "" {
		name = chunk.AnonymousName
	}

	var exports []string
	if hasPubModifier(node, w.source) {
		exports = []string{name}
	}

	w.chunks = append(w.chunks, chunk.Chunk{
		ID:        chunk.DeriveID(w.path, start, content),
		Filepath:  w.path,
		StartLine: start,
		EndLine:   end,
		NodeType:  nt,
		Name:      name,
		Language:  chunk.LangRust,
		Content:   content,
		Imports:   append([]string(nil), w.imports...),
		Exports:   exports,
		Types:     types,
	})
}

// extractRustImports collects `use` declaration paths.
func extractRustImports(root *sitter.Node, source []byte) []chunk.Import {
	var imports []chunk.Import
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == "use_declaration" {
			line := int(n.StartPosition().Row) + 1
			path := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(nodeText(n, source), "use "), ";"))
			imports = append(imports, chunk.Import{Symbol: "*", From: path, Line: line})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(root)
	return imports
}
