package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

var pyTypeKinds = map[string]bool{
	"type":      true,
	"subscript": true,
}

// PythonParser parses .py/.pyi files.
type PythonParser struct {
	p *treeSitterParser
}

// NewPythonParser constructs the Python parser.
func NewPythonParser() *PythonParser {
	return &PythonParser{p: newTreeSitterParser(sitter.NewLanguage(python.Language()), chunk.LangPython)}
}

// ParseFile implements chunk.Parser.
func (p *PythonParser) ParseFile(path string, content []byte) []chunk.Chunk {
	root, lines, ok := p.p.parseTree(content)
	if !ok {
		return nil
	}

	imports := extractPyImports(root, content)
	importStrs := make([]string, len(imports))
	for i, imp := range imports {
		importStrs[i] = imp.From
	}

	w := &pyWalker{path: path, source: content, lines: lines, imports: importStrs}
	w.walk(root)
	return w.chunks
}

type pyWalker struct {
	path    string
	source  []byte
	lines   []string
	imports []string
	chunks  []chunk.Chunk
}

func (w *pyWalker) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_definition", "async_function_definition":
		w.emit(node, chunk.NodeFunction, pyName(node, w.source))
	case "class_definition":
		w.emit(node, chunk.NodeClass, pyName(node, w.source))
	case "decorated_definition":
		inner := childByType(node, "function_definition")
		if inner == nil {
			inner = childByType(node, "async_function_definition")
		}
		nt := chunk.NodeFunction
		if inner == nil {
			inner = childByType(node, "class_definition")
			nt = chunk.NodeClass
		}
		name := ""
		if inner != nil {
			name = pyName(inner, w.source)
		}
		// The decorated_definition node (including decorators) is the
		// chunkable node; its span covers the decorators + definition.
		w.emit(node, nt, name)
		if inner != nil {
			w.walkChildren(inner)
		}
		return
	}

	w.walkChildren(node)
}

func (w *pyWalker) walkChildren(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(uint(i)))
	}
}

func pyName(node *sitter.Node, source []byte) string {
	if node.Kind() == "decorated_definition" {
		inner := childByType(node, "function_definition")
		if inner == nil {
			inner = childByType(node, "async_function_definition")
		}
		if inner == nil {
			inner = childByType(node, "class_definition")
		}
		if inner == nil {
			return ""
		}
		return pyName(inner, source)
	}
	return nodeText(node.ChildByFieldName("name"), source)
}

// isExported implements Python's by-convention export rule: a name not
// starting with an underscore is considered public.
func isExported(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}

func (w *pyWalker) emit(node *sitter.Node, nt chunk.NodeType, name string) {
	start, end := nodeLines(node)
	content := sliceLines(w.lines, start, end)
	types := collectTypes(node, w.source, pyTypeKinds)

	if name == "" {
		name = chunk.AnonymousName
	}

	var exports []string
	if isExported(name) {
		exports = []string{name}
	}

	w.chunks = append(w.chunks, chunk.Chunk{
		ID:        chunk.DeriveID(w.path, start, content),
		Filepath:  w.path,
		StartLine: start,
		EndLine:   end,
		NodeType:  nt,
		Name:      name,
		Language:  chunk.LangPython,
		Content:   content,
		Imports:   append([]string(nil), w.imports...),
		Exports:   exports,
		Types:     types,
	})
}

// extractPyImports walks the file collecting `import x[.y][ as z]` and
// `from x import a[, b as c]` specifiers.
func extractPyImports(root *sitter.Node, source []byte) []chunk.Import {
	var imports []chunk.Import

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "import_statement":
			for i := 0; i < int(n.ChildCount()); i++ {
				c := n.Child(uint(i))
				if c == nil {
					continue
				}
				switch c.Kind() {
				case "dotted_name":
					name := nodeText(c, source)
					imports = append(imports, chunk.Import{Symbol: name, From: name, Line: line})
				case "aliased_import":
					nameNode := c.ChildByFieldName("name")
					aliasNode := c.ChildByFieldName("alias")
					name := nodeText(nameNode, source)
					imports = append(imports, chunk.Import{Symbol: nodeText(aliasNode, source), From: name, Line: line})
				}
			}
		case "import_from_statement":
			moduleNode := n.ChildByFieldName("module_name")
			from := nodeText(moduleNode, source)
			if from == "" {
				from = "."
			}
			hasNames := false
			for i := 0; i < int(n.ChildCount()); i++ {
				c := n.Child(uint(i))
				if c == nil {
					continue
				}
				switch c.Kind() {
				case "wildcard_import":
					imports = append(imports, chunk.Import{Symbol: "*", From: from, Line: line})
					hasNames = true
				case "dotted_name":
					if c == moduleNode {
						continue
					}
					imports = append(imports, chunk.Import{Symbol: nodeText(c, source), From: from, Line: line})
					hasNames = true
				case "aliased_import":
					nameNode := c.ChildByFieldName("name")
					aliasNode := c.ChildByFieldName("alias")
					imports = append(imports, chunk.Import{Symbol: nodeText(aliasNode, source), From: from, Line: line})
					_ = nameNode
					hasNames = true
				}
			}
			if !hasNames {
				imports = append(imports, chunk.Import{Symbol: "*", From: from, Line: line})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(root)
	return imports
}
