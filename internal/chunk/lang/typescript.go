package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

var tsTypeKinds = map[string]bool{
	"type_identifier":  true,
	"predefined_type":  true,
}

// TypeScriptParser parses TS/TSX/JS/JSX/MJS/CJS files. JS and TS share the
// same grammar family; the TSX variant is selected for .tsx/.jsx files.
type TypeScriptParser struct {
	ts  *treeSitterParser
	tsx *treeSitterParser
}

// NewTypeScriptParser constructs the combined TS/TSX parser.
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{
		ts:  newTreeSitterParser(sitter.NewLanguage(typescript.LanguageTypescript()), chunk.LangTypeScript),
		tsx: newTreeSitterParser(sitter.NewLanguage(typescript.LanguageTSX()), chunk.LangTypeScript),
	}
}

// ParseFile implements chunk.Parser.
func (p *TypeScriptParser) ParseFile(path string, content []byte) []chunk.Chunk {
	ext := strings.ToLower(filepath.Ext(path))
	tsp := p.ts
	if ext == ".tsx" || ext == ".jsx" {
		tsp = p.tsx
	}

	lang := chunk.LangTypeScript
	if ext == ".js" || ext == ".jsx" || ext == ".mjs" || ext == ".cjs" {
		lang = chunk.LangJavaScript
	}

	root, lines, ok := tsp.parseTree(content)
	if !ok {
		return nil
	}

	imports := extractTSImports(root, content)
	importStrs := make([]string, len(imports))
	for i, imp := range imports {
		importStrs[i] = imp.From
	}

	w := &tsWalker{
		path:    path,
		lang:    lang,
		source:  content,
		lines:   lines,
		imports: importStrs,
	}
	w.walk(root, false)
	return w.chunks
}

// ImportsOf exposes the richer Import records for callers (e.g. the graph
// builder's own regex extractor doesn't use this; this is for anything in
// the chunker pipeline that wants chunk-local import metadata).
func (p *TypeScriptParser) ImportsOf(content []byte, tsx bool) []chunk.Import {
	tsp := p.ts
	if tsx {
		tsp = p.tsx
	}
	root, _, ok := tsp.parseTree(content)
	if !ok {
		return nil
	}
	return extractTSImports(root, content)
}

type tsWalker struct {
	path    string
	lang    chunk.Language
	source  []byte
	lines   []string
	imports []string
	chunks  []chunk.Chunk
}

var tsDeclarationKinds = map[string]bool{
	"class_declaration":      true,
	"interface_declaration":  true,
	"type_alias_declaration": true,
	"function_declaration":   true,
	"arrow_function":         true,
	"method_definition":      true,
	"lexical_declaration":    true,
}

func declNodeType(kind string) chunk.NodeType {
	switch kind {
	case "class_declaration":
		return chunk.NodeClass
	case "interface_declaration":
		return chunk.NodeInterface
	case "type_alias_declaration":
		return chunk.NodeType_
	case "function_declaration", "arrow_function", "method_definition":
		return chunk.NodeFunction
	case "lexical_declaration":
		return chunk.NodeFunction
	default:
		return chunk.NodeOther
	}
}

// walk performs the depth-first chunk extraction described in spec.md
// §4.1. skip marks a node that a parent export_statement already emitted a
// chunk for; the node's own emission is suppressed but its children are
// still visited (so methods nested in an exported class are found).
func (w *tsWalker) walk(node *sitter.Node, skip bool) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "export_statement":
		w.emitExportStatement(node)
		return

	case "lexical_declaration":
		if !containsKind(node, "arrow_function", "function") {
			// Not independently chunkable; still look inside for nested
			// chunkable constructs (e.g. a class expression assigned to a
			// const), but nothing chunkable is expected there typically.
			w.walkChildren(node)
			return
		}
		if !skip {
			w.emitNode(node, declNodeType(node.Kind()), tsName(node, w.source), nil)
		}
		// container node: do not recurse further into its subtree.
		return

	case "class_declaration", "interface_declaration", "type_alias_declaration",
		"function_declaration", "arrow_function", "method_definition":
		if !skip {
			w.emitNode(node, declNodeType(node.Kind()), tsName(node, w.source), nil)
		}
		w.walkChildren(node)
		return
	}

	w.walkChildren(node)
}

func (w *tsWalker) walkChildren(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(uint(i)), false)
	}
}

// emitExportStatement handles `export <decl>`, `export { a, b as c }`, and
// `export default <expr>`.
func (w *tsWalker) emitExportStatement(node *sitter.Node) {
	decl := node.ChildByFieldName("declaration")
	if decl != nil && tsDeclarationKinds[decl.Kind()] {
		name := tsName(decl, w.source)
		w.emitNode(node, declNodeType(decl.Kind()), name, []string{name})
		// Walk the declaration's children (methods etc.) but suppress a
		// second emission of the declaration node itself.
		w.walk(decl, true)
		return
	}

	// export { a, b as c } or export default <non-declaration expr>
	names := exportSpecifierNames(node, w.source)
	if len(names) == 0 {
		names = []string{"default"}
	}
	w.emitNode(node, chunk.NodeOther, strings.Join(names, ", "), names)
	w.walkChildren(node)
}

func exportSpecifierNames(node *sitter.Node, source []byte) []string {
	clause := childByType(node, "export_clause")
	if clause == nil {
		return nil
	}
	var names []string
	for _, spec := range childrenByType(clause, "export_specifier") {
		aliasNode := spec.ChildByFieldName("alias")
		nameNode := spec.ChildByFieldName("name")
		if aliasNode != nil {
			names = append(names, nodeText(aliasNode, source))
		} else if nameNode != nil {
			names = append(names, nodeText(nameNode, source))
		}
	}
	return names
}

func (w *tsWalker) emitNode(node *sitter.Node, nt chunk.NodeType, name string, exports []string) {
	start, end := nodeLines(node)
	content := sliceLines(w.lines, start, end)
	types := collectTypes(node, w.source, tsTypeKinds)

	if name == "" {
		name = chunk.AnonymousName
	}

	w.chunks = append(w.chunks, chunk.Chunk{
		ID:        chunk.DeriveID(w.path, start, content),
		Filepath:  w.path,
		StartLine: start,
		EndLine:   end,
		NodeType:  nt,
		Name:      name,
		Language:  w.lang,
		Content:   content,
		Imports:   append([]string(nil), w.imports...),
		Exports:   exports,
		Types:     types,
	})
}

// tsName extracts a chunkable node's name per spec.md's TS/JS rules.
func tsName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "lexical_declaration":
		decl := childByType(node, "variable_declarator")
		if decl == nil {
			return ""
		}
		return nodeText(decl.ChildByFieldName("name"), source)
	case "method_definition":
		n := node.ChildByFieldName("name")
		return nodeText(n, source)
	default:
		n := node.ChildByFieldName("name")
		return nodeText(n, source)
	}
}

// extractTSImports walks the whole file collecting import specifiers: ES
// module imports, dynamic import("path"), and require("path").
func extractTSImports(root *sitter.Node, source []byte) []chunk.Import {
	var imports []chunk.Import

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "import_statement":
			imports = append(imports, importsFromStatement(n, source)...)
		case "call_expression":
			fn := n.ChildByFieldName("function")
			args := n.ChildByFieldName("arguments")
			if fn != nil && args != nil {
				fname := nodeText(fn, source)
				if fname == "import" || fname == "require" {
					if path, ok := firstStringArg(args, source); ok {
						line := int(n.StartPosition().Row) + 1
						imports = append(imports, chunk.Import{Symbol: "*", From: path, IsType: false, Line: line})
					}
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(root)
	return imports
}

func firstStringArg(args *sitter.Node, source []byte) (string, bool) {
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(uint(i))
		if c != nil && c.Kind() == "string" {
			return unquote(nodeText(c, source)), true
		}
	}
	return "", false
}

func importsFromStatement(node *sitter.Node, source []byte) []chunk.Import {
	line := int(node.StartPosition().Row) + 1
	isType := childByType(node, "type") != nil || strings.Contains(nodeText(node, source), "import type")

	sourceNode := node.ChildByFieldName("source")
	from := ""
	if sourceNode != nil {
		from = unquote(nodeText(sourceNode, source))
	}

	var out []chunk.Import
	clause := childByType(node, "import_clause")
	if clause == nil {
		// side-effect import: `import "path"`
		out = append(out, chunk.Import{Symbol: "*", From: from, IsType: isType, Line: line})
		return out
	}

	for i := 0; i < int(clause.ChildCount()); i++ {
		c := clause.Child(uint(i))
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "identifier":
			out = append(out, chunk.Import{Symbol: nodeText(c, source), From: from, IsType: isType, Line: line})
		case "namespace_import":
			out = append(out, chunk.Import{Symbol: "*", From: from, IsType: isType, Line: line})
		case "named_imports":
			for _, spec := range childrenByType(c, "import_specifier") {
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				sym := nodeText(nameNode, source)
				if aliasNode != nil {
					sym = nodeText(aliasNode, source)
				}
				specIsType := isType || childByType(spec, "type") != nil
				out = append(out, chunk.Import{Symbol: sym, From: from, IsType: specIsType, Line: line})
			}
		}
	}

	if len(out) == 0 {
		out = append(out, chunk.Import{Symbol: "*", From: from, IsType: isType, Line: line})
	}
	return out
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
