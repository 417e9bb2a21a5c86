package lang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

// GoParser parses .go files using the standard library's go/parser rather
// than tree-sitter. The teacher codebase reaches for go-tree-sitter for
// every other grammar but never ships a tree-sitter-go grammar dependency
// of its own; go/parser+go/ast gives exact, field-accurate node positions
// for Go's own syntax without adding a fifth tree-sitter grammar the
// teacher never imports. See DESIGN.md for the full justification.
type GoParser struct{}

// NewGoParser constructs the Go parser.
func NewGoParser() *GoParser { return &GoParser{} }

// ParseFile implements chunk.Parser.
func (p *GoParser) ParseFile(path string, content []byte) []chunk.Chunk {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil || file == nil {
		return nil
	}

	lines := strings.Split(string(content), "\n")
	imports := extractGoImports(file, fset)
	importStrs := make([]string, len(imports))
	for i, imp := range imports {
		importStrs[i] = imp.From
	}

	w := &goWalker{path: path, fset: fset, lines: lines, imports: importStrs, src: content}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			w.emitFunc(d)
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				w.emitTypeDecl(d)
			}
		}
	}

	return w.chunks
}

type goWalker struct {
	path    string
	fset    *token.FileSet
	lines   []string
	imports []string
	src     []byte
	chunks  []chunk.Chunk
}

func (w *goWalker) posLine(pos token.Pos) int {
	return w.fset.Position(pos).Line
}

func (w *goWalker) emitFunc(d *ast.FuncDecl) {
	start := w.posLine(d.Pos())
	end := w.posLine(d.End())
	name := d.Name.Name

	nt := chunk.NodeFunction
	if d.Recv != nil {
		nt = chunk.NodeFunction // methods are still "function" per spec's node_type enum
	}

	w.emit(start, end, nt, name, goTypesIn(d))
}

// emitTypeDecl emits one chunk for the whole `type (...)` declaration
// (named after its first spec, per spec.md's Go name-extraction rule) and
// then one chunk per individual type_spec — both kinds are independently
// chunkable per spec.md's table, so both are produced.
func (w *goWalker) emitTypeDecl(d *ast.GenDecl) {
	if len(d.Specs) == 0 {
		return
	}
	first, ok := d.Specs[0].(*ast.TypeSpec)
	if !ok {
		return
	}

	start := w.posLine(d.Pos())
	end := w.posLine(d.End())
	w.emit(start, end, chunk.NodeType_, first.Name.Name, goTypesIn(d))

	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		ntype := chunk.NodeType_
		if _, isStruct := ts.Type.(*ast.StructType); isStruct {
			ntype = chunk.NodeStruct
		} else if _, isIface := ts.Type.(*ast.InterfaceType); isIface {
			ntype = chunk.NodeInterface
		}
		sStart := w.posLine(ts.Pos())
		sEnd := w.posLine(ts.End())
		w.emit(sStart, sEnd, ntype, ts.Name.Name, goTypesIn(ts))
	}
}

func (w *goWalker) emit(start, end int, nt chunk.NodeType, name string, types []string) {
	content := sliceLines(w.lines, start, end)
	if name == "" {
		name = chunk.AnonymousName
	}

	var exports []string
	if ast.IsExported(name) {
		exports = []string{name}
	}

	w.chunks = append(w.chunks, chunk.Chunk{
		ID:        chunk.DeriveID(w.path, start, content),
		Filepath:  w.path,
		StartLine: start,
		EndLine:   end,
		NodeType:  nt,
		Name:      name,
		Language:  chunk.LangGo,
		Content:   content,
		Imports:   append([]string(nil), w.imports...),
		Exports:   exports,
		Types:     types,
	})
}

// goTypesIn collects referenced type identifiers and qualified types
// (pkg.Type) within a declaration's subtree, deduplicated in discovery
// order — the analogue of tree-sitter's type_identifier|qualified_type.
func goTypesIn(node ast.Node) []string {
	seen := map[string]bool{}
	var out []string
	ast.Inspect(node, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.SelectorExpr:
			if pkg, ok := t.X.(*ast.Ident); ok {
				text := pkg.Name + "." + t.Sel.Name
				if !seen[text] {
					seen[text] = true
					out = append(out, text)
				}
				return false
			}
		case *ast.Ident:
			if t.IsExported() || isBuiltinType(t.Name) {
				if !seen[t.Name] {
					seen[t.Name] = true
					out = append(out, t.Name)
				}
			}
		}
		return true
	})
	return out
}

var goBuiltinTypes = map[string]bool{
	"string": true, "int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "bool": true, "byte": true, "rune": true, "error": true, "any": true,
}

func isBuiltinType(name string) bool { return goBuiltinTypes[name] }

// extractGoImports walks the file's import declarations.
func extractGoImports(file *ast.File, fset *token.FileSet) []chunk.Import {
	var out []chunk.Import
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		symbol := lastPathSegment(path)
		if imp.Name != nil {
			symbol = imp.Name.Name
		}
		out = append(out, chunk.Import{
			Symbol: symbol,
			From:   path,
			IsType: false,
			Line:   fset.Position(imp.Pos()).Line,
		})
	}
	return out
}

func lastPathSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
