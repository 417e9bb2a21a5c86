package chunk

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Parser parses a single source file into an ordered list of chunks. It is
// pure: no I/O, and it never fails — an unsupported extension or a grammar
// rejecting the input yields an empty slice.
type Parser interface {
	ParseFile(path string, content []byte) []Chunk
}

// File is one file to be chunked in a batch.
type File struct {
	Path    string
	Content []byte
}

// extensionLanguage maps a file extension to the grammar that parses it.
var extensionLanguage = map[string]Language{
	".ts":  LangTypeScript,
	".tsx": LangTypeScript,
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".py":  LangPython,
	".pyi": LangPython,
	".go":  LangGo,
	".rs":  LangRust,
}

// Chunker dispatches to the per-language Parser matching a file's extension.
type Chunker struct {
	parsers map[Language]Parser
}

// New builds a Chunker with the given per-language parsers registered. Pass
// nil for a language to leave it unsupported (files of that language then
// yield an empty chunk list, same as an unknown extension).
func New(parsers map[Language]Parser) *Chunker {
	return &Chunker{parsers: parsers}
}

// languageForPath resolves the language dispatched from a file's extension.
// The TSX grammar variant is selected by the caller inside the TypeScript
// parser itself (keyed off the ".tsx"/".jsx" suffix), not here.
func languageForPath(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extensionLanguage[ext]
	return lang, ok
}

// ParseFile parses a single file. It never returns an error: unsupported
// extensions and parser panics/rejections both yield an empty chunk list.
func (c *Chunker) ParseFile(path string, content []byte) (chunks []Chunk) {
	lang, ok := languageForPath(path)
	if !ok {
		return nil
	}
	parser, ok := c.parsers[lang]
	if !ok || parser == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			chunks = nil
		}
	}()

	return parser.ParseFile(path, content)
}

// ParseFiles parses a batch of files in parallel. Per-file parsing owns its
// own inputs and writes to an independent slot in the result slice; no
// ordering is guaranteed across files beyond the input order being
// preserved in the returned slice (the merge is a single, sequential
// collection step after the fan-out completes).
func (c *Chunker) ParseFiles(ctx context.Context, files []File) ([]Chunk, error) {
	results := make([][]Chunk, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = c.ParseFile(f.Path, f.Content)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Chunk
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// sliceLines returns the inclusive 1-indexed line range [startLine, endLine]
// of content, joined with "\n". Out-of-range bounds are clamped.
func sliceLines(lines []string, startLine, endLine int) string {
	if startLine < 1 {
		startLine = 1
	}
	if startLine > len(lines) {
		return ""
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if endLine < startLine {
		endLine = startLine
	}
	return strings.Join(lines[startLine-1:endLine], "\n")
}
