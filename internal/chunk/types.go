// Package chunk defines the CodeChunk data model shared by every language
// parser and consumed by the graph builder and vector store.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeType classifies the syntax construct a chunk was extracted from.
type NodeType string

const (
	NodeFunction  NodeType = "function"
	NodeClass     NodeType = "class"
	NodeInterface NodeType = "interface"
	NodeType_     NodeType = "type"
	NodeStruct    NodeType = "struct"
	NodeModule    NodeType = "module"
	NodeOther     NodeType = "other"
)

// Language enumerates the grammars the Chunker understands.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangRust       Language = "rust"
)

// AnonymousName is used when a chunkable node carries no discoverable name.
const AnonymousName = "anonymous"

// Import is one import specifier of a source file.
type Import struct {
	Symbol string `json:"symbol"`
	From   string `json:"from"`
	IsType bool   `json:"is_type"`
	Line   int    `json:"line"`
}

// Chunk is an addressable, syntactically meaningful source fragment.
type Chunk struct {
	ID        string   `json:"id"`
	Filepath  string   `json:"filepath"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	NodeType  NodeType `json:"node_type"`
	Name      string   `json:"name"`
	Language  Language `json:"language"`
	Content   string   `json:"content"`
	Imports   []string `json:"imports"`
	Exports   []string `json:"exports"`
	Types     []string `json:"types"`
}

// DeriveID computes the stable, deterministic chunk id from the triple
// (filepath, start line, content). Two parses of identical input always
// yield the same id.
func DeriveID(filepath string, startLine int, content string) string {
	h := sha256.New()
	h.Write([]byte(filepath))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d", startLine)
	h.Write([]byte{0})
	h.Write([]byte(content))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:12])
}
