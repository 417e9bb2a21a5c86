// Package engine wires the Chunker, Graph Builder, Vector Store, and
// Retrieval Pipeline into the operations consumed by the CLI and MCP
// surfaces (spec.md §6): status, search, chat, list_files,
// get_dependencies, expand_context.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codesearch-core/codesearch/internal/chunk"
	"github.com/codesearch-core/codesearch/internal/embedclient"
	"github.com/codesearch-core/codesearch/internal/graph"
	"github.com/codesearch-core/codesearch/internal/rerank"
	"github.com/codesearch-core/codesearch/internal/retrieval"
	"github.com/codesearch-core/codesearch/internal/vectorstore"
)

// ChatClient is the external chat model used both by the llm reranker and
// by chat()'s answer generation.
type ChatClient = rerank.ChatClient

// IndexMeta describes an index snapshot, per spec.md §6 "Index metadata".
type IndexMeta struct {
	Version        string    `json:"version"`
	IndexedAt      time.Time `json:"indexed_at"`
	TargetPath     string    `json:"target_path"`
	RepositoryID   string    `json:"repository_id,omitempty"`
	Stats          Stats     `json:"stats"`
	EmbeddingModel string    `json:"embedding_model"`
}

// Stats summarizes an indexed repository.
type Stats struct {
	Files                  int     `json:"files"`
	Chunks                 int     `json:"chunks"`
	Embeddings             int     `json:"embeddings"`
	TotalFiles             int     `json:"total_files"`
	TotalEdges             int     `json:"total_edges"`
	AvgImportsPerFile      float64 `json:"avg_imports_per_file"`
	AvgDependentsPerFile   float64 `json:"avg_dependents_per_file"`
	HasCycles              bool    `json:"has_cycles"`
}

// Config bundles the engine's embedding/reranker identity, surfaced by
// status().
type Config struct {
	EmbeddingProvider string
	EmbeddingModel    string
	LLMConfigured     bool
}

// Engine composes the indexing and retrieval subsystems behind the
// operations spec.md §6 names. It is safe for concurrent reads
// (search/status/list_files/get_dependencies/expand_context); Index
// replaces the graph wholesale and upserts the new chunks into the
// existing store, and is not meant to run concurrently with reads.
type Engine struct {
	Chunker  *chunk.Chunker
	Embedder embedclient.Embedder
	Store    vectorstore.Store
	Graph    *graph.DependencyGraph
	Chat     ChatClient
	Config   Config

	BGEReranker rerank.Reranker
	LLMReranker rerank.Reranker

	meta  *IndexMeta
	ready bool
}

// New builds an Engine from its collaborators. Store and Graph may start
// empty; Index populates them from a repository's files.
func New(chunker *chunk.Chunker, embedder embedclient.Embedder, store vectorstore.Store, cfg Config) *Engine {
	return &Engine{
		Chunker:  chunker,
		Embedder: embedder,
		Store:    store,
		Graph:    graph.NewDependencyGraph(),
		Config:   cfg,
	}
}

// Index parses files, builds the dependency graph, embeds every chunk,
// and populates the Vector Store. It is the one engine operation that
// does not require the index to already be initialized.
func (e *Engine) Index(ctx context.Context, targetPath string, files []IndexFile) (*IndexMeta, error) {
	if len(files) == 0 {
		return nil, wrap(KindInvalidInput, fmt.Errorf("%w: no files to index", ErrInvalidInput))
	}

	graphFiles := make([]graph.File, len(files))
	chunkFiles := make([]chunk.File, len(files))
	for i, f := range files {
		graphFiles[i] = graph.File{Filepath: f.Filepath, Content: f.Content}
		chunkFiles[i] = chunk.File{Path: f.Filepath, Content: []byte(f.Content)}
	}

	g := graph.BuildGraph(graphFiles, targetPath)

	chunks, err := e.Chunker.ParseFiles(ctx, chunkFiles)
	if err != nil {
		return nil, wrap(KindParseFailure, err)
	}
	g.AttachChunks(chunks)

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		vectors, err := e.Embedder.Embed(ctx, texts)
		if err != nil {
			return nil, wrap(KindEmbedderFailure, err)
		}
		if len(vectors) != len(chunks) {
			return nil, wrap(KindEmbedderFailure, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)))
		}

		entries := make([]vectorstore.Entry, len(chunks))
		for i, c := range chunks {
			entries[i] = vectorstore.Entry{ID: c.ID, Embedding: vectors[i], Chunk: c}
		}
		if err := e.Store.Add(ctx, entries); err != nil {
			return nil, wrap(KindDimensionMismatch, err)
		}
	}

	e.Graph = g
	e.meta = &IndexMeta{
		Version:        "1",
		IndexedAt:      time.Now(),
		TargetPath:     targetPath,
		Stats:          computeStats(g, chunks),
		EmbeddingModel: e.Config.EmbeddingModel,
	}
	e.ready = true
	return e.meta, nil
}

// IndexFile is one repository-relative file handed to Index.
type IndexFile struct {
	Filepath string
	Content  string
}

// LoadSnapshot attaches a previously-saved graph and vector store (and the
// index metadata describing them) to the engine, marking it ready without
// re-parsing or re-embedding anything. If meta carries no stats, they are
// recomputed from g and the chunks attached to its nodes.
func (e *Engine) LoadSnapshot(g *graph.DependencyGraph, store vectorstore.Store, meta *IndexMeta) {
	if meta != nil && meta.Stats == (Stats{}) {
		var chunks []chunk.Chunk
		for _, node := range g.Nodes {
			chunks = append(chunks, node.Chunks...)
		}
		meta.Stats = computeStats(g, chunks)
	}
	e.Graph = g
	e.Store = store
	e.meta = meta
	e.ready = true
}

func computeStats(g *graph.DependencyGraph, chunks []chunk.Chunk) Stats {
	totalImports, totalDependents := 0, 0
	for f := range g.Nodes {
		totalImports += len(g.Edges[f])
		totalDependents += len(g.ReverseEdges[f])
	}
	edgeCount := 0
	for _, set := range g.Edges {
		edgeCount += len(set)
	}
	n := len(g.Nodes)
	stats := Stats{
		Files:      n,
		Chunks:     len(chunks),
		Embeddings: len(chunks),
		TotalFiles: n,
		TotalEdges: edgeCount,
		HasCycles:  g.Cyclic,
	}
	if n > 0 {
		stats.AvgImportsPerFile = float64(totalImports) / float64(n)
		stats.AvgDependentsPerFile = float64(totalDependents) / float64(n)
	}
	return stats
}

// StatusResult is the shape returned by status().
type StatusResult struct {
	Ready     bool
	Indexed   bool
	Meta      *IndexMeta
	LLM       bool
	Embedding Config
}

// Status reports whether the engine holds a loaded index, per spec.md §6.
func (e *Engine) Status() StatusResult {
	return StatusResult{
		Ready:     e.ready,
		Indexed:   e.meta != nil,
		Meta:      e.meta,
		LLM:       e.Config.LLMConfigured,
		Embedding: e.Config,
	}
}

func (e *Engine) requireReady() error {
	if !e.ready {
		return wrap(KindIndexNotInitialized, ErrIndexNotInitialized)
	}
	return nil
}

func (e *Engine) pipeline() *retrieval.Pipeline {
	return &retrieval.Pipeline{
		Embedder:    e.Embedder,
		Store:       e.Store,
		Graph:       e.Graph,
		BGEReranker: e.BGEReranker,
		LLMReranker: e.LLMReranker,
	}
}

// SearchResult is the shape returned by search().
type SearchResult struct {
	Chunks []chunk.Chunk
	Scores []float32
	Stage  retrieval.Stage
}

// Search runs the retrieval pipeline for query and options.
func (e *Engine) Search(ctx context.Context, query string, opts retrieval.Options) (*SearchResult, error) {
	if err := e.requireReady(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, wrap(KindInvalidInput, fmt.Errorf("%w: empty query", ErrInvalidInput))
	}

	result, err := e.pipeline().Retrieve(ctx, query, opts)
	if err != nil {
		return nil, wrap(KindEmbedderFailure, err)
	}
	return &SearchResult{Chunks: result.Chunks, Scores: result.Scores, Stage: result.Stage}, nil
}

// ChatResult is the shape returned by chat().
type ChatResult struct {
	Answer     string
	Citations  []string
	Chunks     []chunk.Chunk
	TokensUsed int
	Stage      retrieval.Stage
}

// Chat composes retrieval with generation: the retrieved chunks are
// folded into a prompt sent to the configured ChatClient. If no
// ChatClient is configured, the answer is empty and citations/chunks are
// still populated so callers can render retrieval-only output.
func (e *Engine) Chat(ctx context.Context, query string, opts retrieval.Options) (*ChatResult, error) {
	search, err := e.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	citations := make([]string, len(search.Chunks))
	for i, c := range search.Chunks {
		citations[i] = fmt.Sprintf("%s:%d-%d", c.Filepath, c.StartLine, c.EndLine)
	}

	result := &ChatResult{Citations: citations, Chunks: search.Chunks, Stage: search.Stage}
	if e.Chat == nil {
		return result, nil
	}

	prompt := buildChatPrompt(query, search.Chunks)
	answer, err := e.Chat.Chat(ctx, prompt)
	if err != nil {
		return nil, wrap(KindEmbedderFailure, fmt.Errorf("chat generation: %w", err))
	}
	result.Answer = answer
	result.TokensUsed = len(strings.Fields(prompt)) + len(strings.Fields(answer))
	return result, nil
}

func buildChatPrompt(query string, chunks []chunk.Chunk) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Answer the question using only the code excerpts below.\n\nQuestion: %s\n\n", query)
	for _, c := range chunks {
		fmt.Fprintf(&sb, "--- %s:%d-%d (%s %s) ---\n%s\n\n", c.Filepath, c.StartLine, c.EndLine, c.NodeType, c.Name, c.Content)
	}
	return sb.String()
}

// FileNode is one entry of list_files' flat form.
type FileNode struct {
	Filepath   string
	ChunkCount int
}

// ListFiles returns every indexed file whose path has the given prefix
// (empty prefix matches all), sorted for stable output.
func (e *Engine) ListFiles(prefix string) ([]FileNode, error) {
	if err := e.requireReady(); err != nil {
		return nil, err
	}

	var out []FileNode
	for path, node := range e.Graph.Nodes {
		if prefix != "" && !strings.HasPrefix(path, prefix) {
			continue
		}
		out = append(out, FileNode{Filepath: path, ChunkCount: len(node.Chunks)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filepath < out[j].Filepath })
	return out, nil
}

// DependenciesResult is the shape returned by get_dependencies().
type DependenciesResult struct {
	Imports      []chunk.Import
	Exports      []string
	Dependencies []string
	Dependents   []string
	ChunkCount   int
}

// GetDependencies reports one file's import/export metadata and its
// graph neighbors.
func (e *Engine) GetDependencies(filepath string) (*DependenciesResult, error) {
	if err := e.requireReady(); err != nil {
		return nil, err
	}

	node, ok := e.Graph.Nodes[filepath]
	if !ok {
		return nil, wrap(KindInvalidInput, fmt.Errorf("%w: unknown file %q", ErrInvalidInput, filepath))
	}

	exports := make([]string, 0, len(node.Exports))
	for name := range node.Exports {
		exports = append(exports, name)
	}
	sort.Strings(exports)

	deps := e.Graph.Dependencies(filepath)
	dependents := e.Graph.Dependents(filepath)
	sort.Strings(deps)
	sort.Strings(dependents)

	return &DependenciesResult{
		Imports:      node.Imports,
		Exports:      exports,
		Dependencies: deps,
		Dependents:   dependents,
		ChunkCount:   len(node.Chunks),
	}, nil
}

// ExpandContext is a direct wrapper over the Graph Builder's BFS.
func (e *Engine) ExpandContext(filepaths []string, opts graph.ExpandOptions) ([]string, error) {
	if err := e.requireReady(); err != nil {
		return nil, err
	}
	return e.Graph.ExpandContext(filepaths, opts), nil
}
