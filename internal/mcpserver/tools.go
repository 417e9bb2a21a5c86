package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codesearch-core/codesearch/internal/engine"
	"github.com/codesearch-core/codesearch/internal/rerank"
	"github.com/codesearch-core/codesearch/internal/retrieval"
)

// AddSearchTool registers codesearch_search: stage-aware semantic search
// over the indexed repository.
func AddSearchTool(s *server.MCPServer, e *engine.Engine) {
	tool := mcp.NewTool(
		"codesearch_search",
		mcp.WithDescription("Search the indexed repository using vector similarity, graph expansion, and reranking. Returns code chunks ranked by relevance."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural language search query")),
		mcp.WithNumber("top_k", mcp.Description("Maximum number of results (1-50, default 10)")),
		mcp.WithString("reranker", mcp.Description("Reranker to use: bge, llm, or none (default bge)")),
	)
	s.AddTool(tool, searchHandler(e))
}

func searchHandler(e *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		query, err := parseStringArg(argsMap, "query", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		opts := retrieval.DefaultOptions()
		opts.TopK = parseClampedInt(argsMap, "top_k", opts.TopK, 1, 50)
		if rerankerStr, _ := parseStringArg(argsMap, "reranker", false); rerankerStr != "" {
			opts.Reranker = rerank.Kind(rerankerStr)
		}

		result, err := e.Search(ctx, query, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// AddChatTool registers codesearch_chat: retrieval-augmented generation
// over the indexed repository.
func AddChatTool(s *server.MCPServer, e *engine.Engine) {
	tool := mcp.NewTool(
		"codesearch_chat",
		mcp.WithDescription("Ask a natural-language question about the indexed repository; answers are grounded in retrieved code chunks."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural language question")),
		mcp.WithNumber("top_k", mcp.Description("Maximum number of chunks to retrieve (1-50, default 10)")),
	)
	s.AddTool(tool, chatHandler(e))
}

func chatHandler(e *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		query, err := parseStringArg(argsMap, "query", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		opts := retrieval.DefaultOptions()
		opts.TopK = parseClampedInt(argsMap, "top_k", opts.TopK, 1, 50)

		result, err := e.Chat(ctx, query, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// AddDepsTool registers codesearch_deps: a file's import/export metadata
// and graph neighbors.
func AddDepsTool(s *server.MCPServer, e *engine.Engine) {
	tool := mcp.NewTool(
		"codesearch_deps",
		mcp.WithDescription("Return a file's imports, exports, dependencies, and dependents from the dependency graph."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Repository-relative file path")),
	)
	s.AddTool(tool, depsHandler(e))
}

func depsHandler(e *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		path, err := parseStringArg(argsMap, "filepath", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		deps, err := e.GetDependencies(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(deps)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
