// Command codesearch-mcp runs the codesearch Model Context Protocol server
// on stdio, exposing search, chat, and dependency tools to MCP-aware
// assistants without the rest of the codesearch CLI surface.
package main

import (
	"os"

	"github.com/codesearch-core/codesearch/internal/cli"
)

func main() {
	os.Args = append(os.Args[:1], "mcp")
	cli.Execute()
}
