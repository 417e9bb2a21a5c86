package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codesearch-core/codesearch/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for semantic code search",
	Long: `Start the Model Context Protocol server, exposing codesearch_search,
codesearch_chat, and codesearch_deps tools over stdio for MCP-aware
assistants.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	e, cfg, err := buildEngine(ctx, rootDir)
	if err != nil {
		return err
	}
	if err := loadSnapshots(ctx, e, rootDir, cfg); err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	if !e.Status().Indexed {
		fmt.Fprintln(os.Stderr, "warning: no index loaded; run `codesearch index` first")
	}

	fmt.Fprintln(os.Stderr, "codesearch MCP server starting on stdio")
	return mcpserver.New(e).Serve(ctx)
}
