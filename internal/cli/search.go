package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codesearch-core/codesearch/internal/rerank"
	"github.com/codesearch-core/codesearch/internal/retrieval"
)

var (
	searchTopK     int
	searchNoExpand bool
	searchReranker string
	searchJSONOut  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchTopK, "top-k", 10, "number of results")
	searchCmd.Flags().BoolVar(&searchNoExpand, "no-expand", false, "skip graph expansion")
	searchCmd.Flags().StringVar(&searchReranker, "reranker", "bge", "reranker to use: bge, llm, none")
	searchCmd.Flags().BoolVar(&searchJSONOut, "json", false, "emit JSON output")
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	opts := retrieval.DefaultOptions()
	opts.TopK = searchTopK
	opts.ExpandGraph = !searchNoExpand
	opts.Reranker = rerank.Kind(searchReranker)

	result, err := e.Search(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if searchJSONOut {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Printf("stage: %s\n\n", result.Stage)
	for i, c := range result.Chunks {
		fmt.Printf("[%.3f] %s:%d-%d  %s %s\n", result.Scores[i], c.Filepath, c.StartLine, c.EndLine, c.NodeType, c.Name)
	}
	return nil
}
