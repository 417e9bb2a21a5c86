package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an index is loaded and its stats",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	e, cfg, err := buildEngine(ctx, rootDir)
	if err != nil {
		return err
	}
	_ = loadSnapshots(ctx, e, rootDir, cfg)

	st := e.Status()
	fmt.Printf("ready: %v\n", st.Ready)
	fmt.Printf("indexed: %v\n", st.Indexed)
	fmt.Printf("embedding: %s (%s, %d dims)\n", st.Embedding.EmbeddingModel, st.Embedding.EmbeddingProvider, cfg.Embedding.Dimensions)
	fmt.Printf("llm configured: %v\n", st.LLM)
	if st.Meta != nil {
		fmt.Printf("indexed at: %s\n", st.Meta.IndexedAt)
		fmt.Printf("files: %d  chunks: %d  embeddings: %d  edges: %d\n",
			st.Meta.Stats.Files, st.Meta.Stats.Chunks, st.Meta.Stats.Embeddings, st.Meta.Stats.TotalEdges)
	}
	return nil
}
