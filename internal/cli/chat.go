package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codesearch-core/codesearch/internal/retrieval"
)

var chatTopK int

var chatCmd = &cobra.Command{
	Use:   "chat [query]",
	Short: "Ask a natural-language question about the indexed repository",
	Long: `Chat retrieves relevant chunks the same way search does, then composes
them into a prompt for the configured chat model and prints the answer
followed by the citations (filepath:start-end) of the retrieved chunks.
Without a configured chat model, it prints the citations only.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().IntVar(&chatTopK, "top-k", 10, "number of chunks to retrieve")
}

func runChat(cmd *cobra.Command, args []string) error {
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
	opts.TopK = chatTopK

	result, err := e.Chat(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	if result.Answer != "" {
		fmt.Println(result.Answer)
		fmt.Println()
	}
	fmt.Println("citations:")
	for _, c := range result.Citations {
		fmt.Printf("  %s\n", c)
	}
	return nil
}
