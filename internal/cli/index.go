package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var quietFlag bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the repository for semantic search",
	Long: `Index parses every file matched by the configured path patterns into
code chunks, embeds them, builds the file-level dependency graph, and
writes both to .codesearch/ as snapshots.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\ninterrupted, cancelling index...")
		cancel()
	}()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	e, cfg, err := buildEngine(ctx, rootDir)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if !quietFlag {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Indexing repository"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSpinnerType(14),
		)
	}

	meta, err := discoverAndIndex(ctx, e, cfg, rootDir)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	if err := saveSnapshots(e, rootDir); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}

	fmt.Printf("✓ Indexing complete: %d files, %d chunks, %d embeddings\n",
		meta.Stats.Files, meta.Stats.Chunks, meta.Stats.Embeddings)
	return nil
}
