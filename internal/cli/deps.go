package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps [filepath]",
	Short: "Show a file's imports, exports, and graph neighbors",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
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

	deps, err := e.GetDependencies(args[0])
	if err != nil {
		return fmt.Errorf("get dependencies: %w", err)
	}

	fmt.Printf("chunks: %d\n", deps.ChunkCount)
	fmt.Printf("exports: %v\n", deps.Exports)
	fmt.Printf("dependencies: %v\n", deps.Dependencies)
	fmt.Printf("dependents: %v\n", deps.Dependents)
	fmt.Println("imports:")
	for _, imp := range deps.Imports {
		fmt.Printf("  %s from %q (type=%v, line=%d)\n", imp.Symbol, imp.From, imp.IsType, imp.Line)
	}
	return nil
}
