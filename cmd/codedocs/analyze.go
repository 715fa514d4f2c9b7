package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nishchaysingla/Codebase-project/internal/clone"
	"github.com/nishchaysingla/Codebase-project/internal/explain"
	"github.com/nishchaysingla/Codebase-project/internal/pipeline"
)

var (
	analyzeConfigPath string
	analyzeWorkspace  string
	analyzeWorkers    int
	analyzeVerbose    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-url>",
	Short: "Run one analysis job locally and print the archive path",
	Long:  `Clone a repository, generate documentation for every analyzable file, and write the finished archive to the workspace without starting the HTTP server.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file")
	analyzeCmd.Flags().StringVar(&analyzeWorkspace, "workspace", "", "Root directory for job workspaces")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Per-file explainer concurrency")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress information")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoURL := args[0]

	cfg, err := loadConfig(cmd, analyzeConfigPath)
	if err != nil {
		return err
	}

	client := newLLMClient(ctx, cfg)
	defer func() { _ = client.Close() }()

	runner := &pipeline.Runner{
		Fetcher:       pipeline.NewGitFetcher(&clone.Cloner{}),
		Explainer:     explain.New(client),
		Rules:         cfg.Rules(),
		WorkspaceRoot: cfg.WorkspaceRoot,
		Workers:       cfg.Workers,
		SweepOnStart:  true,
		Verbose:       analyzeVerbose,
	}

	jobID := uuid.New().String()
	archivePath, err := runner.Run(ctx, jobID, repoURL)
	if errors.Is(err, pipeline.ErrNoFiles) {
		return fmt.Errorf("no suitable files were found to analyze in the repository")
	}
	if err != nil {
		return err
	}

	fmt.Printf("Documentation archive: %s\n", archivePath)
	return nil
}
