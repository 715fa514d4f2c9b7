package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/nishchaysingla/Codebase-project/internal/cleanup"
	"github.com/nishchaysingla/Codebase-project/internal/clone"
	"github.com/nishchaysingla/Codebase-project/internal/config"
	"github.com/nishchaysingla/Codebase-project/internal/explain"
	"github.com/nishchaysingla/Codebase-project/internal/job"
	"github.com/nishchaysingla/Codebase-project/internal/llm"
	"github.com/nishchaysingla/Codebase-project/internal/pipeline"
	"github.com/nishchaysingla/Codebase-project/internal/server"
)

var (
	serveConfigPath string
	servePort       int
	serveWorkspace  string
	serveWorkers    int
	serveNoSweep    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts repository URLs, runs the analysis pipeline on background workers, and serves the finished documentation archives.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
	serveCmd.Flags().StringVar(&serveWorkspace, "workspace", "", "Root directory for job workspaces")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Per-file explainer concurrency")
	serveCmd.Flags().BoolVar(&serveNoSweep, "no-sweep", false, "Do not sweep stale workspace artifacts at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, serveConfigPath)
	if err != nil {
		return err
	}

	client := newLLMClient(ctx, cfg)
	defer func() { _ = client.Close() }()

	// The store is selected at startup: in-process for single-instance
	// deployments, PostgreSQL when several instances share the job table.
	var store job.Store
	if cfg.DatabaseURL != "" {
		pg, err := job.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create job store: %w", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		store = pg
		log.Printf("Using PostgreSQL job store")
	} else {
		store = job.NewMemoryStore()
		log.Printf("Using in-memory job store")
	}

	// Sweep once, before any job can start. A per-job sweep would take other
	// jobs' live checkouts and undownloaded archives with it.
	if !serveNoSweep {
		if n := cleanup.SweepStale(cfg.WorkspaceRoot); n > 0 {
			log.Printf("Removed %d stale workspace entries from %s", n, cfg.WorkspaceRoot)
		}
	}

	runner := &pipeline.Runner{
		Fetcher:       pipeline.NewGitFetcher(&clone.Cloner{}),
		Explainer:     explain.New(client),
		Rules:         cfg.Rules(),
		WorkspaceRoot: cfg.WorkspaceRoot,
		Workers:       cfg.Workers,
	}

	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		WorkspaceRoot: cfg.WorkspaceRoot,
		Store:         store,
		Runner:        runner,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// loadConfig assembles the effective configuration from file, environment,
// flags, and defaults.
func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg.ApplyEnv()

	// CLI overrides win when explicitly set.
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("workspace") {
		cfg.WorkspaceRoot, _ = cmd.Flags().GetString("workspace")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}

	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLLMClient builds the collaborator client, degrading to a disabled client
// when no API key is configured so the service keeps running and jobs produce
// error documents instead of crashing.
func newLLMClient(ctx context.Context, cfg config.Config) llm.Client {
	if cfg.APIKey == "" {
		log.Printf("Warning: GEMINI_API_KEY is not set; explanations will contain error documents")
		return llm.Disabled{Reason: "Gemini client is not configured: GEMINI_API_KEY is not set"}
	}
	client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		log.Printf("Warning: failed to initialize Gemini client: %v", err)
		return llm.Disabled{Reason: fmt.Sprintf("Gemini client failed to initialize: %v", err)}
	}
	return client
}
