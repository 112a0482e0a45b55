package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/llm"
	"github.com/sevigo/audit-warden/internal/logger"
)

var (
	githubToken string

	cfg       *config.Config
	cliLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "audit-cli",
	Short: "audit-cli is the command-line interface for Audit-Warden.",
	Long: `A CLI for running Audit-Warden security reviews locally: review diff files,
local git ranges or GitHub pull requests without starting the service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initConfig()
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token (defaults to GITHUB_TOKEN)")
}

// initConfig loads .env, then the environment, then flag overrides.
func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	loaded, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if githubToken != "" {
		loaded.GitHub.Token = githubToken
	}
	cfg = loaded

	// Logs go to stderr so that --json output stays parseable.
	cliLogger = logger.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(cliLogger)
	return nil
}

// newReviewer builds the review pipeline from the loaded configuration.
func newReviewer(ctx context.Context) (*llm.DiffReviewer, error) {
	backend, err := llm.NewBackend(ctx, cfg.AI, cliLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model backend: %w", err)
	}
	catalog, err := llm.LoadCatalog()
	if err != nil {
		return nil, err
	}
	prompts, err := llm.NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}
	client := llm.NewModelClient(backend, catalog, llm.RetryPolicyFromConfig(cfg.Retry), cliLogger)
	return llm.NewDiffReviewer(client, prompts, llm.NewReviewerConfig(cfg), cliLogger), nil
}
