package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/endpoint"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/store"
)

// cfg and logger are set by the root command before any subcommand runs.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Generate multiple-choice questions from text and documents",
	Long: `quizgen turns pasted text or an uploaded PDF/TXT file into a validated set
of multiple-choice questions, using a remote generation endpoint or an LLM
provider directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides QUIZGEN_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZGEN_DB env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file / QUIZGEN_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the database for cmd.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newProvider builds the configured LLM provider, falling back to the
// vendors' standard key variables when the configured one has no key.
func newProvider(ctx context.Context, events store.EventRepo) (llm.Provider, error) {
	pcfg := cfg.LLMProviderConfig()
	if pcfg.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			pcfg = discovered
		}
	}
	p, err := llm.NewProvider(ctx, pcfg, events, logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return p, nil
}

// newService builds the LLM-backed endpoint service.
func newService(ctx context.Context, events store.EventRepo) (*endpoint.Service, error) {
	p, err := newProvider(ctx, events)
	if err != nil {
		return nil, err
	}
	return endpoint.NewService(p, endpoint.DefaultServiceConfig(), logger), nil
}
