// Package main implements the instinct CLI for managing the instinctd
// pattern store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/instinctd/internal/config"
	"github.com/fyrsmithlabs/instinctd/internal/instinct"
	"github.com/fyrsmithlabs/instinctd/internal/logging"
)

var (
	// persistent flags
	configPath string
	storePath  string
	logLevel   string

	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "instinct",
	Short: "Manage the instinctd learned-pattern store",
	Long: `instinct manages a JSON-backed store of learned patterns ("instincts")
for agent workflow toolkits. Each instinct carries a confidence score that
grows with use and decays with disuse; related instincts cluster by category
into candidates for promotion to formal skills.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/instinctd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "store file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
}

// cliEnv bundles the loaded configuration, logger, and store shared by
// every subcommand. Each CLI invocation performs exactly one
// load -> operate -> save cycle and exits.
type cliEnv struct {
	cfg    *config.Config
	logger *logging.Logger
	store  *instinct.Store
}

// newEnv loads config, applies flag overrides, and opens the store.
func newEnv(ctx context.Context) (*cliEnv, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	logCfg.Output = cfg.Logging.Output

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	backend, err := instinct.NewFileBackend(cfg.Store.Path, cfg.Store.Recovery, logger)
	if err != nil {
		return nil, err
	}

	store, err := instinct.NewStore(ctx, backend, logger)
	if err != nil {
		return nil, err
	}

	return &cliEnv{cfg: cfg, logger: logger, store: store}, nil
}

// opContext tags the command context with operation and store path for
// log correlation.
func (e *cliEnv) opContext(cmd *cobra.Command) context.Context {
	ctx := logging.WithOperation(cmd.Context(), cmd.Name())
	return logging.WithStorePath(ctx, e.cfg.Store.Path)
}
