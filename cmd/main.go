// Package main is the entry point of the aigi command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/okian/aigi/internal/app"
	"github.com/okian/aigi/internal/config"
	"github.com/okian/aigi/internal/domain/snapshot"
	"github.com/okian/aigi/pkg/logger"
)

var version = "dev"

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("aigi: " + err.Error() + "\n")
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// cli holds state shared by subcommands after the root pre-run.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log logger.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "aigi",
		Short: "AIGI - Composite Intelligence Score engine",
		Long: `aigi scores a registry of AI models against per-metric feeds and
publishes a hashed per-epoch snapshot of the Composite Intelligence Score.

Configuration is layered: defaults, then the YAML file named by --config or
AIGI_CONFIG, then AIGI_* environment variables, then command flags.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (overrides AIGI_CONFIG)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "log format: text or json")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.setup(cmd.Context())
	}

	cmd.AddCommand(newRunCommand(c))
	cmd.AddCommand(newVerifyCommand(c))
	cmd.AddCommand(newLatestCommand(c))
	cmd.AddCommand(newHistoryCommand(c))
	cmd.AddCommand(newShowCommand(c))
	cmd.AddCommand(newServeCommand(c))
	return cmd
}

// setup loads configuration and initializes logging.
func (c *cli) setup(ctx context.Context) error {
	if c.configPath != "" {
		if err := os.Setenv(config.EnvConfig, c.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(os.Stderr)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	c.log = logger.Get()
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	c.cfg = cfg
	return nil
}

// revalidate checks the configuration after flag overrides.
func (c *cli) revalidate() error {
	if err := c.cfg.Validate(); err != nil {
		return &exitError{code: 2, err: err}
	}
	return nil
}

// newService builds the pipeline service from the effective configuration.
func (c *cli) newService() (*app.Service, error) {
	w, err := c.cfg.ScoringWeights()
	if err != nil {
		return nil, &exitError{code: 2, err: err}
	}
	archiveDir := ""
	if c.cfg.ArchiveRawFeeds {
		archiveDir = c.cfg.RawArchiveDir
	}
	return app.New(
		app.WithLogger(c.log),
		app.WithRegistryPath(c.cfg.RegistryPath),
		app.WithFeedsDir(c.cfg.FeedsDir),
		app.WithSnapshotDir(c.cfg.SnapshotDir),
		app.WithRawArchiveDir(archiveDir),
		app.WithCatalogPath(c.cfg.CatalogPath),
		app.WithEpochID(c.cfg.EpochID),
		app.WithTimestamp(c.cfg.SnapshotTimestamp),
		app.WithWeights(w),
		app.WithRedistribution(c.cfg.RedistributeMissing),
		app.WithPreviousFromCurrent(c.cfg.PreviousFromCurrent),
		app.WithMaxLeaderboardLimit(c.cfg.MaxLeaderboardLimit),
	), nil
}

// resolveSnapshot returns path, or the newest snapshot in the configured
// directory when path is empty.
func (c *cli) resolveSnapshot(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	sum, _, err := snapshot.Latest(c.cfg.SnapshotDir)
	if err != nil {
		return "", err
	}
	return sum.Path, nil
}
