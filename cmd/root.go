package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/sectorscore/internal/config"
	"github.com/okian/sectorscore/pkg/logger"
	"github.com/okian/sectorscore/pkg/metrics"
)

// errRunFailed makes batch commands exit non-zero after printing their report.
var errRunFailed = errors.New("run reported errors")

type cli struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "sectorscore",
		Short: "Fishing tournament scoring engine",
		Long: `sectorscore recomputes competitor totals, points and sector coefficients
from judge-entered hourly and big-catch records, and serves the results.

Configuration is layered: defaults, then the YAML file named by --config or
SECTORSCORE_CONFIG, then SECTORSCORE_* environment variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		RunE:              c.runServe,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Override log_level (debug, info, warn, error)")

	root.AddCommand(
		c.serveCmd(),
		c.recomputeCmd(),
		c.migrateCmd(),
		c.standingsCmd(),
		c.simulateCmd(),
	)
	return root
}

// setup loads configuration and initializes logging on stderr so that batch
// commands keep stdout for their JSON report.
func (c *cli) setup(*cobra.Command, []string) error {
	if c.configPath != "" {
		if err := os.Setenv(config.EnvConfigFile, c.configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	c.cfg = cfg

	if err := logger.InitWith(os.Stderr, cfg.LogFormat); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}

	metrics.Configure(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithSubsystem(cfg.Metrics.Subsystem),
		metrics.WithHistogramBuckets(cfg.Metrics.LatencyBuckets),
		metrics.WithRefreshInterval(cfg.Metrics.RefreshInterval),
	)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
