package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tswindow/internal/config"
	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/output"
	"github.com/willibrandon/tswindow/internal/query"
)

// Exit codes
const (
	exitError      = 1
	exitUsageError = 2
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool
	quiet      bool
	colorMode  string
	sourceFlag string
	dbPath     string
	dsn        string

	cfg     *config.Config
	printer *output.Printer

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if printer == nil {
			printer = output.NewPrinter(stdout, stderr, false, false)
		}
		printer.Error("%v", err)
		if query.IsUserError(err) {
			os.Exit(exitUsageError)
		}
		os.Exit(exitError)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tswindow",
		Short: "Resolve time windows and reduce metric history for charts",
		Long: `tswindow resolves calendar-aligned time windows and reduces the samples
inside them to a bounded number of chart points.

Examples:
  tswindow window --unit hour --qty 24 --offset -1
  tswindow reduce cpu --unit minute --qty 60 --strategy fixed --max-count 12
  tswindow plot cpu --preset 7d
  tswindow browse cpu
  tswindow serve`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file path (default ~/.config/tswindow/config.yaml)")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	flags.StringVar(&colorMode, "color", "auto", "color output: auto, always or never")
	flags.StringVar(&sourceFlag, "source", "", "history source: sqlite or postgres (overrides storage.source)")
	flags.StringVar(&dbPath, "db", "", "SQLite database path (overrides storage.sqlite_path)")
	flags.StringVar(&dsn, "dsn", "", "PostgreSQL connection string (overrides storage.postgres.dsn)")

	rootCmd.AddCommand(
		newWindowCmd(),
		newReduceCmd(),
		newPlotCmd(),
		newRecordCmd(),
		newImportCmd(),
		newExportCmd(),
		newPruneCmd(),
		newMetricsCmd(),
		newBrowseCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// initConfig loads the config, applies flag overrides and starts the logger.
func initConfig() error {
	mode, err := output.ParseColorMode(colorMode)
	if err != nil {
		return err
	}
	printer = output.NewPrinter(stdout, stderr, output.ResolveColors(mode), quiet)

	if configPath != "" {
		cfg, err = config.LoadConfigFromPath(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if sourceFlag != "" {
		cfg.Storage.Source = sourceFlag
	}
	if dbPath != "" {
		cfg.Storage.SQLitePath = dbPath
	}
	if dsn != "" {
		cfg.Storage.Postgres.DSN = dsn
		if sourceFlag == "" {
			cfg.Storage.Source = "postgres"
		}
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if debug || cfg.Debug {
		level = logger.LevelDebug
	}
	logger.InitLogger(level, cfg.LogFile)
	logger.Debug("configuration loaded",
		"source", cfg.Storage.Source,
		"unit", cfg.Chart.Unit,
		"strategy", cfg.Chart.Strategy)
	return nil
}

// errNoMetric is returned by commands that need a metric argument.
var errNoMetric = errors.New("metric name is required")
