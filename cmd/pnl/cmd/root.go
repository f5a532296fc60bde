package cmd

import (
	"fmt"

	"github.com/rustyeddy/pnl/config"
	"github.com/rustyeddy/pnl/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "pnl",
	Short: "FIFO profit and loss calculator for trade ledgers",
	Long: `pnl reads a CSV trade ledger and reports realized, unrealized and total
profit and loss per instrument, converted to a reference currency.

It provides tools for:
  - Validating a ledger before accounting
  - FIFO lot matching of long and short positions
  - Writing per-instrument results and FIFO closures as CSV
  - Keeping every run in a SQLite journal

Complete documentation is available at https://github.com/rustyeddy/pnl`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
	verbose  bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging at debug level")
}

// loadConfig returns the config file named by --config, or the defaults,
// with the global logging flags applied.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := pipeline.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}
