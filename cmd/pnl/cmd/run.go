package cmd

import (
	"fmt"

	"github.com/rustyeddy/pnl/pipeline"
	"github.com/rustyeddy/pnl/valuation"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute PnL per instrument from a trade ledger",
	Long: `Validate the ledger, replay the trades in time order through FIFO lot
matching and write realized, unrealized and total PnL per instrument in the
reference currency.

Flags override the values of the config file.

Examples:
  pnl run -i trades.csv
  pnl run -i trades.csv -r EUR -o pl_eur.csv --closures closures.csv
  pnl run -c pnl.yaml --db pnl.sqlite`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runInput     string
	runOutput    string
	runReference string
	runClosures  string
	runDBPath    string
	runIssues    string
	runWorkers   int
	runStrict    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "trade ledger CSV")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "results CSV")
	runCmd.Flags().StringVarP(&runReference, "reference", "r", "", "reference currency")
	runCmd.Flags().StringVar(&runClosures, "closures", "", "FIFO closures CSV")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "SQLite journal path")
	runCmd.Flags().StringVar(&runIssues, "issues", "", "validation issues CSV")
	runCmd.Flags().IntVar(&runWorkers, "workers", 1, "instrument shards replayed in parallel")
	runCmd.Flags().BoolVar(&runStrict, "strict", true, "abort when validation finds issues")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = runInput
	}
	if flags.Changed("output") {
		cfg.Output.ResultsFile = runOutput
	}
	if flags.Changed("reference") {
		cfg.ReferenceCurrency = runReference
	}
	if flags.Changed("closures") {
		cfg.Output.ClosuresFile = runClosures
	}
	if flags.Changed("db") {
		cfg.Journal.DBPath = runDBPath
	}
	if flags.Changed("issues") {
		cfg.Validation.IssuesFile = runIssues
	}
	if flags.Changed("workers") {
		cfg.Workers = runWorkers
	}
	if flags.Changed("strict") {
		cfg.Validation.Strict = runStrict
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := pipeline.Run(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s complete\n", s.RunID)
	fmt.Fprintf(out, "  Trades: %d, Instruments: %d, Closures: %d, Issues: %d\n",
		s.Trades, len(s.Results), s.Closures, len(s.Report.Issues))
	fmt.Fprintf(out, "  Total PnL (%s): %s\n", cfg.ReferenceCurrency, valuation.Sum(s.Results).StringFixed(valuation.Places))
	fmt.Fprintf(out, "\nResults saved to: %s\n", cfg.Output.ResultsFile)
	if cfg.Output.ClosuresFile != "" {
		fmt.Fprintf(out, "Closures saved to: %s\n", cfg.Output.ClosuresFile)
	}
	if cfg.Journal.DBPath != "" {
		fmt.Fprintf(out, "Journal: %s\n", cfg.Journal.DBPath)
	}
	return nil
}
