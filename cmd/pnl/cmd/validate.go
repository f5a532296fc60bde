package cmd

import (
	"fmt"

	"github.com/rustyeddy/pnl/pipeline"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a trade ledger for consistency issues",
	Long: `Check every row of a trade ledger without computing PnL and write the
issues found to a CSV report. Exits with an error when an issue other than
a conversion warning is found.

Example:
  pnl validate -i trades.csv --issues issues.csv`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var (
	validateInput     string
	validateReference string
	validateIssues    string
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "trade ledger CSV")
	validateCmd.Flags().StringVarP(&validateReference, "reference", "r", "", "reference currency")
	validateCmd.Flags().StringVar(&validateIssues, "issues", "", "validation issues CSV")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = validateInput
	}
	if flags.Changed("reference") {
		cfg.ReferenceCurrency = validateReference
	}
	if flags.Changed("issues") {
		cfg.Validation.IssuesFile = validateIssues
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	rep, err := pipeline.Validate(cfg.Input, cfg.ReferenceCurrency, cfg.Validation.IssuesFile, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows: %d, Instruments: %d, Issues: %d (%d errors)\n",
		rep.Rows, rep.Instruments, len(rep.Issues), rep.Errors())
	for _, issue := range rep.Issues {
		fmt.Fprintf(out, "  %s\n", issue)
	}
	if cfg.Validation.IssuesFile != "" {
		fmt.Fprintf(out, "\nIssues saved to: %s\n", cfg.Validation.IssuesFile)
	}

	if rep.Errors() > 0 {
		return fmt.Errorf("%w: %d issues", pipeline.ErrValidationFailed, rep.Errors())
	}
	return nil
}
