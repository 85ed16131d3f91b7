package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/signals/backtest"
	"github.com/rustyeddy/signals/config"
	"github.com/rustyeddy/signals/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the signal engine from a config file",
	Long: `Replay the feed named in a configuration file through the configured
strategy and print the run summary.

Example:
  signals run -f signals.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("file")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger
	if !cmd.Flags().Changed("log-level") {
		if log, err = logging.New(cfg.Log.Level, cfg.Log.Development || logDev); err != nil {
			return err
		}
		defer log.Sync()
	}

	r, err := newRunner(cfg, log)
	if err != nil {
		return err
	}
	res, err := r.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	backtest.PrintResult(cmd.OutOrStdout(), res)
	return nil
}
