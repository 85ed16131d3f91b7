package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/signals/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "signals",
	Short: "Replay market data through the trading signal engine",
	Long: `Signals turns a stream of quotes into a stream of trading signals.

It provides tools for:
  - Replaying tick or candle CSV files through a strategy
  - Running several symbols in parallel
  - Building OHLC charts from quotes
  - Generating and validating run configurations`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if v := os.Getenv("LOG_LEVEL"); v != "" && !cmd.Flags().Changed("log-level") {
			level = v
		}
		l, err := logging.New(level, logDev)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var (
	logLevel string
	logDev   bool

	logger = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logDev, "log-dev", false, "human readable development logs")
}
