package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/signals/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage run configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  signals config init -o signals.yaml
  signals config validate -f signals.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "signals.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(w, "\nEdit the file and run with:")
	fmt.Fprintf(w, "  signals run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	sym, err := cfg.MarketSymbol()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(w, "  Symbol: %s (tick %v, lot %v, fee %v)\n", sym, sym.TickSize, sym.LotSize, sym.FeeRate)
	fmt.Fprintf(w, "  Feed: %s (%s)\n", cfg.Feed.Path, cfg.Feed.Format)
	fmt.Fprintf(w, "  Strategy: %s (size %v, leverage %v)\n", cfg.Strategy.Name, cfg.Strategy.Size, cfg.Strategy.Leverage)
	fmt.Fprintf(w, "  Engine: strict=%v\n", cfg.Engine.Strict)
	return nil
}
