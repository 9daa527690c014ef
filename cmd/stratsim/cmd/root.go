package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stratsim",
	Short: "A technical-analysis trading strategy simulator",
	Long: `Stratsim simulates rule-based trading strategies over daily price history.

It provides tools for:
  - Generating SMA-crossover and RSI mean-reversion signals
  - Backtesting signals into market and strategy returns
  - Applying a per-day stop-loss clamp to strategy returns
  - Downloading and caching daily bars

Complete documentation is available at https://github.com/quantfold/stratsim`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
