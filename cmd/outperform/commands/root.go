package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	modelConfigFile string
	env             string
	verbose         bool
	outputFormat    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "outperform",
	Short: "Stock outperformance classifier and backtest",
	Long: `Outperform CLI

Labels each stock-period of a key-statistics table by whether the stock beat
the S&P 500 by more than a margin, trains a classifier on a seeded split,
reports held-out metrics and backtests the positive predictions.

Usage:
  go run ./cmd/outperform [command]

Examples:
  go run ./cmd/outperform dataset inspect --data keystats.csv
  go run ./cmd/outperform train --model random_forest --search
  go run ./cmd/outperform backtest run --margin 10
  go run ./cmd/outperform predict --forward forward/
  go run ./cmd/outperform runs list`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the command context; the trainer stops between fits.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&modelConfigFile, "model-config", "", "model config YAML (default: MODEL_CONFIG or built-in)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text|json)")
}
