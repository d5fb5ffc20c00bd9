package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/outperform/internal/audit"
	"github.com/wonny/outperform/pkg/database"
)

var (
	flagLimit   int
	flagSummary bool
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse audited runs",
	Long: `Lists train, backtest and predict runs recorded in the audit store
(DATABASE_URL), newest first, optionally aggregated per model type.

Example:
  go run ./cmd/outperform runs list
  go run ./cmd/outperform runs list --limit 50 --summary`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runRunsList,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsListCmd.Flags().IntVar(&flagLimit, "limit", 20, "number of runs")
	runsListCmd.Flags().BoolVar(&flagSummary, "summary", false, "aggregate per model type")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := database.New(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := audit.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	records, err := repo.ListRuns(ctx, flagLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagSummary {
		stats := audit.Analyze(records)
		if outputFormat == "json" {
			return PrintJSON(out, stats)
		}
		printModelStats(cmd, stats)
		return nil
	}

	if outputFormat == "json" {
		return PrintJSON(out, records)
	}

	PrintHeader(out, fmt.Sprintf("Recent runs (%d)", len(records)))
	if len(records) == 0 {
		PrintInfo(out, "No runs recorded")
		return nil
	}

	widths := []int{8, 16, 9, 20, 7, 8, 8, 10}
	PrintTableHeader(out, []string{"RUN", "CREATED", "COMMAND", "MODEL", "MARGIN", "ACC", "AUC", "OUTPERF"}, widths)
	for _, rec := range records {
		acc, auc, outperf := "-", "-", "-"
		if rec.Metrics != nil {
			acc = fmt.Sprintf("%.4f", rec.Metrics.Accuracy)
			auc = rec.Metrics.ROCAUCString()
		}
		if rec.Backtest != nil && rec.Backtest.Trades > 0 {
			_, _, o := rec.Backtest.Rounded()
			outperf = o.StringFixed(1)
		}
		PrintTableRow(out, []string{
			rec.RunID.String()[:8],
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Command,
			rec.ModelType,
			fmt.Sprintf("%g", rec.Margin),
			acc,
			auc,
			outperf,
		}, widths)
	}
	return nil
}

func printModelStats(cmd *cobra.Command, stats []audit.ModelStats) {
	out := cmd.OutOrStdout()
	PrintHeader(out, "Runs by model")
	if len(stats) == 0 {
		PrintInfo(out, "No runs recorded")
		return
	}

	widths := []int{20, 5, 9, 9, 9, 10}
	PrintTableHeader(out, []string{"MODEL", "RUNS", "MEAN ACC", "MEAN F1", "BACKTEST", "MEAN OUT"}, widths)
	for _, s := range stats {
		PrintTableRow(out, []string{
			s.ModelType,
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.4f", s.MeanAccuracy),
			fmt.Sprintf("%.4f", s.MeanMacroF1),
			fmt.Sprintf("%d", s.Backtests),
			fmt.Sprintf("%.1f", s.MeanOutperformance),
		}, widths)
	}
}
