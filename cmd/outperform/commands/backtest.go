package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/outperform/internal/backtest"
	"github.com/wonny/outperform/internal/contracts"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest the classifier on held-out rows",
	Long: `Trains the configured model and treats every held-out row predicted
to outperform as a trade, comparing their average return with the average
S&P 500 return over the same rows.

Caveat: the split is random over time-ordered data, so the backtest admits
look-ahead leakage and overstates live performance.

Example:
  go run ./cmd/outperform backtest run
  go run ./cmd/outperform backtest run --model random_forest --margin 10`,
}

var backtestRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Train, predict held-out rows and summarize returns",
	RunE:  runBacktest,
}

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)
	addModelFlags(backtestRunCmd)
}

// backtestView is the JSON shape of a backtest run
type backtestView struct {
	trainingView
	Backtest *backtest.Summary `json:"backtest"`
	Risk     *backtest.Risk    `json:"risk,omitempty"`
	Caveat   string            `json:"caveat"`
}

func runBacktest(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	r, err := a.startRun("backtest")
	if err != nil {
		return err
	}
	defer func() { a.finishRun(cmd.Context(), r, err) }()

	_, ds, err := a.loadDataset(r)
	if err != nil {
		return err
	}

	result, err := a.train(cmd.Context(), r, ds)
	if err != nil {
		return err
	}

	engine := backtest.NewEngine(a.log)
	summary, err := engine.Run(result.Test.Returns, result.Predictions)
	if err != nil && !contracts.IsEmptyDataset(err) {
		return err
	}
	// "no stocks predicted" is a normal outcome
	err = nil

	r.record.SetBacktest(summary)
	r.metrics.RecordBacktest(summary)

	var risk *backtest.Risk
	if summary.Trades > 0 {
		excess, err := backtest.ExcessReturns(result.Test.Returns, result.Predictions)
		if err != nil {
			return err
		}
		cfg := backtest.DefaultRiskConfig()
		cfg.Seed = a.model.Split.Seed
		if risk, err = backtest.AnalyzeRisk(excess, cfg); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, backtestView{
			trainingView: newTrainingView(r.record.RunID.String(), a.model, ds.Len(), result),
			Backtest:     summary,
			Risk:         risk,
			Caveat:       backtest.LeakageCaveat,
		})
	}

	printTrainingReport(out, a.model, ds.Len(), result)
	printBacktestSummary(out, summary, risk)
	return nil
}

// printBacktestSummary prints the stock prediction performance report
func printBacktestSummary(w io.Writer, s *backtest.Summary, risk *backtest.Risk) {
	PrintHeader(w, "Stock prediction performance report")

	if s.Trades == 0 {
		fmt.Fprintln(w, "   No stocks predicted!")
		PrintDoubleSeparator(w)
		return
	}

	stock, bench, out := s.Rounded()
	PrintKeyValue(w, "Total trades", fmt.Sprintf("%d", s.Trades), 20)
	PrintKeyValue(w, "Average stock return", stock.StringFixed(1)+" %", 20)
	PrintKeyValue(w, "Average S&P 500 return", bench.StringFixed(1)+" %", 20)
	PrintKeyValue(w, "Outperformance", out.StringFixed(1)+" percentage points", 20)

	if risk != nil {
		PrintSeparator(w)
		conf := risk.Confidence * 100
		PrintKeyValue(w, "Hit rate", fmt.Sprintf("%.1f%%", risk.HitRate*100), 20)
		PrintKeyValue(w, "Worst / best trade", fmt.Sprintf("%.1f / %.1f %%p", risk.Worst, risk.Best), 20)
		PrintKeyValue(w, fmt.Sprintf("VaR / CVaR (%.0f%%)", conf), fmt.Sprintf("%.1f / %.1f %%p", risk.VaR, risk.CVaR), 20)
		PrintKeyValue(w, fmt.Sprintf("Mean CI (%.0f%%)", conf), fmt.Sprintf("[%.1f, %.1f] %%p, %d resamples",
			risk.MeanLow, risk.MeanHigh, risk.Resamples), 20)
	}

	PrintWarning(w, backtest.LeakageCaveat)
	PrintDoubleSeparator(w)
}
