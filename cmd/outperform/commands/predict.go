package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/outperform/internal/s0_data"
	"github.com/wonny/outperform/internal/selection"
)

var flagForward string

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Pick stocks predicted to outperform from current data",
	Long: `Trains the configured model on the key statistics table, then
predicts every complete row of the forward tables (one CSV per date or
universe under FORWARD_DIR) and lists the tickers predicted to outperform.

Example:
  go run ./cmd/outperform predict
  go run ./cmd/outperform predict --forward ./forward --model random_forest
  go run ./cmd/outperform predict --margin 10 -o json`,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	addModelFlags(predictCmd)
	predictCmd.Flags().StringVar(&flagForward, "forward", "", "directory of forward CSV tables (default: FORWARD_DIR)")
}

// predictView is the JSON shape of a predict run
type predictView struct {
	RunID     string               `json:"run_id"`
	Model     string               `json:"model"`
	Margin    float64              `json:"margin_pct"`
	Accuracy  float64              `json:"holdout_accuracy"`
	Selection *selection.Selection `json:"selection"`
}

func runPredict(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	r, err := a.startRun("predict")
	if err != nil {
		return err
	}
	defer func() { a.finishRun(cmd.Context(), r, err) }()

	dir := flagForward
	if dir == "" {
		dir = a.cfg.Data.ForwardDir
	}
	tables, err := s0_data.ReadDir(dir)
	if err != nil {
		return err
	}

	_, ds, err := a.loadDataset(r)
	if err != nil {
		return err
	}
	result, err := a.train(cmd.Context(), r, ds)
	if err != nil {
		return err
	}

	// 학습 피처 순서 그대로 forward 테이블에 적용
	selector := selection.NewSelector(a.builder(), a.log)
	sel, err := selector.Select(cmd.Context(), result.Pipeline, tables)
	if err != nil {
		return err
	}

	r.record.Picks = len(sel.Picks)
	r.metrics.RecordRows("forward", sel.Rows)
	r.metrics.RecordPicks(len(sel.Picks))

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, predictView{
			RunID:     r.record.RunID.String(),
			Model:     result.ModelType,
			Margin:    a.model.Dataset.OutperformancePct,
			Accuracy:  result.Metrics.Accuracy,
			Selection: sel,
		})
	}

	PrintHeader(out, fmt.Sprintf("Forward prediction: %s", result.ModelType))
	PrintKeyValue(out, "Forward tables", fmt.Sprintf("%d (%d skipped)", sel.Tables, len(sel.Skipped)), 16)
	PrintKeyValue(out, "Forward rows", fmt.Sprintf("%d", sel.Rows), 16)
	PrintKeyValue(out, "Held-out acc.", fmt.Sprintf("%.4f", result.Metrics.Accuracy), 16)
	PrintSeparator(out)

	if sel.Empty() {
		fmt.Fprintln(out, "No stocks predicted!")
		return nil
	}

	fmt.Fprintf(out, "%d stocks predicted to outperform the S&P500 by more than %g%%:\n",
		len(sel.Picks), a.model.Dataset.OutperformancePct)
	fmt.Fprintln(out, strings.Join(sel.Tickers(), " "))

	PrintSeparator(out)
	PrintInfo(out, "Ranked by probability:")
	ranked := sel.Ranked()
	items := make([]string, len(ranked))
	for i, p := range ranked {
		items[i] = fmt.Sprintf("%-8s %.3f  %s", p.Ticker, p.Probability, p.Source)
	}
	PrintNumberedList(out, items)
	return nil
}
