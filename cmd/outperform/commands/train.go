package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/modelconfig"
	"github.com/wonny/outperform/internal/s2_model"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a classifier and report held-out metrics",
	Long: `Labels the key statistics table, splits it with a seeded shuffle,
fits StandardScaler → classifier on the training rows and reports the
classification report, headline metrics and ROC AUC on the held-out rows.

Example:
  go run ./cmd/outperform train
  go run ./cmd/outperform train --model random_forest --margin 15
  go run ./cmd/outperform train --model logistic_regression --search --folds 5 -o json`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	addModelFlags(trainCmd)
}

// trainingView is the JSON shape of a training run
type trainingView struct {
	RunID      string                         `json:"run_id"`
	Model      string                         `json:"model"`
	Margin     float64                        `json:"margin_pct"`
	Rows       int                            `json:"rows"`
	TrainRows  int                            `json:"train_rows"`
	TestRows   int                            `json:"test_rows"`
	SearchBest *float64                       `json:"search_best,omitempty"`
	Report     contracts.ClassificationReport `json:"report"`
	Metrics    contracts.EvaluationMetrics    `json:"metrics"`
}

func runTrain(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	r, err := a.startRun("train")
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

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, newTrainingView(r.record.RunID.String(), a.model, ds.Len(), result))
	}

	printTrainingReport(out, a.model, ds.Len(), result)
	return nil
}

func newTrainingView(runID string, model *modelconfig.Config, rows int, result *s2_model.Result) trainingView {
	view := trainingView{
		RunID:     runID,
		Model:     result.ModelType,
		Margin:    model.Dataset.OutperformancePct,
		Rows:      rows,
		TrainRows: result.TrainRows,
		TestRows:  result.TestRows,
		Report:    result.Report,
		Metrics:   result.Metrics,
	}
	if result.Search != nil {
		best := result.Search.Best
		view.SearchBest = &best
	}
	return view
}

// printTrainingReport prints the held-out evaluation
func printTrainingReport(w io.Writer, model *modelconfig.Config, rows int, result *s2_model.Result) {
	PrintHeader(w, fmt.Sprintf("Model: %s (outperformance > %.1f%%p)", result.ModelType, model.Dataset.OutperformancePct))
	PrintKeyValue(w, "Rows", fmt.Sprintf("%d", rows), 16)
	PrintKeyValue(w, "Train / Test", fmt.Sprintf("%d / %d (test_size %.2f, seed %d)",
		result.TrainRows, result.TestRows, model.Split.TestSize, model.Split.Seed), 16)

	if result.Search != nil {
		scores := make([]string, len(result.Search.Scores))
		for i, s := range result.Search.Scores {
			scores[i] = fmt.Sprintf("%.4f", s)
		}
		PrintKeyValue(w, "Grid search", fmt.Sprintf("best %s=%g (cv accuracy %s)",
			s2_model.GridParam(result.ModelType), result.Search.Best, strings.Join(scores, ", ")), 16)
	}

	PrintSeparator(w)
	fmt.Fprintln(w, result.Report.String())
	PrintSeparator(w)

	m := result.Metrics
	PrintKeyValue(w, "Accuracy", fmt.Sprintf("%.4f", m.Accuracy), 16)
	PrintKeyValue(w, "Precision", fmt.Sprintf("%.4f", m.Precision), 16)
	PrintKeyValue(w, "Macro precision", fmt.Sprintf("%.4f", m.MacroPrecision), 16)
	PrintKeyValue(w, "Macro recall", fmt.Sprintf("%.4f", m.MacroRecall), 16)
	PrintKeyValue(w, "Macro F1", fmt.Sprintf("%.4f", m.MacroF1), 16)
	PrintKeyValue(w, "ROC AUC", m.ROCAUCString(), 16)
	PrintDoubleSeparator(w)
}
