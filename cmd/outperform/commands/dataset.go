package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/s0_data"
	"github.com/wonny/outperform/internal/s0_data/quality"
)

// datasetCmd represents the dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect the key statistics table",
	Long: `Checks a key statistics table before training: row counts, feature
catalog, per-column coverage and the share of rows labeled outperform.

Example:
  go run ./cmd/outperform dataset inspect
  go run ./cmd/outperform dataset inspect --data keystats.csv --margin 15`,
}

var datasetInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report table coverage and label balance",
	RunE:  runDatasetInspect,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetInspectCmd)
	addDataFlag(datasetInspectCmd)
	datasetInspectCmd.Flags().Float64Var(&flagMargin, "margin", 10, "outperformance margin in percentage points")
}

// inspectView is the JSON shape of dataset inspect
type inspectView struct {
	Source        string            `json:"source"`
	Columns       int               `json:"columns"`
	Unknown       []string          `json:"unknown_features"`
	Duplicated    []string          `json:"duplicated_features"`
	Quality       *quality.Snapshot `json:"quality"`
	Weakest       []string          `json:"weakest"`
	UsableRows    int               `json:"usable_rows"`
	Positives     int               `json:"positives"`
	PositiveShare float64           `json:"positive_share"`
	Margin        float64           `json:"margin_pct"`
}

func runDatasetInspect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	table, err := s0_data.ReadCSV(a.dataPath())
	if err != nil {
		return err
	}

	builder := a.builder()
	features := builder.Features()
	check := s0_data.Validate(table.Columns, features)

	view := inspectView{
		Source:     table.Source,
		Columns:    len(table.Columns),
		Unknown:    check.Unknown,
		Duplicated: check.Duplicated,
		Margin:     a.model.Dataset.OutperformancePct,
	}

	if check.OK() {
		snapshot, err := quality.NewGate(quality.DefaultConfig()).Check(table, features)
		if err != nil {
			return err
		}
		view.Quality = snapshot
		view.Weakest = snapshot.Weakest(5)

		ds, err := builder.Build(table)
		switch {
		case err == nil:
			view.UsableRows = ds.Len()
			view.Positives = ds.Positives()
			if ds.Len() > 0 {
				view.PositiveShare = float64(ds.Positives()) / float64(ds.Len())
			}
		case contracts.IsEmptyDataset(err):
			a.log.WithError(err).Warn("No usable rows")
		default:
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, view)
	}

	PrintHeader(out, fmt.Sprintf("Dataset: %s", view.Source))
	PrintKeyValue(out, "Columns", fmt.Sprintf("%d", view.Columns), 16)
	PrintKeyValue(out, "Rows", fmt.Sprintf("%d", table.Len()), 16)
	PrintKeyValue(out, "Complete rows", fmt.Sprintf("%d", table.CompleteRows()), 16)
	PrintKeyValue(out, "Features", fmt.Sprintf("%d", len(features)), 16)

	if !check.OK() {
		for _, f := range check.Unknown {
			PrintWarning(out, fmt.Sprintf("feature not in table: %q", f))
		}
		for _, f := range check.Duplicated {
			PrintWarning(out, fmt.Sprintf("feature listed twice: %q", f))
		}
		PrintDoubleSeparator(out)
		return nil
	}

	PrintSeparator(out)
	PrintKeyValue(out, "Quality score", fmt.Sprintf("%.2f", view.Quality.Score), 16)
	if view.Quality.Passed {
		PrintSuccess(out, "quality gate passed")
	} else {
		PrintWarning(out, "quality gate failed")
	}
	if len(view.Weakest) > 0 {
		PrintInfo(out, "Lowest coverage:")
		for _, col := range view.Weakest {
			PrintKeyValue(out, "  "+col, fmt.Sprintf("%.1f%%", view.Quality.Coverage[col]*100), 32)
		}
	}

	PrintSeparator(out)
	PrintKeyValue(out, "Usable rows", fmt.Sprintf("%d", view.UsableRows), 16)
	PrintKeyValue(out, "Outperformers", fmt.Sprintf("%d (%.1f%%, margin %g%%p)",
		view.Positives, view.PositiveShare*100, view.Margin), 16)
	PrintDoubleSeparator(out)
	return nil
}
