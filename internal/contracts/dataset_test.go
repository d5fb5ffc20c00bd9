package contracts

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewTable_DuplicateColumn(t *testing.T) {
	if _, err := NewTable("keystats.csv", []string{"Ticker", "Beta", "Beta"}); err == nil {
		t.Error("NewTable() expected error for duplicate column")
	}
}

func TestTable_AppendAndCompleteRows(t *testing.T) {
	table, err := NewTable("keystats.csv", []string{"Ticker", "Beta"})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	rows := []Observation{
		{Line: 2, Cells: []Cell{{Text: "AAPL", Present: true}, {Value: 1.2, Present: true}}},
		{Line: 3, Cells: []Cell{{Text: "MSFT", Present: true}, {Present: false}}},
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if err := table.Append(Observation{Line: 4, Cells: []Cell{{Present: true}}}); err == nil {
		t.Error("Append() expected error for short row")
	}

	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if table.CompleteRows() != 1 {
		t.Errorf("CompleteRows() = %d, want 1", table.CompleteRows())
	}
	if i, ok := table.ColumnIndex("Beta"); !ok || i != 1 {
		t.Errorf("ColumnIndex(Beta) = %d, %v", i, ok)
	}
	if table.HasColumn("PEG Ratio") {
		t.Error("HasColumn(PEG Ratio) = true, want false")
	}
}

func TestDataset_Subset(t *testing.T) {
	ds := &Dataset{
		Features: []string{"Beta"},
		X:        [][]float64{{1}, {2}, {3}, {4}},
		Y:        []int{1, 0, 0, 1},
		Returns:  [][2]float64{{10, 2}, {3, 1}, {-5, 4}, {20, 0}},
		Tickers:  []string{"A", "B", "C", "D"},
		Dates:    []string{"d1", "d2", "d3", "d4"},
	}

	sub := ds.Subset([]int{3, 0})

	if sub.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sub.Len())
	}
	for i, want := range []string{"D", "A"} {
		if sub.Tickers[i] != want {
			t.Errorf("Tickers[%d] = %s, want %s", i, sub.Tickers[i], want)
		}
	}
	if sub.X[0][0] != 4 || sub.Y[0] != 1 || sub.Returns[0] != [2]float64{20, 0} {
		t.Errorf("row 0 out of lockstep: x=%v y=%d r=%v", sub.X[0], sub.Y[0], sub.Returns[0])
	}
	if sub.Positives() != 2 {
		t.Errorf("Positives() = %d, want 2", sub.Positives())
	}
	if !sub.Labeled() {
		t.Error("Labeled() = false, want true")
	}
}

func TestDataset_SubsetInference(t *testing.T) {
	ds := &Dataset{
		X:       [][]float64{{1}, {2}},
		Tickers: []string{"A", "B"},
		Dates:   []string{"", ""},
	}

	sub := ds.Subset([]int{1})
	if sub.Labeled() {
		t.Error("inference subset should not be labeled")
	}
	if sub.Y != nil || sub.Returns != nil {
		t.Error("inference subset should keep nil labels and returns")
	}
}

func TestErrorHelpers(t *testing.T) {
	wrapped := fmt.Errorf("build dataset: %w", &EmptyDatasetError{Stage: StageDataset, Reason: "no complete rows"})
	if !IsEmptyDataset(wrapped) {
		t.Error("IsEmptyDataset() = false for wrapped EmptyDatasetError")
	}
	if IsPrecondition(wrapped) {
		t.Error("IsPrecondition() = true for EmptyDatasetError")
	}

	pre := &PreconditionError{Stage: StageDataset, Field: "features", Reason: "unknown column \"Bta\""}
	if !strings.Contains(pre.Error(), "S1") || !strings.Contains(pre.Error(), "features") {
		t.Errorf("PreconditionError.Error() = %q", pre.Error())
	}

	cause := errors.New("strconv.ParseFloat: parsing \"abc\": invalid syntax")
	up := &UpstreamDataError{Source: "keystats.csv", Line: 7, Column: "Beta", Err: cause}
	if !IsUpstreamData(fmt.Errorf("load: %w", up)) {
		t.Error("IsUpstreamData() = false for wrapped UpstreamDataError")
	}
	if !errors.Is(up, cause) {
		t.Error("UpstreamDataError should unwrap to its cause")
	}
	if !strings.Contains(up.Error(), "keystats.csv:7 [Beta]") {
		t.Errorf("UpstreamDataError.Error() = %q", up.Error())
	}
}

func TestStage_ShortName(t *testing.T) {
	for i, stage := range AllStages() {
		want := fmt.Sprintf("S%d", i)
		if stage.ShortName() != want {
			t.Errorf("%s.ShortName() = %s, want %s", stage, stage.ShortName(), want)
		}
		if !IsValidStage(stage.String()) {
			t.Errorf("IsValidStage(%s) = false", stage)
		}
	}
	if IsValidStage("S9_UNKNOWN") {
		t.Error("IsValidStage(S9_UNKNOWN) = true")
	}
}

func TestClassificationReport_String(t *testing.T) {
	r := ClassificationReport{
		PerClass: [2]ClassMetrics{
			{Precision: 0.8, Recall: 0.9, F1: 0.85, Support: 10},
			{Precision: 0.5, Recall: 0.25, F1: 0.33, Support: 4},
		},
		Accuracy: 0.71,
		Total:    14,
	}

	out := r.String()
	for _, want := range []string{"precision", "accuracy", "macro avg", "weighted avg", "0.71"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}

func TestEvaluationMetrics_ROCAUCString(t *testing.T) {
	if got := (EvaluationMetrics{}).ROCAUCString(); got != "n/a" {
		t.Errorf("ROCAUCString() = %s, want n/a", got)
	}
	auc := 0.75
	if got := (EvaluationMetrics{ROCAUC: &auc}).ROCAUCString(); got != "0.7500" {
		t.Errorf("ROCAUCString() = %s, want 0.7500", got)
	}
}
