package contracts

import (
	"fmt"
	"strings"
)

// ClassMetrics holds precision/recall/F1 for one class or one average
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationReport is the per-class report on the held-out set.
// PerClass is indexed by label (0 = not outperform, 1 = outperform).
type ClassificationReport struct {
	PerClass    [2]ClassMetrics `json:"per_class"`
	Accuracy    float64         `json:"accuracy"`
	MacroAvg    ClassMetrics    `json:"macro_avg"`
	WeightedAvg ClassMetrics    `json:"weighted_avg"`
	Total       int             `json:"total"`
}

// String renders the report as an aligned text table
func (r ClassificationReport) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%12s %9s %9s %9s %9s\n\n", "", "precision", "recall", "f1-score", "support")
	for label, m := range r.PerClass {
		fmt.Fprintf(&b, "%12d %9.2f %9.2f %9.2f %9d\n", label, m.Precision, m.Recall, m.F1, m.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&b, "%12s %9.2f %9.2f %9.2f %9d\n", "macro avg",
		r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	fmt.Fprintf(&b, "%12s %9.2f %9.2f %9.2f %9d\n", "weighted avg",
		r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)

	return b.String()
}

// EvaluationMetrics are the headline held-out metrics.
// Precision is for the positive class; Macro* are unweighted means over both classes.
// ROCAUC is nil when the held-out labels contain a single class.
type EvaluationMetrics struct {
	Accuracy       float64  `json:"accuracy"`
	Precision      float64  `json:"precision"`
	MacroPrecision float64  `json:"macro_precision"`
	MacroRecall    float64  `json:"macro_recall"`
	MacroF1        float64  `json:"macro_f1"`
	ROCAUC         *float64 `json:"roc_auc"`
}

// ROCAUCString formats ROC AUC, "n/a" when undefined
func (m EvaluationMetrics) ROCAUCString() string {
	if m.ROCAUC == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *m.ROCAUC)
}
