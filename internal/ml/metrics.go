package ml

import (
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/outperform/internal/contracts"
)

// Accuracy is the share of equal labels; 0 for empty input
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	hits := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue))
}

// Report builds the per-class classification report. Ratios with a zero
// denominator are 0.
func Report(yTrue, yPred []int) contracts.ClassificationReport {
	var tp, fp, fn [2]int
	var support [2]int

	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		support[t]++
		if t == p {
			tp[t]++
		} else {
			fp[p]++
			fn[t]++
		}
	}

	report := contracts.ClassificationReport{
		Accuracy: Accuracy(yTrue, yPred),
		Total:    len(yTrue),
	}

	for c := 0; c < 2; c++ {
		precision := ratio(tp[c], tp[c]+fp[c])
		recall := ratio(tp[c], tp[c]+fn[c])
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		report.PerClass[c] = contracts.ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[c],
		}
	}

	for _, m := range report.PerClass {
		report.MacroAvg.Precision += m.Precision / 2
		report.MacroAvg.Recall += m.Recall / 2
		report.MacroAvg.F1 += m.F1 / 2

		if report.Total > 0 {
			w := float64(m.Support) / float64(report.Total)
			report.WeightedAvg.Precision += m.Precision * w
			report.WeightedAvg.Recall += m.Recall * w
			report.WeightedAvg.F1 += m.F1 * w
		}
	}
	report.MacroAvg.Support = report.Total
	report.WeightedAvg.Support = report.Total

	return report
}

// ROCAUC returns the area under the ROC curve of positive-class scores.
// ok is false when yTrue holds a single class.
func ROCAUC(yTrue []int, scores []float64) (auc float64, ok bool) {
	positives := 0
	for _, y := range yTrue {
		positives += y
	}
	if positives == 0 || positives == len(yTrue) {
		return 0, false
	}

	s := append([]float64(nil), scores...)
	classes := make([]bool, len(yTrue))
	for i, y := range yTrue {
		classes[i] = y == 1
	}

	stat.SortWeightedLabeled(s, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, s, classes, nil)

	return integrate.Trapezoidal(fpr, tpr), true
}

// Evaluate computes the headline metrics of a held-out prediction
func Evaluate(yTrue, yPred []int, proba []float64) contracts.EvaluationMetrics {
	report := Report(yTrue, yPred)

	metrics := contracts.EvaluationMetrics{
		Accuracy:       report.Accuracy,
		Precision:      report.PerClass[1].Precision,
		MacroPrecision: report.MacroAvg.Precision,
		MacroRecall:    report.MacroAvg.Recall,
		MacroF1:        report.MacroAvg.F1,
	}
	if auc, ok := ROCAUC(yTrue, proba); ok {
		metrics.ROCAUC = &auc
	}

	return metrics
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
