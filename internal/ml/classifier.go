// Package ml holds the learning primitives of the model stage: feature
// scaling, the three classifiers, partitioning, grid search and metrics.
package ml

import (
	"errors"
	"fmt"

	"github.com/wonny/outperform/internal/contracts"
)

// ErrNotFitted is returned when predicting with an unfitted estimator
var ErrNotFitted = errors.New("estimator is not fitted")

// Classifier is a binary classifier over dense feature rows.
// PredictProba returns the probability of the positive class (label 1).
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) ([]int, error)
	PredictProba(X [][]float64) ([]float64, error)
}

// checkTraining validates a training set shape
func checkTraining(X [][]float64, y []int) (int, error) {
	if len(X) == 0 {
		return 0, &contracts.EmptyDatasetError{Stage: contracts.StageModel, Reason: "no training rows"}
	}
	if len(X) != len(y) {
		return 0, &contracts.PreconditionError{
			Stage:  contracts.StageModel,
			Field:  "y",
			Reason: fmt.Sprintf("length mismatch: X=%d y=%d", len(X), len(y)),
		}
	}

	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return 0, &contracts.PreconditionError{
				Stage:  contracts.StageModel,
				Field:  "X",
				Reason: fmt.Sprintf("row %d has %d features, want %d", i, len(row), width),
			}
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return 0, &contracts.PreconditionError{
				Stage:  contracts.StageModel,
				Field:  "y",
				Reason: fmt.Sprintf("row %d: label %d is not binary", i, label),
			}
		}
	}

	return width, nil
}

// checkWidth validates prediction rows against the fitted width
func checkWidth(X [][]float64, width int) error {
	for i, row := range X {
		if len(row) != width {
			return &contracts.PreconditionError{
				Stage:  contracts.StageModel,
				Field:  "X",
				Reason: fmt.Sprintf("row %d has %d features, model was fit on %d", i, len(row), width),
			}
		}
	}
	return nil
}

// threshold turns positive-class probabilities into labels
func threshold(proba []float64) []int {
	labels := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			labels[i] = 1
		}
	}
	return labels
}
