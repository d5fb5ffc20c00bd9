package ml

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/outperform/internal/contracts"
)

// KNN is a k-nearest-neighbours classifier with Euclidean distance and
// uniform votes. Equidistant neighbours are taken in training order.
type KNN struct {
	K int

	X     [][]float64
	y     []int
	width int
}

// NewKNN creates a KNN classifier with k neighbours
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit stores the training rows
func (m *KNN) Fit(X [][]float64, y []int) error {
	width, err := checkTraining(X, y)
	if err != nil {
		return err
	}
	if m.K < 1 || m.K > len(X) {
		return &contracts.PreconditionError{
			Stage:  contracts.StageModel,
			Field:  "neighbors",
			Reason: fmt.Sprintf("%d neighbours for %d training rows", m.K, len(X)),
		}
	}

	m.X = X
	m.y = y
	m.width = width
	return nil
}

// PredictProba returns the share of positive neighbours for each row
func (m *KNN) PredictProba(X [][]float64) ([]float64, error) {
	if m.X == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, m.width); err != nil {
		return nil, err
	}

	proba := make([]float64, len(X))
	order := make([]int, len(m.X))
	dist := make([]float64, len(m.X))

	for i, query := range X {
		for j, row := range m.X {
			order[j] = j
			dist[j] = floats.Distance(query, row, 2)
		}
		sort.SliceStable(order, func(a, b int) bool {
			return dist[order[a]] < dist[order[b]]
		})

		positives := 0
		for _, j := range order[:m.K] {
			positives += m.y[j]
		}
		proba[i] = float64(positives) / float64(m.K)
	}

	return proba, nil
}

// Predict returns 1 when more than half of the neighbours are positive
func (m *KNN) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return threshold(proba), nil
}
