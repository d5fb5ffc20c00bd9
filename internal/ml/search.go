package ml

import (
	"fmt"

	"github.com/wonny/outperform/internal/contracts"
)

// Factory builds a fresh pipeline for one grid value
type Factory func(param float64) (*Pipeline, error)

// SearchResult is the outcome of a grid search
type SearchResult struct {
	Best     float64   `json:"best"`
	Scores   []float64 `json:"scores"` // mean fold accuracy, grid order
	Pipeline *Pipeline `json:"-"`      // best candidate refit on all rows
}

// GridSearch scores every grid value by mean stratified k-fold accuracy on
// X, y and refits the best one on all of X, y. Ties keep the earlier value.
// onFold, if not nil, is called after every fold.
func GridSearch(factory Factory, grid []float64, X [][]float64, y []int, folds int, onFold func()) (*SearchResult, error) {
	if len(grid) == 0 {
		return nil, &contracts.PreconditionError{Stage: contracts.StageModel, Field: "grid", Reason: "empty"}
	}
	if _, err := checkTraining(X, y); err != nil {
		return nil, err
	}

	tests, err := StratifiedKFold(y, folds)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Scores: make([]float64, len(grid))}
	bestIdx := -1

	for g, param := range grid {
		total := 0.0
		for f, test := range tests {
			train := complement(len(y), test)

			p, err := factory(param)
			if err != nil {
				return nil, err
			}
			if err := p.Fit(pick(X, train), pickInt(y, train)); err != nil {
				return nil, fmt.Errorf("grid value %v fold %d: %w", param, f+1, err)
			}
			pred, err := p.Predict(pick(X, test))
			if err != nil {
				return nil, fmt.Errorf("grid value %v fold %d: %w", param, f+1, err)
			}
			total += Accuracy(pickInt(y, test), pred)

			if onFold != nil {
				onFold()
			}
		}

		result.Scores[g] = total / float64(len(tests))
		if bestIdx < 0 || result.Scores[g] > result.Scores[bestIdx] {
			bestIdx = g
		}
	}

	result.Best = grid[bestIdx]
	best, err := factory(result.Best)
	if err != nil {
		return nil, err
	}
	if err := best.Fit(X, y); err != nil {
		return nil, fmt.Errorf("refit grid value %v: %w", result.Best, err)
	}
	result.Pipeline = best

	return result, nil
}

func pick(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func pickInt(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
