package ml

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/outperform/internal/contracts"
)

// ErrScalerRefit is returned when a fitted scaler is fit again
var ErrScalerRefit = errors.New("scaler is already fitted")

// StandardScaler centers each feature on its mean and divides by its
// population standard deviation. Constant features are only centered.
type StandardScaler struct {
	mean  []float64
	scale []float64
	fits  int
}

// NewStandardScaler creates an unfitted scaler
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit learns per-feature moments. A scaler can be fit once.
func (s *StandardScaler) Fit(X [][]float64) error {
	if s.fits > 0 {
		return ErrScalerRefit
	}
	if len(X) == 0 {
		return &contracts.EmptyDatasetError{Stage: contracts.StageModel, Reason: "scaler has no rows to fit"}
	}

	width := len(X[0])
	if err := checkWidth(X, width); err != nil {
		return err
	}

	s.mean = make([]float64, width)
	s.scale = make([]float64, width)

	column := make([]float64, len(X))
	for j := 0; j < width; j++ {
		for i, row := range X {
			column[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		s.mean[j] = mean
		s.scale[j] = std
		if std == 0 {
			s.scale[j] = 1
		}
	}

	s.fits++
	return nil
}

// Fits returns how many times Fit succeeded (0 or 1)
func (s *StandardScaler) Fits() int {
	return s.fits
}

// Transform returns a scaled copy of X
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.fits == 0 {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(s.mean)); err != nil {
		return nil, err
	}

	out := make([][]float64, len(X))
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.mean[j]) / s.scale[j]
		}
		out[i] = scaled
	}

	return out, nil
}
