package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/wonny/outperform/internal/contracts"
)

// LogisticParams configures a LogisticRegression
type LogisticParams struct {
	C       float64 // inverse L2 strength, 1.0
	MaxIter int     // 1000
	Tol     float64 // gradient max-norm, 1e-6
}

// DefaultLogisticParams returns the standard solver settings
func DefaultLogisticParams() LogisticParams {
	return LogisticParams{C: 1.0, MaxIter: 1000, Tol: 1e-6}
}

// LogisticRegression is an L2-penalised logistic model fit by damped
// Newton steps. The intercept is not penalised.
type LogisticRegression struct {
	Params LogisticParams

	Intercept  float64
	Coef       []float64
	Iterations int
	Converged  bool

	fitted bool
}

// NewLogisticRegression creates an unfitted model
func NewLogisticRegression(params LogisticParams) *LogisticRegression {
	return &LogisticRegression{Params: params}
}

// Fit minimises sum(logloss) + ||coef||^2 / (2C)
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	width, err := checkTraining(X, y)
	if err != nil {
		return err
	}
	if m.Params.C <= 0 || math.IsNaN(m.Params.C) || math.IsInf(m.Params.C, 0) {
		return &contracts.PreconditionError{
			Stage:  contracts.StageModel,
			Field:  "C",
			Reason: fmt.Sprintf("must be a positive number, got %v", m.Params.C),
		}
	}

	positives := 0
	for _, label := range y {
		positives += label
	}
	if positives == 0 || positives == len(y) {
		return &contracts.PreconditionError{
			Stage:  contracts.StageModel,
			Field:  "y",
			Reason: "training labels contain a single class",
		}
	}

	maxIter := m.Params.MaxIter
	if maxIter < 1 {
		maxIter = 1000
	}
	tol := m.Params.Tol
	if tol <= 0 {
		tol = 1e-6
	}

	d := width + 1
	lambda := 1 / m.Params.C

	// design rows with a leading 1 for the intercept
	rows := make([][]float64, len(X))
	for i, x := range X {
		a := make([]float64, d)
		a[0] = 1
		copy(a[1:], x)
		rows[i] = a
	}
	target := make([]float64, len(y))
	for i, label := range y {
		target[i] = float64(label)
	}

	theta := make([]float64, d)
	grad := make([]float64, d)
	trial := make([]float64, d)
	step := mat.NewVecDense(d, nil)

	m.Converged = false
	for m.Iterations = 0; m.Iterations < maxIter; m.Iterations++ {
		hess := mat.NewSymDense(d, nil)
		for j := range grad {
			grad[j] = 0
		}

		for i, a := range rows {
			p := sigmoid(floats.Dot(theta, a))
			floats.AddScaled(grad, p-target[i], a)
			hess.SymRankOne(hess, p*(1-p), mat.NewVecDense(d, a))
		}
		for j := 1; j < d; j++ {
			grad[j] += lambda * theta[j]
			hess.SetSym(j, j, hess.At(j, j)+lambda)
		}

		if floats.Norm(grad, math.Inf(1)) <= tol {
			m.Converged = true
			break
		}

		if err := newtonStep(hess, grad, step); err != nil {
			return fmt.Errorf("logistic regression: %w", err)
		}

		// backtracking on the penalised objective
		current := objective(rows, target, theta, lambda)
		slope := floats.Dot(grad, step.RawVector().Data)
		t := 1.0
		for ; t > 1e-10; t /= 2 {
			floats.AddScaledTo(trial, theta, t, step.RawVector().Data)
			if objective(rows, target, trial, lambda) <= current+1e-4*t*slope {
				break
			}
		}
		copy(theta, trial)

		if t*floats.Norm(step.RawVector().Data, math.Inf(1)) <= tol {
			m.Converged = true
			m.Iterations++
			break
		}
	}

	m.Intercept = theta[0]
	m.Coef = append([]float64(nil), theta[1:]...)
	m.fitted = true
	return nil
}

// newtonStep solves hess * step = -grad, adding a tiny ridge if needed
func newtonStep(hess *mat.SymDense, grad []float64, step *mat.VecDense) error {
	g := mat.NewVecDense(len(grad), nil)
	g.ScaleVec(-1, mat.NewVecDense(len(grad), grad))

	var chol mat.Cholesky
	for ridge := 0.0; ridge <= 1e-2; ridge = math.Max(ridge*100, 1e-10) {
		h := hess
		if ridge > 0 {
			h = mat.NewSymDense(hess.SymmetricDim(), nil)
			h.CopySym(hess)
			for j := 0; j < h.SymmetricDim(); j++ {
				h.SetSym(j, j, h.At(j, j)+ridge)
			}
		}
		if chol.Factorize(h) {
			return chol.SolveVecTo(step, g)
		}
	}

	return fmt.Errorf("hessian is not positive definite")
}

// objective is the penalised negative log-likelihood
func objective(rows [][]float64, target, theta []float64, lambda float64) float64 {
	loss := 0.0
	for i, a := range rows {
		z := floats.Dot(theta, a)
		loss += softplus(z) - target[i]*z
	}
	penalty := floats.Dot(theta[1:], theta[1:])
	return loss + 0.5*lambda*penalty
}

// PredictProba returns sigmoid(intercept + coef·x)
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(m.Coef)); err != nil {
		return nil, err
	}

	proba := make([]float64, len(X))
	for i, x := range X {
		proba[i] = sigmoid(m.Intercept + floats.Dot(m.Coef, x))
	}
	return proba, nil
}

// Predict returns 1 when the probability exceeds one half
func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return threshold(proba), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1 + e^z) without overflow
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}
