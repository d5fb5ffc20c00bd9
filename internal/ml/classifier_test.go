package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/outperform/internal/contracts"
)

func TestKNN(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {10}, {11}, {12}}
	y := []int{0, 0, 0, 1, 1, 1}

	m := NewKNN(3)
	require.NoError(t, m.Fit(X, y))

	proba, err := m.PredictProba([][]float64{{0.5}, {11}, {6}})
	require.NoError(t, err)
	// {6}: distances 4,4 then 5,5; ties keep training order -> rows 2,3,1
	assert.InDeltaSlice(t, []float64{0, 1, 1.0 / 3}, proba, 1e-12)

	pred, err := m.Predict([][]float64{{0.5}, {11}, {6}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, pred)
}

func TestKNN_Errors(t *testing.T) {
	err := NewKNN(5).Fit([][]float64{{0}, {1}}, []int{0, 1})
	assert.True(t, contracts.IsPrecondition(err))

	_, err = NewKNN(1).Predict([][]float64{{0}})
	assert.ErrorIs(t, err, ErrNotFitted)

	m := NewKNN(1)
	require.NoError(t, m.Fit([][]float64{{0}, {1}}, []int{0, 1}))
	_, err = m.Predict([][]float64{{0, 1}})
	assert.True(t, contracts.IsPrecondition(err))
}

func TestRandomForest(t *testing.T) {
	X, y := clusters(10)
	params := DefaultRandomForestParams()
	params.Trees = 25

	m := NewRandomForest(params)
	require.NoError(t, m.Fit(X, y))

	pred, err := m.Predict([][]float64{{5, 1}, {105, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, pred)

	// same seed, same forest
	other := NewRandomForest(params)
	require.NoError(t, other.Fit(X, y))

	query := [][]float64{{50, 0}, {60, 2}, {3, 1}}
	a, err := m.PredictProba(query)
	require.NoError(t, err)
	b, err := other.PredictProba(query)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, p := range a {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestRandomForest_MaxDepth(t *testing.T) {
	X, y := clusters(10)
	m := NewRandomForest(RandomForestParams{Trees: 5, MaxDepth: 1, MinSamplesSplit: 2})
	require.NoError(t, m.Fit(X, y))

	for _, tr := range m.trees {
		assert.LessOrEqual(t, len(tr), 3, "depth 1 tree has at most a root and two leaves")
	}
}

func TestRandomForest_Errors(t *testing.T) {
	err := NewRandomForest(RandomForestParams{Trees: 0}).Fit([][]float64{{0}}, []int{0})
	assert.True(t, contracts.IsPrecondition(err))

	_, err = NewRandomForest(DefaultRandomForestParams()).PredictProba([][]float64{{0}})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestLogisticRegression_SymmetricSolution(t *testing.T) {
	m := NewLogisticRegression(DefaultLogisticParams())
	require.NoError(t, m.Fit([][]float64{{-1}, {1}}, []int{0, 1}))

	// stationary point of w = 2 * sigmoid(-w), intercept 0 by symmetry
	assert.True(t, m.Converged)
	assert.InDelta(t, 0.0, m.Intercept, 1e-6)
	require.Len(t, m.Coef, 1)
	assert.InDelta(t, 0.6749, m.Coef[0], 1e-3)
}

func TestLogisticRegression(t *testing.T) {
	X, y := clusters(8)
	p := NewPipeline(NewLogisticRegression(DefaultLogisticParams()))
	require.NoError(t, p.Fit(X, y))

	pred, err := p.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	proba, err := p.PredictProba([][]float64{{0, 0}, {50, 1}, {110, 0}})
	require.NoError(t, err)
	assert.Less(t, proba[0], proba[1])
	assert.Less(t, proba[1], proba[2])
}

func TestLogisticRegression_Errors(t *testing.T) {
	err := NewLogisticRegression(DefaultLogisticParams()).Fit([][]float64{{0}, {1}}, []int{1, 1})
	assert.True(t, contracts.IsPrecondition(err))

	err = NewLogisticRegression(LogisticParams{C: 0}).Fit([][]float64{{0}, {1}}, []int{0, 1})
	assert.True(t, contracts.IsPrecondition(err))

	_, err = NewLogisticRegression(DefaultLogisticParams()).Predict([][]float64{{0}})
	assert.ErrorIs(t, err, ErrNotFitted)
}
