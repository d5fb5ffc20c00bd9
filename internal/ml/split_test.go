package ml

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/outperform/internal/contracts"
)

func TestTrainTestSplit(t *testing.T) {
	split, err := TrainTestSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, split.Test, 2)
	assert.Len(t, split.Train, 8)

	all := append(append([]int(nil), split.Train...), split.Test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	again, err := TrainTestSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, split, again)
}

func TestTrainTestSplit_Floor(t *testing.T) {
	split, err := TrainTestSplit(9, 0.25, 1)
	require.NoError(t, err)
	assert.Len(t, split.Test, 2)
	assert.Len(t, split.Train, 7)
}

func TestTrainTestSplit_TooSmall(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		_, err := TrainTestSplit(n, 0.2, 42)
		require.Error(t, err, "n=%d", n)
		assert.True(t, contracts.IsEmptyDataset(err))
	}
}

func TestTrainTestSplit_InvalidSize(t *testing.T) {
	for _, size := range []float64{0, 1, -0.1, 1.5} {
		_, err := TrainTestSplit(100, size, 42)
		assert.True(t, contracts.IsPrecondition(err), "test_size=%v", size)
	}
}

func TestStratifiedKFold(t *testing.T) {
	y := []int{0, 1, 0, 1, 1, 0, 1, 0, 1, 1}

	folds, err := StratifiedKFold(y, 2)
	require.NoError(t, err)
	require.Len(t, folds, 2)

	for _, fold := range folds {
		pos := 0
		for _, i := range fold {
			pos += y[i]
		}
		assert.Len(t, fold, 5)
		assert.Equal(t, 3, pos)
	}

	_, err = StratifiedKFold(y, 1)
	assert.True(t, contracts.IsPrecondition(err))
	_, err = StratifiedKFold(y, 11)
	assert.True(t, contracts.IsPrecondition(err))
}

func TestGridSearch(t *testing.T) {
	X, y := clusters(6)
	factory := func(k float64) (*Pipeline, error) { return NewPipeline(NewKNN(int(k))), nil }

	calls := 0
	result, err := GridSearch(factory, []float64{1, 3}, X, y, 3, func() { calls++ })
	require.NoError(t, err)

	assert.Equal(t, 6, calls)
	assert.Equal(t, []float64{1, 1}, result.Scores)
	assert.Equal(t, 1.0, result.Best, "ties keep the first grid value")
	assert.Equal(t, 1, result.Pipeline.Scaler.Fits())
}

func TestGridSearch_PicksBest(t *testing.T) {
	// with 7 neighbours every fold is outvoted by the majority class
	X := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {100}, {101}, {102}}
	y := []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1}
	factory := func(k float64) (*Pipeline, error) { return NewPipeline(NewKNN(int(k))), nil }

	result, err := GridSearch(factory, []float64{7, 1}, X, y, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Best)
	assert.Greater(t, result.Scores[1], result.Scores[0])
}

func TestGridSearch_EmptyGrid(t *testing.T) {
	X, y := clusters(3)
	_, err := GridSearch(nil, nil, X, y, 2, nil)
	assert.True(t, contracts.IsPrecondition(err))
}
