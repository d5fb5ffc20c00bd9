package s1_dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/outperform/internal/contracts"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name      string
		stock     []float64
		benchmark []float64
		margin    float64
		want      []int
	}{
		{
			name:      "margin 10",
			stock:     []float64{20, 5, -3},
			benchmark: []float64{5, 5, 5},
			margin:    10,
			want:      []int{1, 0, 0},
		},
		{
			name:      "difference equal to margin is not outperformance",
			stock:     []float64{15, 15.0001},
			benchmark: []float64{5, 5},
			margin:    10,
			want:      []int{0, 1},
		},
		{
			name:      "negative margin",
			stock:     []float64{-2, -8},
			benchmark: []float64{0, 0},
			margin:    -5,
			want:      []int{1, 0},
		},
		{
			name:      "empty input",
			stock:     []float64{},
			benchmark: []float64{},
			margin:    10,
			want:      []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Label(tt.stock, tt.benchmark, tt.margin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabel_Preconditions(t *testing.T) {
	_, err := Label([]float64{1, 2}, []float64{1}, 10)
	assert.True(t, contracts.IsPrecondition(err))

	_, err = Label([]float64{math.NaN()}, []float64{1}, 10)
	assert.True(t, contracts.IsPrecondition(err))

	_, err = Label([]float64{1}, []float64{math.Inf(1)}, 10)
	assert.True(t, contracts.IsPrecondition(err))

	_, err = Label([]float64{1}, []float64{1}, math.NaN())
	assert.True(t, contracts.IsPrecondition(err))
}
