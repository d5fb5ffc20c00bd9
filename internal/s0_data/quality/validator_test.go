package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/outperform/internal/contracts"
)

func buildTable(t *testing.T, rows [][]*float64) *contracts.Table {
	t.Helper()
	table, err := contracts.NewTable("mem.csv", []string{
		contracts.ColumnStockChange, contracts.ColumnBenchmarkChange, "Beta", "Float",
	})
	require.NoError(t, err)

	for i, r := range rows {
		obs := contracts.Observation{Line: i + 2, Cells: make([]contracts.Cell, len(r))}
		for j, v := range r {
			if v != nil {
				obs.Cells[j] = contracts.Cell{Value: *v, Present: true}
			}
		}
		require.NoError(t, table.Append(obs))
	}
	return table
}

func f(v float64) *float64 { return &v }

func TestGate_Check(t *testing.T) {
	table := buildTable(t, [][]*float64{
		{f(10), f(2), f(1.1), f(100)},
		{f(3), f(1), nil, f(200)},
		{f(-5), f(4), nil, nil},
		{f(20), f(0), f(0.9), f(50)},
	})

	gate := NewGate(DefaultConfig())
	snapshot, err := gate.Check(table, []string{"Beta", "Float"})
	require.NoError(t, err)

	assert.Equal(t, 4, snapshot.TotalRows)
	assert.Equal(t, 2, snapshot.CompleteRows)
	assert.InDelta(t, 1.0, snapshot.Coverage[contracts.ColumnStockChange], 1e-9)
	assert.InDelta(t, 0.5, snapshot.Coverage["Beta"], 1e-9)
	assert.InDelta(t, 0.75, snapshot.Coverage["Float"], 1e-9)

	// 0.25 + 0.25 + 0.5 * (0.5 + 0.75) / 2
	assert.InDelta(t, 0.8125, snapshot.Score, 1e-9)
	assert.True(t, snapshot.Passed)
	assert.Equal(t, []string{"Beta", "Float"}, snapshot.Weakest(2))
}

func TestGate_CheckUnknownColumn(t *testing.T) {
	table := buildTable(t, [][]*float64{{f(1), f(1), f(1), f(1)}})

	_, err := NewGate(DefaultConfig()).Check(table, []string{"PEG Ratio"})
	require.Error(t, err)
	assert.True(t, contracts.IsPrecondition(err))
}

func TestGate_CheckEmptyTable(t *testing.T) {
	table := buildTable(t, nil)

	_, err := NewGate(DefaultConfig()).Check(table, []string{"Beta"})
	require.Error(t, err)
	assert.True(t, contracts.IsEmptyDataset(err))
}

func TestGate_calculateScore(t *testing.T) {
	gate := &Gate{config: Config{}}

	tests := []struct {
		name     string
		coverage map[string]float64
		wantMin  float64
		wantMax  float64
	}{
		{
			name: "perfect coverage",
			coverage: map[string]float64{
				contracts.ColumnStockChange: 1.0, contracts.ColumnBenchmarkChange: 1.0,
				"Beta": 1.0, "Float": 1.0,
			},
			wantMin: 0.99,
			wantMax: 1.01,
		},
		{
			name: "sparse features",
			coverage: map[string]float64{
				contracts.ColumnStockChange: 1.0, contracts.ColumnBenchmarkChange: 1.0,
				"Beta": 0.2, "Float": 0.0,
			},
			wantMin: 0.54,
			wantMax: 0.56,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := gate.calculateScore(tt.coverage, []string{"Beta", "Float"})
			assert.GreaterOrEqual(t, score, tt.wantMin)
			assert.LessOrEqual(t, score, tt.wantMax)
		})
	}
}
