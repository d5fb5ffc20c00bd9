package selection

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/s0_data"
	"github.com/wonny/outperform/internal/s1_dataset"
	"github.com/wonny/outperform/pkg/logger"
)

// betaModel predicts 1 when Beta > 1
type betaModel struct{}

func (betaModel) PredictProba(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = x[0] / 2
	}
	return out, nil
}

func (m betaModel) Predict(X [][]float64) ([]int, error) {
	proba, _ := m.PredictProba(X)
	out := make([]int, len(X))
	for i, p := range proba {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

func table(t *testing.T, name, csv string) *contracts.Table {
	t.Helper()
	tbl, err := s0_data.ReadCSVFrom(strings.NewReader(csv), name)
	require.NoError(t, err)
	return tbl
}

func newSelector() *Selector {
	builder := s1_dataset.NewBuilder(s1_dataset.Config{Features: []string{"Beta"}}, zerolog.Nop())
	return NewSelector(builder, logger.Nop())
}

func TestSelector_Select(t *testing.T) {
	tables := []*contracts.Table{
		table(t, "a.csv", "Date,Ticker,Beta,stock_p_change,SP500_p_change\n"+
			"2024-05-01,AAPL,1.2,N/A,N/A\n"+
			"2024-05-01,KO,0.6,N/A,N/A\n"+
			"2024-05-01,NVDA,1.8,N/A,N/A\n"),
		table(t, "b.csv", "Date,Ticker,Beta\n2024-05-01,XOM,N/A\n"),
		table(t, "c.csv", "Date,Ticker,Beta\n2024-05-02,TSLA,1.5\n2024-05-02,,1.9\n"),
	}

	selection, err := newSelector().Select(context.Background(), betaModel{}, tables)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "NVDA", "TSLA"}, selection.Tickers())
	assert.Equal(t, 3, selection.Tables)
	assert.Equal(t, 4, selection.Rows)
	assert.Equal(t, []string{"b.csv"}, selection.Skipped)
	assert.False(t, selection.Empty())

	ranked := selection.Ranked()
	assert.Equal(t, "NVDA", ranked[0].Ticker)
	assert.Equal(t, "TSLA", ranked[1].Ticker)
	assert.Equal(t, "c.csv", ranked[1].Source)
}

func TestSelector_SelectNone(t *testing.T) {
	tables := []*contracts.Table{
		table(t, "a.csv", "Ticker,Beta\nKO,0.5\nPG,0.4\n"),
	}

	selection, err := newSelector().Select(context.Background(), betaModel{}, tables)
	require.NoError(t, err)
	assert.True(t, selection.Empty())
	assert.Empty(t, selection.Tickers())
}

func TestSelector_SelectUnknownFeature(t *testing.T) {
	tables := []*contracts.Table{
		table(t, "a.csv", "Ticker,Float\nKO,100\n"),
	}

	_, err := newSelector().Select(context.Background(), betaModel{}, tables)
	assert.True(t, contracts.IsPrecondition(err))
}
