package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/outperform/internal/backtest"
	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/modelconfig"
	"github.com/wonny/outperform/internal/s2_model"
)

func TestNewRunRecord(t *testing.T) {
	cfg := modelconfig.Default()
	cfg.Model.Type = modelconfig.ModelRandomForest

	a, err := NewRunRecord("train", cfg)
	require.NoError(t, err)
	b, err := NewRunRecord("train", cfg)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.ConfigHash, b.ConfigHash)
	assert.Len(t, a.ConfigHash, 64)
	assert.Equal(t, modelconfig.ModelRandomForest, a.ModelType)
	assert.Equal(t, 10.0, a.Margin)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestRunRecord_Setters(t *testing.T) {
	rec, err := NewRunRecord("backtest", modelconfig.Default())
	require.NoError(t, err)

	rec.SetTraining(120, &s2_model.Result{
		TrainRows: 96,
		TestRows:  24,
		Metrics:   contracts.EvaluationMetrics{Accuracy: 0.75},
	})
	rec.SetBacktest(&backtest.Summary{Trades: 3, OutperformancePct: 6.3})
	rec.SetBacktest(nil)

	assert.Equal(t, 120, rec.Rows)
	assert.Equal(t, 96, rec.TrainRows)
	assert.Equal(t, 24, rec.TestRows)
	require.NotNil(t, rec.Metrics)
	assert.Equal(t, 0.75, rec.Metrics.Accuracy)
	require.NotNil(t, rec.Backtest)
	assert.Equal(t, 3, rec.Backtest.Trades)
}

func TestAnalyze(t *testing.T) {
	knnBest := uuid.New()
	records := []RunRecord{
		{RunID: uuid.New(), ModelType: "knn", Metrics: &contracts.EvaluationMetrics{Accuracy: 0.6, MacroF1: 0.5},
			Backtest: &backtest.Summary{Trades: 2, OutperformancePct: 4}},
		{RunID: knnBest, ModelType: "knn", Metrics: &contracts.EvaluationMetrics{Accuracy: 0.8, MacroF1: 0.7},
			Backtest: &backtest.Summary{Trades: 0}},
		{RunID: uuid.New(), ModelType: "knn"},
		{RunID: uuid.New(), ModelType: "random_forest", Metrics: &contracts.EvaluationMetrics{Accuracy: 0.9}},
	}

	stats := Analyze(records)
	require.Len(t, stats, 2)

	knn := stats[0]
	assert.Equal(t, "knn", knn.ModelType)
	assert.Equal(t, 3, knn.Runs)
	assert.Equal(t, 2, knn.Evaluated)
	assert.InDelta(t, 0.7, knn.MeanAccuracy, 1e-12)
	assert.InDelta(t, 0.6, knn.MeanMacroF1, 1e-12)
	assert.Equal(t, 1, knn.Backtests)
	assert.InDelta(t, 4.0, knn.MeanOutperformance, 1e-12)
	assert.Equal(t, knnBest.String(), knn.BestRunID)

	assert.Equal(t, "random_forest", stats[1].ModelType)
	assert.Equal(t, 0, stats[1].Backtests)
}

func TestAnalyze_Empty(t *testing.T) {
	assert.Empty(t, Analyze(nil))
}
