package backtest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/outperform/internal/contracts"
)

// RiskConfig controls the tail and bootstrap statistics of trade excess returns
type RiskConfig struct {
	Confidence float64 // 예: 0.95
	Resamples  int     // bootstrap resamples of the mean, 0 = none
	Seed       int64
}

// DefaultRiskConfig returns 95% confidence with 1000 resamples
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{Confidence: 0.95, Resamples: 1000, Seed: 42}
}

// Risk describes the distribution of per-trade excess returns
// (stock minus S&P 500, in percentage points). Losses are positive.
type Risk struct {
	Confidence float64 `json:"confidence"`
	VaR        float64 `json:"var_pct"`
	CVaR       float64 `json:"cvar_pct"`
	Worst      float64 `json:"worst_pct"`
	Best       float64 `json:"best_pct"`
	HitRate    float64 `json:"hit_rate"` // share of trades that beat the benchmark
	MeanLow    float64 `json:"mean_low_pct"`
	MeanHigh   float64 `json:"mean_high_pct"`
	Resamples  int     `json:"resamples"`
}

// ExcessReturns returns stock minus benchmark return for each row predicted 1
func ExcessReturns(returns [][2]float64, predictions []int) ([]float64, error) {
	if len(returns) != len(predictions) {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageBacktest,
			Field:  "predictions",
			Reason: fmt.Sprintf("length mismatch: returns=%d predictions=%d", len(returns), len(predictions)),
		}
	}

	excess := make([]float64, 0, len(returns))
	for i, p := range predictions {
		if p == 1 {
			excess = append(excess, returns[i][contracts.ReturnStock]-returns[i][contracts.ReturnBenchmark])
		}
	}
	return excess, nil
}

// AnalyzeRisk computes historical VaR/CVaR of the excess returns and a
// seeded bootstrap interval for their mean at cfg.Confidence
func AnalyzeRisk(excess []float64, cfg RiskConfig) (*Risk, error) {
	if cfg.Confidence <= 0 || cfg.Confidence >= 1 {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageBacktest,
			Field:  "confidence",
			Reason: fmt.Sprintf("must be in (0, 1), got %g", cfg.Confidence),
		}
	}
	if cfg.Resamples < 0 {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageBacktest,
			Field:  "resamples",
			Reason: fmt.Sprintf("must be >= 0, got %d", cfg.Resamples),
		}
	}
	n := len(excess)
	if n == 0 {
		return nil, &contracts.EmptyDatasetError{Stage: contracts.StageBacktest, Reason: NoStocksPredicted}
	}

	// 오름차순: 손실이 앞에
	sorted := append([]float64(nil), excess...)
	sort.Float64s(sorted)

	idx := int(math.Floor((1 - cfg.Confidence) * float64(n)))
	if idx >= n {
		idx = n - 1
	}

	hits := 0
	for _, v := range excess {
		if v > 0 {
			hits++
		}
	}

	r := &Risk{
		Confidence: cfg.Confidence,
		VaR:        math.Max(0, -sorted[idx]),
		CVaR:       math.Max(0, -stat.Mean(sorted[:idx+1], nil)),
		Worst:      sorted[0],
		Best:       sorted[n-1],
		HitRate:    float64(hits) / float64(n),
		Resamples:  cfg.Resamples,
	}

	if cfg.Resamples == 0 {
		r.MeanLow = stat.Mean(excess, nil)
		r.MeanHigh = r.MeanLow
		return r, nil
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	means := make([]float64, cfg.Resamples)
	draw := make([]float64, n)
	for i := range means {
		for j := range draw {
			draw[j] = excess[rng.Intn(n)]
		}
		means[i] = floats.Sum(draw) / float64(n)
	}
	sort.Float64s(means)

	alpha := (1 - cfg.Confidence) / 2
	r.MeanLow = stat.Quantile(alpha, stat.Empirical, means, nil)
	r.MeanHigh = stat.Quantile(1-alpha, stat.Empirical, means, nil)

	return r, nil
}
