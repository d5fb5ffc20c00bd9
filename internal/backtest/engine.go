package backtest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/pkg/logger"
)

// LeakageCaveat is printed with every backtest summary
const LeakageCaveat = "held-out rows are a random sample of time-ordered data: " +
	"the model has seen later periods, so these returns overstate live performance"

// NoStocksPredicted is the reason carried when no row is predicted positive
const NoStocksPredicted = "no stocks predicted"

// Engine summarizes held-out predictions as an investment strategy
// ⭐ SSOT: 백테스트 요약은 여기서만
type Engine struct {
	logger *logger.Logger
}

// Summary compares the returns of the rows predicted to outperform.
// Returns are percent; Outperformance is in percentage points.
type Summary struct {
	Trades             int     `json:"trades"`
	StockReturnPct     float64 `json:"stock_return_pct"`
	BenchmarkReturnPct float64 `json:"benchmark_return_pct"`
	OutperformancePct  float64 `json:"outperformance_pct"`
}

// Rounded returns the three returns at one decimal place
func (s Summary) Rounded() (stock, benchmark, outperformance decimal.Decimal) {
	return decimal.NewFromFloat(s.StockReturnPct).Round(1),
		decimal.NewFromFloat(s.BenchmarkReturnPct).Round(1),
		decimal.NewFromFloat(s.OutperformancePct).Round(1)
}

// NewEngine creates a new backtest engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Run summarizes predictions against the aligned returns and logs the outcome
func (e *Engine) Run(returns [][2]float64, predictions []int) (*Summary, error) {
	summary, err := Summarize(returns, predictions)
	if err != nil {
		if summary != nil {
			e.logger.WithField("rows", len(returns)).Warn(NoStocksPredicted)
		}
		return summary, err
	}

	stock, bench, out := summary.Rounded()
	e.logger.WithFields(map[string]interface{}{
		"rows":           len(returns),
		"trades":         summary.Trades,
		"stock_pct":      stock.String(),
		"benchmark_pct":  bench.String(),
		"outperform_pct": out.String(),
	}).Info("Backtest completed")

	return summary, nil
}

// Summarize averages stock and benchmark returns over rows predicted 1.
// With no positive prediction it returns a zero-trade summary together
// with an EmptyDatasetError; no average is computed.
func Summarize(returns [][2]float64, predictions []int) (*Summary, error) {
	if len(returns) != len(predictions) {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageBacktest,
			Field:  "predictions",
			Reason: fmt.Sprintf("length mismatch: returns=%d predictions=%d", len(returns), len(predictions)),
		}
	}

	stockSum, benchSum := decimal.Zero, decimal.Zero
	trades := 0
	for i, p := range predictions {
		if p != 1 {
			continue
		}
		trades++
		stockSum = stockSum.Add(decimal.NewFromFloat(returns[i][contracts.ReturnStock]))
		benchSum = benchSum.Add(decimal.NewFromFloat(returns[i][contracts.ReturnBenchmark]))
	}

	if trades == 0 {
		return &Summary{}, &contracts.EmptyDatasetError{Stage: contracts.StageBacktest, Reason: NoStocksPredicted}
	}

	n := decimal.NewFromInt(int64(trades))
	stock := stockSum.Div(n)
	bench := benchSum.Div(n)

	return &Summary{
		Trades:             trades,
		StockReturnPct:     stock.InexactFloat64(),
		BenchmarkReturnPct: bench.InexactFloat64(),
		OutperformancePct:  stock.Sub(bench).InexactFloat64(),
	}, nil
}
