package audit

import (
	"sort"
)

// ModelStats aggregates audited runs of one model type
type ModelStats struct {
	ModelType          string  `json:"model_type"`
	Runs               int     `json:"runs"`
	Evaluated          int     `json:"evaluated"`
	MeanAccuracy       float64 `json:"mean_accuracy"`
	MeanMacroF1        float64 `json:"mean_macro_f1"`
	Backtests          int     `json:"backtests"`
	MeanOutperformance float64 `json:"mean_outperformance_pct"`
	BestRunID          string  `json:"best_run_id,omitempty"` // highest accuracy
}

// Analyze groups runs by model type, sorted by type name
func Analyze(records []RunRecord) []ModelStats {
	byType := make(map[string]*ModelStats)
	bestAcc := make(map[string]float64)

	for _, rec := range records {
		s, ok := byType[rec.ModelType]
		if !ok {
			s = &ModelStats{ModelType: rec.ModelType}
			byType[rec.ModelType] = s
		}
		s.Runs++

		if rec.Metrics != nil {
			s.Evaluated++
			s.MeanAccuracy += rec.Metrics.Accuracy
			s.MeanMacroF1 += rec.Metrics.MacroF1
			if s.BestRunID == "" || rec.Metrics.Accuracy > bestAcc[rec.ModelType] {
				bestAcc[rec.ModelType] = rec.Metrics.Accuracy
				s.BestRunID = rec.RunID.String()
			}
		}
		// 0건 백테스트는 평균에서 제외
		if rec.Backtest != nil && rec.Backtest.Trades > 0 {
			s.Backtests++
			s.MeanOutperformance += rec.Backtest.OutperformancePct
		}
	}

	stats := make([]ModelStats, 0, len(byType))
	for _, s := range byType {
		if s.Evaluated > 0 {
			s.MeanAccuracy /= float64(s.Evaluated)
			s.MeanMacroF1 /= float64(s.Evaluated)
		}
		if s.Backtests > 0 {
			s.MeanOutperformance /= float64(s.Backtests)
		}
		stats = append(stats, *s)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].ModelType < stats[j].ModelType
	})

	return stats
}
