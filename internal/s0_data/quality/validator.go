package quality

import (
	"fmt"
	"sort"

	"github.com/wonny/outperform/internal/contracts"
)

// Gate measures how much of a feature table is usable
type Gate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinScore float64 `yaml:"min_score"` // 0.5
}

// DefaultConfig returns the thresholds used when none are configured
func DefaultConfig() Config {
	return Config{MinScore: 0.5}
}

// Snapshot is the coverage picture of one table
type Snapshot struct {
	Source       string             `json:"source"`
	TotalRows    int                `json:"total_rows"`
	CompleteRows int                `json:"complete_rows"`
	Coverage     map[string]float64 `json:"coverage"` // share of rows where the column is present
	Score        float64            `json:"score"`    // 0.0 ~ 1.0
	Passed       bool               `json:"passed"`
}

// Weakest returns up to n columns with the lowest coverage, lowest first
func (s *Snapshot) Weakest(n int) []string {
	cols := make([]string, 0, len(s.Coverage))
	for c := range s.Coverage {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool {
		if s.Coverage[cols[i]] != s.Coverage[cols[j]] {
			return s.Coverage[cols[i]] < s.Coverage[cols[j]]
		}
		return cols[i] < cols[j]
	})
	if len(cols) > n {
		cols = cols[:n]
	}
	return cols
}

// NewGate creates a new Gate instance
func NewGate(config Config) *Gate {
	return &Gate{config: config}
}

// Check computes coverage of the return columns and the given features
// ⭐ SSOT: S0 → S1 품질 검증
func (g *Gate) Check(table *contracts.Table, features []string) (*Snapshot, error) {
	if table.Len() == 0 {
		return nil, &contracts.EmptyDatasetError{Stage: contracts.StageTable, Reason: table.Source + " has no rows"}
	}

	columns := append([]string{contracts.ColumnStockChange, contracts.ColumnBenchmarkChange}, features...)

	snapshot := &Snapshot{
		Source:       table.Source,
		TotalRows:    table.Len(),
		CompleteRows: table.CompleteRows(),
		Coverage:     make(map[string]float64, len(columns)),
	}

	for _, name := range columns {
		idx, ok := table.ColumnIndex(name)
		if !ok {
			return nil, &contracts.PreconditionError{
				Stage:  contracts.StageTable,
				Field:  name,
				Reason: fmt.Sprintf("column not in %s", table.Source),
			}
		}

		present := 0
		for _, row := range table.Rows {
			if row.Cells[idx].Present {
				present++
			}
		}
		snapshot.Coverage[name] = float64(present) / float64(table.Len())
	}

	snapshot.Score = g.calculateScore(snapshot.Coverage, features)
	snapshot.Passed = snapshot.Score >= g.config.MinScore

	return snapshot, nil
}

// calculateScore calculates overall quality score using weighted average
func (g *Gate) calculateScore(coverage map[string]float64, features []string) float64 {
	// 가중치: 수익률 컬럼 50%, 피처 평균 50%
	score := 0.25*coverage[contracts.ColumnStockChange] + 0.25*coverage[contracts.ColumnBenchmarkChange]

	if len(features) == 0 {
		return score * 2
	}

	featureSum := 0.0
	for _, f := range features {
		featureSum += coverage[f]
	}

	return score + 0.5*featureSum/float64(len(features))
}
