package selection

import (
	"context"
	"errors"
	"sort"

	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/s1_dataset"
	"github.com/wonny/outperform/pkg/logger"
)

// Predictor is a fitted model
type Predictor interface {
	Predict(X [][]float64) ([]int, error)
	PredictProba(X [][]float64) ([]float64, error)
}

// Selector applies a trained model to forward samples
// ⭐ SSOT: S4 종목 선정은 여기서만
type Selector struct {
	builder *s1_dataset.Builder
	logger  *logger.Logger
}

// Pick is one ticker predicted to outperform
type Pick struct {
	Ticker      string  `json:"ticker"`
	Date        string  `json:"date,omitempty"`
	Source      string  `json:"source"`
	Probability float64 `json:"probability"`
}

// Selection is the investment list of one predict run
type Selection struct {
	Picks   []Pick   `json:"picks"` // file order, then row order
	Tables  int      `json:"tables"`
	Rows    int      `json:"rows"`    // usable forward rows
	Skipped []string `json:"skipped"` // tables without usable rows
}

// Empty reports whether no stock was predicted to outperform
func (s *Selection) Empty() bool {
	return len(s.Picks) == 0
}

// Tickers returns the picked tickers in selection order
func (s *Selection) Tickers() []string {
	out := make([]string, len(s.Picks))
	for i, p := range s.Picks {
		out[i] = p.Ticker
	}
	return out
}

// Ranked returns the picks by descending probability; ties keep selection order
func (s *Selection) Ranked() []Pick {
	ranked := append([]Pick(nil), s.Picks...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	return ranked
}

// NewSelector creates a new selector. builder must carry the training feature list.
func NewSelector(builder *s1_dataset.Builder, logger *logger.Logger) *Selector {
	return &Selector{
		builder: builder,
		logger:  logger,
	}
}

// Select predicts every usable row of every table and keeps the positives
func (s *Selector) Select(ctx context.Context, model Predictor, tables []*contracts.Table) (*Selection, error) {
	selection := &Selection{
		Picks:   make([]Pick, 0),
		Tables:  len(tables),
		Skipped: make([]string, 0),
	}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ds, err := s.builder.BuildInference(table)
		if err != nil {
			var empty *contracts.EmptyDatasetError
			if errors.As(err, &empty) {
				s.logger.WithField("source", table.Source).Warn("Forward table has no usable rows, skipped")
				selection.Skipped = append(selection.Skipped, table.Source)
				continue
			}
			return nil, err
		}

		pred, err := model.Predict(ds.X)
		if err != nil {
			return nil, err
		}
		proba, err := model.PredictProba(ds.X)
		if err != nil {
			return nil, err
		}

		picked := 0
		for i, p := range pred {
			if p != 1 {
				continue
			}
			selection.Picks = append(selection.Picks, Pick{
				Ticker:      ds.Tickers[i],
				Date:        ds.Dates[i],
				Source:      table.Source,
				Probability: proba[i],
			})
			picked++
		}
		selection.Rows += ds.Len()

		s.logger.WithFields(map[string]interface{}{
			"source": table.Source,
			"rows":   ds.Len(),
			"picked": picked,
		}).Debug("Forward table predicted")
	}

	s.logger.WithFields(map[string]interface{}{
		"tables":  selection.Tables,
		"skipped": len(selection.Skipped),
		"rows":    selection.Rows,
		"picks":   len(selection.Picks),
	}).Info("Selection completed")

	return selection, nil
}
