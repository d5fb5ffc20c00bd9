package s1_dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/s0_data"
)

// Builder turns a feature table into a train-ready dataset
type Builder struct {
	features []string
	margin   float64
	logger   zerolog.Logger
}

// Config holds dataset construction parameters
type Config struct {
	Features          []string `yaml:"features"`           // 비어 있으면 KeyStatistics
	OutperformancePct float64  `yaml:"outperformance_pct"` // 라벨 마진 (%p)
}

// NewBuilder creates a new dataset Builder. logger should carry the component tag.
func NewBuilder(config Config, logger zerolog.Logger) *Builder {
	features := config.Features
	if len(features) == 0 {
		features = s0_data.KeyStatistics
	}

	return &Builder{
		features: features,
		margin:   config.OutperformancePct,
		logger:   logger,
	}
}

// Features returns the feature list used for both training and inference
func (b *Builder) Features() []string {
	return b.features
}

// Build selects features, drops incomplete rows and labels the rest
// ⭐ SSOT: S0 → S1 데이터셋 생성
func (b *Builder) Build(table *contracts.Table) (*contracts.Dataset, error) {
	featureIdx, err := b.resolveFeatures(table)
	if err != nil {
		return nil, err
	}

	stockIdx, ok := table.ColumnIndex(contracts.ColumnStockChange)
	if !ok {
		return nil, missingColumn(table, contracts.ColumnStockChange)
	}
	benchIdx, ok := table.ColumnIndex(contracts.ColumnBenchmarkChange)
	if !ok {
		return nil, missingColumn(table, contracts.ColumnBenchmarkChange)
	}

	ds := b.collect(table, featureIdx, func(row contracts.Observation) bool {
		return row.Complete()
	})
	if ds.Len() == 0 {
		return nil, &contracts.EmptyDatasetError{
			Stage:  contracts.StageDataset,
			Reason: fmt.Sprintf("%s: no fully populated rows out of %d", table.Source, table.Len()),
		}
	}

	stock := make([]float64, 0, ds.Len())
	bench := make([]float64, 0, ds.Len())
	ds.Returns = make([][2]float64, 0, ds.Len())
	for _, row := range table.Rows {
		if !row.Complete() {
			continue
		}
		s, bm := row.Cells[stockIdx].Value, row.Cells[benchIdx].Value
		stock = append(stock, s)
		bench = append(bench, bm)
		ds.Returns = append(ds.Returns, [2]float64{s, bm})
	}

	ds.Y, err = Label(stock, bench, b.margin)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Str("source", table.Source).
		Int("rows", table.Len()).
		Int("usable", ds.Len()).
		Int("positives", ds.Positives()).
		Float64("margin", b.margin).
		Msg("dataset built")

	return ds, nil
}

// BuildInference builds an unlabeled dataset from a forward sample.
// Only the feature columns and Ticker must be present; returns are ignored.
func (b *Builder) BuildInference(table *contracts.Table) (*contracts.Dataset, error) {
	featureIdx, err := b.resolveFeatures(table)
	if err != nil {
		return nil, err
	}

	tickerIdx, ok := table.ColumnIndex(contracts.ColumnTicker)
	if !ok {
		return nil, missingColumn(table, contracts.ColumnTicker)
	}

	required := append([]int{tickerIdx}, featureIdx...)
	ds := b.collect(table, featureIdx, func(row contracts.Observation) bool {
		for _, i := range required {
			if !row.Cells[i].Present {
				return false
			}
		}
		return true
	})
	if ds.Len() == 0 {
		return nil, &contracts.EmptyDatasetError{
			Stage:  contracts.StageSelection,
			Reason: fmt.Sprintf("%s: no usable rows out of %d", table.Source, table.Len()),
		}
	}

	return ds, nil
}

// resolveFeatures maps the feature list to column positions
func (b *Builder) resolveFeatures(table *contracts.Table) ([]int, error) {
	check := s0_data.Validate(table.Columns, b.features)
	if len(check.Duplicated) > 0 {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageDataset,
			Field:  "features",
			Reason: "duplicated: " + strings.Join(check.Duplicated, ", "),
		}
	}
	if len(check.Unknown) > 0 {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageDataset,
			Field:  "features",
			Reason: fmt.Sprintf("not in %s: %s", table.Source, strings.Join(check.Unknown, ", ")),
		}
	}

	idx := make([]int, len(b.features))
	for i, f := range b.features {
		idx[i], _ = table.ColumnIndex(f)
	}
	return idx, nil
}

// collect copies feature values, ticker and date of the rows keep accepts
func (b *Builder) collect(table *contracts.Table, featureIdx []int, keep func(contracts.Observation) bool) *contracts.Dataset {
	tickerIdx, hasTicker := table.ColumnIndex(contracts.ColumnTicker)
	dateIdx, hasDate := table.ColumnIndex(contracts.ColumnDate)

	ds := &contracts.Dataset{
		Features: b.features,
		X:        make([][]float64, 0, table.Len()),
		Tickers:  make([]string, 0, table.Len()),
		Dates:    make([]string, 0, table.Len()),
	}

	for _, row := range table.Rows {
		if !keep(row) {
			continue
		}

		x := make([]float64, len(featureIdx))
		for j, c := range featureIdx {
			x[j] = row.Cells[c].Value
		}
		ds.X = append(ds.X, x)

		ticker, date := "", ""
		if hasTicker {
			ticker = row.Cells[tickerIdx].Text
		}
		if hasDate {
			date = row.Cells[dateIdx].Text
		}
		ds.Tickers = append(ds.Tickers, ticker)
		ds.Dates = append(ds.Dates, date)
	}

	return ds
}

func missingColumn(table *contracts.Table, column string) error {
	return &contracts.UpstreamDataError{
		Source: table.Source,
		Column: column,
		Err:    errors.New("required column missing"),
	}
}
