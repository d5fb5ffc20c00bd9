// Package metrics exports run gauges to a Prometheus textfile for the node
// exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wonny/outperform/internal/backtest"
	"github.com/wonny/outperform/internal/contracts"
)

const namespace = "outperform"

// Recorder holds the gauges of one run on its own registry
type Recorder struct {
	registry *prometheus.Registry
	labels   prometheus.Labels

	datasetRows    *prometheus.GaugeVec
	evaluation     *prometheus.GaugeVec
	trades         *prometheus.GaugeVec
	returns        *prometheus.GaugeVec
	picks          *prometheus.GaugeVec
	runDuration    *prometheus.GaugeVec
	lastRunSuccess *prometheus.GaugeVec
}

// NewRecorder creates a recorder whose series carry command and model labels
func NewRecorder(command, model string) *Recorder {
	labelNames := []string{"command", "model"}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		labels:   prometheus.Labels{"command": command, "model": model},

		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows of the dataset by stage (table, usable, train, test)",
		}, append(labelNames, "stage")),
		evaluation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "evaluation_score",
			Help:      "Held-out evaluation metrics",
		}, append(labelNames, "metric")),
		trades: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backtest_trades",
			Help:      "Held-out rows predicted to outperform",
		}, labelNames),
		returns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backtest_return_pct",
			Help:      "Average backtest return in percent by series (stock, benchmark, outperformance)",
		}, append(labelNames, "series")),
		picks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selection_picks",
			Help:      "Forward tickers predicted to outperform",
		}, labelNames),
		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run",
		}, labelNames),
		lastRunSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the run finished without error",
		}, labelNames),
	}

	r.registry.MustRegister(
		r.datasetRows, r.evaluation, r.trades, r.returns,
		r.picks, r.runDuration, r.lastRunSuccess,
	)

	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) with(name, value string) prometheus.Labels {
	l := prometheus.Labels{name: value}
	for k, v := range r.labels {
		l[k] = v
	}
	return l
}

// RecordRows records a row count for a stage
func (r *Recorder) RecordRows(stage string, n int) {
	r.datasetRows.With(r.with("stage", stage)).Set(float64(n))
}

// RecordEvaluation records the headline metrics; ROC AUC only when defined
func (r *Recorder) RecordEvaluation(m contracts.EvaluationMetrics) {
	r.evaluation.With(r.with("metric", "accuracy")).Set(m.Accuracy)
	r.evaluation.With(r.with("metric", "precision")).Set(m.Precision)
	r.evaluation.With(r.with("metric", "macro_precision")).Set(m.MacroPrecision)
	r.evaluation.With(r.with("metric", "macro_recall")).Set(m.MacroRecall)
	r.evaluation.With(r.with("metric", "macro_f1")).Set(m.MacroF1)
	if m.ROCAUC != nil {
		r.evaluation.With(r.with("metric", "roc_auc")).Set(*m.ROCAUC)
	}
}

// RecordBacktest records trades, and returns when there was at least one trade
func (r *Recorder) RecordBacktest(s *backtest.Summary) {
	r.trades.With(r.labels).Set(float64(s.Trades))
	if s.Trades == 0 {
		return
	}
	r.returns.With(r.with("series", "stock")).Set(s.StockReturnPct)
	r.returns.With(r.with("series", "benchmark")).Set(s.BenchmarkReturnPct)
	r.returns.With(r.with("series", "outperformance")).Set(s.OutperformancePct)
}

// RecordPicks records the size of the forward investment list
func (r *Recorder) RecordPicks(n int) {
	r.picks.With(r.labels).Set(float64(n))
}

// Finish records run duration and outcome
func (r *Recorder) Finish(elapsed time.Duration, err error) {
	r.runDuration.With(r.labels).Set(elapsed.Seconds())
	success := 1.0
	if err != nil {
		success = 0
	}
	r.lastRunSuccess.With(r.labels).Set(success)
}

// WriteTextfile atomically writes all series to path
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
