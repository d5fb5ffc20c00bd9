package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/outperform/internal/backtest"
	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/modelconfig"
	"github.com/wonny/outperform/internal/s2_model"
)

// RunRecord is one CLI run as stored in audit.model_runs
type RunRecord struct {
	RunID      uuid.UUID                    `json:"run_id"`
	Command    string                       `json:"command"`
	ModelType  string                       `json:"model_type"`
	ConfigHash string                       `json:"config_hash"`
	Margin     float64                      `json:"margin"`
	Rows       int                          `json:"rows"`
	TrainRows  int                          `json:"train_rows"`
	TestRows   int                          `json:"test_rows"`
	Picks      int                          `json:"picks"`
	Metrics    *contracts.EvaluationMetrics `json:"metrics,omitempty"`
	Backtest   *backtest.Summary            `json:"backtest,omitempty"`
	CreatedAt  time.Time                    `json:"created_at"`
}

// NewRunRecord starts a record for command under cfg
func NewRunRecord(command string, cfg *modelconfig.Config) (*RunRecord, error) {
	hash, err := modelconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash model config: %w", err)
	}

	return &RunRecord{
		RunID:      uuid.New(),
		Command:    command,
		ModelType:  cfg.Model.Type,
		ConfigHash: hash,
		Margin:     cfg.Dataset.OutperformancePct,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// SetTraining copies dataset size and held-out metrics from a training run
func (r *RunRecord) SetTraining(rows int, result *s2_model.Result) {
	r.Rows = rows
	r.TrainRows = result.TrainRows
	r.TestRows = result.TestRows
	metrics := result.Metrics
	r.Metrics = &metrics
}

// SetBacktest copies the backtest summary
func (r *RunRecord) SetBacktest(summary *backtest.Summary) {
	if summary == nil {
		return
	}
	s := *summary
	r.Backtest = &s
}
