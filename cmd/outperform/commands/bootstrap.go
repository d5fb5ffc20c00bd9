package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/outperform/internal/audit"
	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/metrics"
	"github.com/wonny/outperform/internal/modelconfig"
	"github.com/wonny/outperform/internal/s0_data"
	"github.com/wonny/outperform/internal/s0_data/quality"
	"github.com/wonny/outperform/internal/s1_dataset"
	"github.com/wonny/outperform/internal/s2_model"
	"github.com/wonny/outperform/pkg/config"
	"github.com/wonny/outperform/pkg/database"
	"github.com/wonny/outperform/pkg/logger"
)

// Model/data flags shared by train, backtest run and predict
var (
	flagData     string
	flagModel    string
	flagMargin   float64
	flagTestSize float64
	flagSeed     int64
	flagSearch   bool
	flagFolds    int
)

func addDataFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagData, "data", "", "key statistics CSV (default: KEYSTATS_PATH)")
}

func addModelFlags(cmd *cobra.Command) {
	addDataFlag(cmd)
	cmd.Flags().StringVar(&flagModel, "model", "", "model type (knn|random_forest|logistic_regression)")
	cmd.Flags().Float64Var(&flagMargin, "margin", 10, "outperformance margin in percentage points")
	cmd.Flags().Float64Var(&flagTestSize, "test-size", 0.2, "held-out share of rows")
	cmd.Flags().Int64Var(&flagSeed, "seed", 42, "split seed")
	cmd.Flags().BoolVar(&flagSearch, "search", false, "grid search hyperparameters with stratified k-fold")
	cmd.Flags().IntVar(&flagFolds, "folds", 5, "folds for --search")
}

// app bundles what every command needs
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	model *modelconfig.Config
}

// newApp loads environment and model configuration and applies flag overrides
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Override(env, verbose); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if outputFormat != "text" && outputFormat != "json" {
		return nil, fmt.Errorf("--output must be text or json, got %q", outputFormat)
	}

	log := logger.New(cfg)

	model, err := loadModelConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cmd, model); err != nil {
		return nil, err
	}
	for _, w := range modelconfig.Warn(model) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	return &app{cfg: cfg, log: log, model: model}, nil
}

// loadModelConfig reads --model-config, then MODEL_CONFIG, then built-in defaults
func loadModelConfig(cfg *config.Config) (*modelconfig.Config, error) {
	path := modelConfigFile
	if path == "" {
		path = cfg.ModelConfigPath
	}
	if path == "" {
		return modelconfig.Default(), nil
	}

	model, _, err := modelconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load model config %s: %w", path, err)
	}
	return model, nil
}

// applyOverrides copies explicitly set flags over the model config
func applyOverrides(cmd *cobra.Command, model *modelconfig.Config) error {
	flags := cmd.Flags()
	if flags.Changed("model") {
		model.Model.Type = flagModel
	}
	if flags.Changed("margin") {
		model.Dataset.OutperformancePct = flagMargin
	}
	if flags.Changed("test-size") {
		model.Split.TestSize = flagTestSize
	}
	if flags.Changed("seed") {
		model.Split.Seed = flagSeed
	}
	if flags.Changed("search") {
		model.Search.Enabled = flagSearch
	}
	if flags.Changed("folds") {
		model.Search.Folds = flagFolds
	}

	if err := modelconfig.Validate(model); err != nil {
		return fmt.Errorf("invalid model config: %w", err)
	}
	return nil
}

func (a *app) dataPath() string {
	if flagData != "" {
		return flagData
	}
	return a.cfg.Data.KeystatsPath
}

func (a *app) builder() *s1_dataset.Builder {
	return s1_dataset.NewBuilder(s1_dataset.Config{
		Features:          a.model.Dataset.Features,
		OutperformancePct: a.model.Dataset.OutperformancePct,
	}, a.log.Component("s1_dataset"))
}

// loadDataset reads the training table, checks its coverage and builds the dataset
func (a *app) loadDataset(r *run) (*contracts.Table, *contracts.Dataset, error) {
	table, err := s0_data.ReadCSV(a.dataPath())
	if err != nil {
		return nil, nil, err
	}
	r.metrics.RecordRows("table", table.Len())

	builder := a.builder()
	if snapshot, err := quality.NewGate(quality.DefaultConfig()).Check(table, builder.Features()); err == nil && !snapshot.Passed {
		a.log.WithFields(map[string]interface{}{
			"score":   fmt.Sprintf("%.2f", snapshot.Score),
			"weakest": snapshot.Weakest(3),
		}).Warn("Feature table coverage below quality gate")
	}

	ds, err := builder.Build(table)
	if err != nil {
		return table, nil, err
	}
	r.metrics.RecordRows("usable", ds.Len())
	r.record.Rows = ds.Len()

	return table, ds, nil
}

// train runs the trainer, with a progress bar for grid search on terminals
func (a *app) train(ctx context.Context, r *run, ds *contracts.Dataset) (*s2_model.Result, error) {
	trainer := s2_model.NewTrainer(a.model, a.log.Component("s2_model"))
	if a.model.Search.Enabled && isTerminal(os.Stderr) {
		trainer.WithProgress(newBarProgress(os.Stderr, "grid search "))
	}

	result, err := trainer.Run(ctx, ds)
	if err != nil {
		return nil, err
	}

	r.record.SetTraining(ds.Len(), result)
	r.metrics.RecordRows("train", result.TrainRows)
	r.metrics.RecordRows("test", result.TestRows)
	r.metrics.RecordEvaluation(result.Metrics)

	return result, nil
}

// run tracks the audit record and gauges of one command invocation
type run struct {
	started time.Time
	record  *audit.RunRecord
	metrics *metrics.Recorder
}

func (a *app) startRun(command string) (*run, error) {
	record, err := audit.NewRunRecord(command, a.model)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]interface{}{
		"run_id":      record.RunID.String(),
		"command":     command,
		"model":       a.model.Model.Type,
		"config_hash": record.ConfigHash[:12],
	}).Debug("Run started")

	return &run{
		started: time.Now(),
		record:  record,
		metrics: metrics.NewRecorder(command, a.model.Model.Type),
	}, nil
}

// finishRun exports gauges and stores the audit record when configured.
// Sink failures are logged, never returned.
func (a *app) finishRun(ctx context.Context, r *run, runErr error) {
	r.metrics.Finish(time.Since(r.started), runErr)

	if a.cfg.MetricsFile != "" {
		if err := r.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.log.WithError(err).Warn("Failed to write metrics textfile")
		}
	}

	if runErr != nil || !a.cfg.Database.Enabled() {
		return
	}

	db, err := database.New(ctx, a.cfg.Database)
	if err != nil {
		a.log.WithError(err).Warn("Audit store unavailable, run not recorded")
		return
	}
	defer db.Close()

	repo := audit.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		a.log.WithError(err).Warn("Audit schema check failed")
		return
	}
	if err := repo.SaveRun(ctx, r.record); err != nil {
		a.log.WithError(err).Warn("Failed to record run")
		return
	}

	a.log.WithField("run_id", r.record.RunID.String()).Debug("Run recorded")
}
