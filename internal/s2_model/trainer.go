package s2_model

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wonny/outperform/internal/contracts"
	"github.com/wonny/outperform/internal/ml"
	"github.com/wonny/outperform/internal/modelconfig"
)

// Progress receives grid search progress
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}

// Trainer fits and evaluates one model on a labeled dataset
type Trainer struct {
	config   *modelconfig.Config
	progress Progress
	log      zerolog.Logger
}

// Result is the outcome of one training run
type Result struct {
	ModelType string             `json:"model_type"`
	Search    *ml.SearchResult   `json:"search,omitempty"`
	Pipeline  *ml.Pipeline       `json:"-"`
	Split     *ml.Split          `json:"-"`
	Test      *contracts.Dataset `json:"-"` // held-out rows, aligned with Predictions

	TrainRows     int       `json:"train_rows"`
	TestRows      int       `json:"test_rows"`
	Predictions   []int     `json:"-"`
	Probabilities []float64 `json:"-"`

	Report  contracts.ClassificationReport `json:"report"`
	Metrics contracts.EvaluationMetrics    `json:"metrics"`
}

// NewTrainer creates a new Trainer
func NewTrainer(config *modelconfig.Config, log zerolog.Logger) *Trainer {
	return &Trainer{
		config: config,
		log:    log,
	}
}

// WithProgress reports grid search folds to p
func (t *Trainer) WithProgress(p Progress) *Trainer {
	t.progress = p
	return t
}

// Run splits ds, fits the configured pipeline on the training rows and
// predicts the held-out rows once.
// ⭐ SSOT: S1 → S2 학습/평가
func (t *Trainer) Run(ctx context.Context, ds *contracts.Dataset) (*Result, error) {
	if !ds.Labeled() {
		return nil, &contracts.PreconditionError{Stage: contracts.StageModel, Field: "dataset", Reason: "dataset is not labeled"}
	}

	split, err := ml.TrainTestSplit(ds.Len(), t.config.Split.TestSize, t.config.Split.Seed)
	if err != nil {
		return nil, err
	}
	train := ds.Subset(split.Train)
	test := ds.Subset(split.Test)

	t.log.Info().
		Str("model", t.config.Model.Type).
		Int("rows", ds.Len()).
		Int("train", train.Len()).
		Int("test", test.Len()).
		Int64("seed", t.config.Split.Seed).
		Msg("dataset split")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		ModelType: t.config.Model.Type,
		Split:     split,
		Test:      test,
		TrainRows: train.Len(),
		TestRows:  test.Len(),
	}

	if t.config.Search.Enabled {
		search, err := t.search(train)
		if err != nil {
			return nil, fmt.Errorf("grid search: %w", err)
		}
		result.Search = search
		result.Pipeline = search.Pipeline
	} else {
		clf, err := NewClassifier(t.config.Model)
		if err != nil {
			return nil, err
		}
		result.Pipeline = ml.NewPipeline(clf)
		if err := result.Pipeline.Fit(train.X, train.Y); err != nil {
			return nil, fmt.Errorf("fit %s: %w", t.config.Model.Type, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Predictions, err = result.Pipeline.Predict(test.X)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	result.Probabilities, err = result.Pipeline.PredictProba(test.X)
	if err != nil {
		return nil, fmt.Errorf("predict proba: %w", err)
	}

	result.Report = ml.Report(test.Y, result.Predictions)
	result.Metrics = ml.Evaluate(test.Y, result.Predictions, result.Probabilities)

	t.log.Info().
		Float64("accuracy", result.Metrics.Accuracy).
		Float64("precision", result.Metrics.Precision).
		Float64("macro_f1", result.Metrics.MacroF1).
		Str("roc_auc", result.Metrics.ROCAUCString()).
		Msg("held-out evaluation")

	return result, nil
}

// search runs the grid search on the training partition only
func (t *Trainer) search(train *contracts.Dataset) (*ml.SearchResult, error) {
	grid := t.config.Search.Grid
	if len(grid) == 0 {
		grid = modelconfig.DefaultGrid(t.config.Model.Type)
	}

	var onFold func()
	if t.progress != nil {
		t.progress.Start(len(grid) * t.config.Search.Folds)
		defer t.progress.Finish()
		onFold = t.progress.Increment
	}

	result, err := ml.GridSearch(pipelineFactory(t.config.Model), grid, train.X, train.Y, t.config.Search.Folds, onFold)
	if err != nil {
		return nil, err
	}

	t.log.Info().
		Str("param", GridParam(t.config.Model.Type)).
		Float64("best", result.Best).
		Floats64("grid", grid).
		Floats64("scores", result.Scores).
		Msg("grid search completed")

	return result, nil
}
