package s2_model

import (
	"fmt"

	"github.com/wonny/outperform/internal/ml"
	"github.com/wonny/outperform/internal/modelconfig"
)

// NewClassifier builds an unfitted classifier from the model section
func NewClassifier(m modelconfig.Model) (ml.Classifier, error) {
	switch m.Type {
	case modelconfig.ModelKNN:
		return ml.NewKNN(m.KNN.Neighbors), nil
	case modelconfig.ModelRandomForest:
		return ml.NewRandomForest(ml.RandomForestParams{
			Trees:           m.RandomForest.Trees,
			MaxDepth:        m.RandomForest.MaxDepth,
			MinSamplesSplit: m.RandomForest.MinSamplesSplit,
			Seed:            m.RandomForest.Seed,
		}), nil
	case modelconfig.ModelLogisticRegression:
		return ml.NewLogisticRegression(ml.LogisticParams{
			C:       m.Logistic.C,
			MaxIter: m.Logistic.MaxIter,
			Tol:     m.Logistic.Tol,
		}), nil
	}
	return nil, fmt.Errorf("unknown model type %q", m.Type)
}

// WithGridValue returns m with its searched hyperparameter set to v
func WithGridValue(m modelconfig.Model, v float64) modelconfig.Model {
	switch m.Type {
	case modelconfig.ModelKNN:
		m.KNN.Neighbors = int(v)
	case modelconfig.ModelRandomForest:
		m.RandomForest.Trees = int(v)
	case modelconfig.ModelLogisticRegression:
		m.Logistic.C = v
	}
	return m
}

// GridParam names the hyperparameter a grid value sets
func GridParam(modelType string) string {
	switch modelType {
	case modelconfig.ModelKNN:
		return "neighbors"
	case modelconfig.ModelRandomForest:
		return "trees"
	case modelconfig.ModelLogisticRegression:
		return "c"
	}
	return ""
}

// pipelineFactory builds fresh pipelines for grid search
func pipelineFactory(m modelconfig.Model) ml.Factory {
	return func(v float64) (*ml.Pipeline, error) {
		clf, err := NewClassifier(WithGridValue(m, v))
		if err != nil {
			return nil, err
		}
		return ml.NewPipeline(clf), nil
	}
}
