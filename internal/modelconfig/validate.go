package modelconfig

import (
	"fmt"
	"math"
	"slices"
)

// ValidationError 검증 실패 (실행 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (실행 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ModelID == "" {
		return ValidationError{"meta.model_id", "required"}
	}

	// === Dataset ===
	if math.IsNaN(cfg.Dataset.OutperformancePct) || math.IsInf(cfg.Dataset.OutperformancePct, 0) {
		return ValidationError{"dataset.outperformance_pct", "must be a finite number"}
	}
	seen := make(map[string]bool, len(cfg.Dataset.Features))
	for i, f := range cfg.Dataset.Features {
		if f == "" {
			return ValidationError{fmt.Sprintf("dataset.features[%d]", i), "must not be empty"}
		}
		if seen[f] {
			return ValidationError{fmt.Sprintf("dataset.features[%d]", i), fmt.Sprintf("duplicate feature %q", f)}
		}
		seen[f] = true
	}

	// === Split ===
	if !(cfg.Split.TestSize > 0 && cfg.Split.TestSize < 1) {
		return ValidationError{"split.test_size", "must be in (0, 1)"}
	}

	// === Model ===
	if !slices.Contains(ModelTypes, cfg.Model.Type) {
		return ValidationError{"model.type", fmt.Sprintf("must be one of %v", ModelTypes)}
	}
	if cfg.Model.KNN.Neighbors < 1 {
		return ValidationError{"model.knn.neighbors", "must be >= 1"}
	}
	if cfg.Model.RandomForest.Trees < 1 {
		return ValidationError{"model.random_forest.trees", "must be >= 1"}
	}
	if cfg.Model.RandomForest.MaxDepth < 0 {
		return ValidationError{"model.random_forest.max_depth", "must be >= 0"}
	}
	if cfg.Model.RandomForest.MinSamplesSplit < 2 {
		return ValidationError{"model.random_forest.min_samples_split", "must be >= 2"}
	}
	if !(cfg.Model.Logistic.C > 0) || math.IsInf(cfg.Model.Logistic.C, 0) {
		return ValidationError{"model.logistic_regression.c", "must be > 0"}
	}
	if cfg.Model.Logistic.MaxIter < 1 {
		return ValidationError{"model.logistic_regression.max_iter", "must be >= 1"}
	}
	if !(cfg.Model.Logistic.Tol > 0) {
		return ValidationError{"model.logistic_regression.tol", "must be > 0"}
	}

	// === Search ===
	if cfg.Search.Enabled {
		if cfg.Search.Folds < 2 {
			return ValidationError{"search.folds", "must be >= 2"}
		}
		for i, v := range cfg.Search.Grid {
			if err := validateGridValue(cfg.Model.Type, v); err != nil {
				return ValidationError{fmt.Sprintf("search.grid[%d]", i), err.Error()}
			}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 마진 <= 0: 벤치마크와 같은 수익도 양성
	if cfg.Dataset.OutperformancePct <= 0 {
		warnings = append(warnings, Warning{
			Code:    "NON_POSITIVE_MARGIN",
			Message: "outperformance_pct <= 0: labels no longer mean beating the benchmark",
		})
	}

	// 짝수 k: 동점 투표는 0으로 처리됨
	if cfg.Model.Type == ModelKNN && cfg.Model.KNN.Neighbors%2 == 0 {
		warnings = append(warnings, Warning{
			Code:    "EVEN_NEIGHBORS",
			Message: "even neighbors: tied votes predict 0",
		})
	}

	if cfg.Split.TestSize < 0.1 {
		warnings = append(warnings, Warning{
			Code:    "SMALL_TEST_SPLIT",
			Message: "test_size < 0.1: held-out metrics will be noisy",
		})
	}

	if cfg.Search.Enabled && len(cfg.Search.Grid) == 1 {
		warnings = append(warnings, Warning{
			Code:    "TRIVIAL_GRID",
			Message: "search grid has a single value",
		})
	}

	return warnings
}

// === Helper Functions ===

func validateGridValue(modelType string, v float64) error {
	switch modelType {
	case ModelKNN, ModelRandomForest:
		if v < 1 || v != math.Trunc(v) {
			return fmt.Errorf("must be a positive integer for %s, got %v", modelType, v)
		}
	case ModelLogisticRegression:
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("must be > 0 for %s, got %v", modelType, v)
		}
	}
	return nil
}
