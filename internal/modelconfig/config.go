package modelconfig

// Model types
const (
	ModelKNN                = "knn"
	ModelRandomForest       = "random_forest"
	ModelLogisticRegression = "logistic_regression"
)

// ModelTypes lists the accepted model.type values
var ModelTypes = []string{ModelKNN, ModelRandomForest, ModelLogisticRegression}

// Config는 학습/백테스트 실행의 전체 설정
type Config struct {
	Meta    Meta    `yaml:"meta" json:"meta"`
	Dataset Dataset `yaml:"dataset" json:"dataset"`
	Split   Split   `yaml:"split" json:"split"`
	Model   Model   `yaml:"model" json:"model"`
	Search  Search  `yaml:"search" json:"search"`
}

// Meta 메타 정보
type Meta struct {
	ModelID string `yaml:"model_id" json:"model_id"`
	Version string `yaml:"version" json:"version"`
}

// Dataset S1: 라벨/피처 정의
type Dataset struct {
	OutperformancePct float64  `yaml:"outperformance_pct" json:"outperformance_pct"` // %p, strict >
	Features          []string `yaml:"features" json:"features"`                     // empty = key statistics catalog
}

// Split train/test 분할
type Split struct {
	TestSize float64 `yaml:"test_size" json:"test_size"` // floor(n * test_size) held out
	Seed     int64   `yaml:"seed" json:"seed"`
}

// Model S2: 분류기 선택과 파라미터
type Model struct {
	Type         string         `yaml:"type" json:"type"`
	KNN          KNNParams      `yaml:"knn" json:"knn"`
	RandomForest ForestParams   `yaml:"random_forest" json:"random_forest"`
	Logistic     LogisticParams `yaml:"logistic_regression" json:"logistic_regression"`
}

type KNNParams struct {
	Neighbors int `yaml:"neighbors" json:"neighbors"`
}

type ForestParams struct {
	Trees           int   `yaml:"trees" json:"trees"`
	MaxDepth        int   `yaml:"max_depth" json:"max_depth"` // 0 = unlimited
	MinSamplesSplit int   `yaml:"min_samples_split" json:"min_samples_split"`
	Seed            int64 `yaml:"seed" json:"seed"`
}

type LogisticParams struct {
	C       float64 `yaml:"c" json:"c"`
	MaxIter int     `yaml:"max_iter" json:"max_iter"`
	Tol     float64 `yaml:"tol" json:"tol"`
}

// Search 하이퍼파라미터 그리드 탐색
// Grid values: knn → neighbors, random_forest → trees, logistic_regression → c
type Search struct {
	Enabled bool      `yaml:"enabled" json:"enabled"`
	Folds   int       `yaml:"folds" json:"folds"`
	Grid    []float64 `yaml:"grid" json:"grid"`
}

// Default returns the built-in configuration used without a YAML file
func Default() *Config {
	return &Config{
		Meta: Meta{
			ModelID: "outperform",
			Version: "1",
		},
		Dataset: Dataset{
			OutperformancePct: 10,
		},
		Split: Split{
			TestSize: 0.2,
			Seed:     42,
		},
		Model: Model{
			Type:         ModelKNN,
			KNN:          KNNParams{Neighbors: 5},
			RandomForest: ForestParams{Trees: 100, MinSamplesSplit: 2},
			Logistic:     LogisticParams{C: 1.0, MaxIter: 1000, Tol: 1e-6},
		},
		Search: Search{
			Enabled: false,
			Folds:   5,
		},
	}
}

// DefaultGrid returns the search grid used when search.grid is empty
func DefaultGrid(modelType string) []float64 {
	switch modelType {
	case ModelKNN:
		return []float64{3, 5, 7, 9, 11}
	case ModelRandomForest:
		return []float64{50, 100, 200}
	case ModelLogisticRegression:
		return []float64{0.01, 0.1, 1, 10, 100}
	}
	return nil
}
