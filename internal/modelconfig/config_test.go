package modelconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := "../../config/model/outperform.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	assert.Equal(t, "outperform_knn", cfg.Meta.ModelID)
	assert.Equal(t, ModelKNN, cfg.Model.Type)
	assert.Equal(t, 10.0, cfg.Dataset.OutperformancePct)
	assert.Equal(t, int64(42), cfg.Split.Seed)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(cfg)
	assert.Equal(t, hash, hash2)
}

func TestParse_PartialOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("model:\n  type: random_forest\n  random_forest:\n    trees: 10\n"))
	require.NoError(t, err)

	assert.Equal(t, ModelRandomForest, cfg.Model.Type)
	assert.Equal(t, 10, cfg.Model.RandomForest.Trees)
	assert.Equal(t, 2, cfg.Model.RandomForest.MinSamplesSplit)
	assert.Equal(t, 0.2, cfg.Split.TestSize)
	assert.Equal(t, 5, cfg.Model.KNN.Neighbors)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("split:\n  test_sise: 0.3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test_sise")
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  type: svm\n"), 0o644))

	_, data, err := Load(path)
	require.Error(t, err)
	assert.NotEmpty(t, data)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "model.type", verr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing model id", func(c *Config) { c.Meta.ModelID = "" }, "meta.model_id"},
		{"test size zero", func(c *Config) { c.Split.TestSize = 0 }, "split.test_size"},
		{"test size one", func(c *Config) { c.Split.TestSize = 1 }, "split.test_size"},
		{"duplicate feature", func(c *Config) { c.Dataset.Features = []string{"Beta", "Beta"} }, "dataset.features[1]"},
		{"zero neighbors", func(c *Config) { c.Model.KNN.Neighbors = 0 }, "model.knn.neighbors"},
		{"zero trees", func(c *Config) { c.Model.RandomForest.Trees = 0 }, "model.random_forest.trees"},
		{"min samples split", func(c *Config) { c.Model.RandomForest.MinSamplesSplit = 1 }, "model.random_forest.min_samples_split"},
		{"negative C", func(c *Config) { c.Model.Logistic.C = -1 }, "model.logistic_regression.c"},
		{"one fold", func(c *Config) {
			c.Search.Enabled = true
			c.Search.Folds = 1
		}, "search.folds"},
		{"fractional knn grid", func(c *Config) {
			c.Search.Enabled = true
			c.Search.Grid = []float64{3, 4.5}
		}, "search.grid[1]"},
		{"logistic grid allows fractions", func(c *Config) {
			c.Model.Type = ModelLogisticRegression
			c.Search.Enabled = true
			c.Search.Grid = []float64{0.01, 0.5}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	assert.Empty(t, Warn(Default()))

	cfg := Default()
	cfg.Dataset.OutperformancePct = 0
	cfg.Model.KNN.Neighbors = 4

	codes := make([]string, 0)
	for _, w := range Warn(cfg) {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []string{"NON_POSITIVE_MARGIN", "EVEN_NEIGHBORS"}, codes)
}

func TestDefaultGrid(t *testing.T) {
	for _, m := range ModelTypes {
		grid := DefaultGrid(m)
		assert.NotEmpty(t, grid, m)
		for _, v := range grid {
			assert.NoError(t, validateGridValue(m, v))
		}
	}
}
