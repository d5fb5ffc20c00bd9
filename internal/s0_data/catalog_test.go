package s0_data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyStatistics(t *testing.T) {
	assert.Len(t, KeyStatistics, 41)
	assert.Contains(t, KeyStatistics, "Shares Short (prior month)")
	assert.NotContains(t, KeyStatistics, "Shares Short (prior month")

	check := Validate(KeyStatistics, KeyStatistics)
	assert.True(t, check.OK(), "catalog must not contain duplicates")
}

func TestValidate(t *testing.T) {
	columns := []string{"Date", "Ticker", "Beta", "Float", "stock_p_change", "SP500_p_change"}

	tests := []struct {
		name      string
		features  []string
		wantOK    bool
		unknown   []string
		duplicate []string
	}{
		{
			name:     "all present",
			features: []string{"Beta", "Float"},
			wantOK:   true,
		},
		{
			name:     "unknown feature",
			features: []string{"Beta", "PEG Ratio"},
			unknown:  []string{"PEG Ratio"},
		},
		{
			name:      "duplicated feature",
			features:  []string{"Beta", "Float", "Beta", "Beta"},
			duplicate: []string{"Beta"},
		},
		{
			name:     "truncated key is unknown",
			features: []string{"Shares Short (prior month"},
			unknown:  []string{"Shares Short (prior month"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := Validate(columns, tt.features)
			assert.Equal(t, tt.wantOK, check.OK())
			assert.Equal(t, tt.unknown, check.Unknown)
			assert.Equal(t, tt.duplicate, check.Duplicated)
		})
	}
}
