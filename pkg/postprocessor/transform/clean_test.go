package transform

import (
	"regexp"
	"testing"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		replacement string
		values      []any
		expected    []any
	}{
		{
			name:        "fixes typo",
			pattern:     `VL EF`,
			replacement: "LV EF",
			values:      []any{"VL EF MOD BP: 55%", "LV EF MOD BP: 60%"},
			expected:    []any{"LV EF MOD BP: 55%", "LV EF MOD BP: 60%"},
		},
		{
			name:        "replaces every occurrence",
			pattern:     `\s+`,
			replacement: " ",
			values:      []any{"a  b\t\tc"},
			expected:    []any{"a b c"},
		},
		{
			name:        "group expansion",
			pattern:     `(\d+\.?\d*)\s?pH`,
			replacement: "pH: ${1}",
			values:      []any{"Urine 10.83 pH"},
			expected:    []any{"Urine pH: 10.83"},
		},
		{
			name:        "non-string cells pass through",
			pattern:     `\d`,
			replacement: "#",
			values:      []any{int64(12), nil, 1.5, "a1"},
			expected:    []any{int64(12), nil, 1.5, "a#"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile(tt.pattern)
			assert.Equal(t, tt.expected, Clean(tt.values, re, tt.replacement))
		})
	}
}

func TestCleanColumnLeavesSnapshot(t *testing.T) {
	ds, err := models.NewDataset([]string{"REPORT"}, [][]any{{"VL EF MOD BP: 55%"}})
	require.NoError(t, err)

	require.NoError(t, CleanColumn(ds, "REPORT", regexp.MustCompile(`VL EF`), "LV EF"))

	live, err := ds.Column("REPORT")
	require.NoError(t, err)
	assert.Equal(t, []any{"LV EF MOD BP: 55%"}, live)

	original, err := ds.Original("REPORT")
	require.NoError(t, err)
	assert.Equal(t, []any{"VL EF MOD BP: 55%"}, original)

	require.NoError(t, ds.Restore("REPORT"))
	restored, err := ds.Column("REPORT")
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestCleanColumnMissing(t *testing.T) {
	ds, err := models.NewDataset([]string{"REPORT"}, nil)
	require.NoError(t, err)

	err = CleanColumn(ds, "Nope", regexp.MustCompile(`x`), "y")
	assert.ErrorIs(t, err, models.ErrColumnNotFound)
}

func TestCompileCleaningBadSyntax(t *testing.T) {
	_, err := CompileCleaning(`[`)
	assert.ErrorIs(t, err, models.ErrInvalidPattern)
}
