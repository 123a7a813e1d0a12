package transform

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSinglePattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		values   []any
		expected []any
	}{
		{
			name:     "date of exam",
			pattern:  `Date of Exam:\s?(\d{1,2}/\d{1,2}/\d{4})`,
			values:   []any{"Date of Exam: 3/4/2022 LV EF MOD BP: 55%"},
			expected: []any{"3/4/2022"},
		},
		{
			name:     "first group only",
			pattern:  `LV EF MOD BP:\s?(\d+)(%)`,
			values:   []any{"LV EF MOD BP: 55%"},
			expected: []any{"55"},
		},
		{
			name:     "no match yields nil",
			pattern:  `not present: (\d+)`,
			values:   []any{"Date of Exam: 3/4/2022", ""},
			expected: []any{nil, nil},
		},
		{
			name:     "non-string cells yield nil",
			pattern:  `(\d+)`,
			values:   []any{int64(7), 3.5, nil, true, "7"},
			expected: []any{nil, nil, nil, nil, "7"},
		},
		{
			name:     "optional group that did not participate",
			pattern:  `pH(?::\s?(\d+))?`,
			values:   []any{"pH", "pH: 7"},
			expected: []any{nil, "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractStrings(tt.values, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractFallbackList(t *testing.T) {
	values := []any{
		"pH: 7.40",
		"Urine 10.83 pH",
		"no reading",
		"pH: 6.1 and 8.2 pH",
	}

	got, err := ExtractStrings(values, `pH:\s?(\d+\.?\d*)`, `(\d+\.?\d*)\s?pH`)
	require.NoError(t, err)

	// The last row matches both patterns; the first one in the list wins.
	assert.Equal(t, []any{"7.40", "10.83", nil, "6.1"}, got)
}

func TestExtractFallbackOrderMatters(t *testing.T) {
	values := []any{"pH: 6.1 and 8.2 pH"}

	got, err := ExtractStrings(values, `(\d+\.?\d*)\s?pH`, `pH:\s?(\d+\.?\d*)`)
	require.NoError(t, err)
	assert.Equal(t, []any{"8.2"}, got)
}

func TestCompileExtractionRejectsPatternWithoutGroup(t *testing.T) {
	_, err := ExtractStrings([]any{"malformed"}, "malformed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidPattern))

	var patErr *models.InvalidPatternError
	require.True(t, errors.As(err, &patErr))
	assert.Equal(t, "malformed", patErr.Pattern)
}

func TestCompileExtractionRejectsBadSyntax(t *testing.T) {
	_, err := CompileExtraction(`(unclosed`)
	assert.ErrorIs(t, err, models.ErrInvalidPattern)
}

func TestExtractNoPatterns(t *testing.T) {
	got := Extract([]any{"a", "b"})
	assert.Equal(t, []any{nil, nil}, got)
}

func TestExtractPrecompiled(t *testing.T) {
	re := regexp.MustCompile(`LVIDd:\s?(\d+\.?\d*\s?cm)`)
	got := Extract([]any{"LVIDd: 4.2 cm", "LVIDd:5cm"}, re)
	assert.Equal(t, []any{"4.2 cm", "5cm"}, got)
}
