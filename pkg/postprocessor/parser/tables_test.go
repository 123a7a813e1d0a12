package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindDataBounds(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected dataRegion
	}{
		{
			name:     "empty sheet",
			rows:     nil,
			expected: dataRegion{minRow: -1, maxRow: -1, minCol: -1, maxCol: -1},
		},
		{
			name:     "starts at A1",
			rows:     [][]string{{"a", "b"}, {"c"}},
			expected: dataRegion{minRow: 0, maxRow: 1, minCol: 0, maxCol: 1},
		},
		{
			name: "offset with ragged rows",
			rows: [][]string{
				{},
				{"", "", "x"},
				{"", "y", "", "", "z"},
				{},
			},
			expected: dataRegion{minRow: 1, maxRow: 2, minCol: 1, maxCol: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findDataBounds(tt.rows)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected.minRow < 0, got.empty())
		})
	}
}

func TestHeaderNames(t *testing.T) {
	tests := []struct {
		name     string
		cells    []string
		width    int
		expected []string
	}{
		{
			name:     "plain",
			cells:    []string{"MRN", "REPORT"},
			width:    2,
			expected: []string{"MRN", "REPORT"},
		},
		{
			name:     "blank and short rows",
			cells:    []string{"MRN", "  "},
			width:    3,
			expected: []string{"MRN", "Unnamed: 1", "Unnamed: 2"},
		},
		{
			name:     "duplicates",
			cells:    []string{"Date", "Date", "Date"},
			width:    3,
			expected: []string{"Date", "Date.1", "Date.2"},
		},
		{
			name:     "suffix already taken",
			cells:    []string{"Date.1", "Date", "Date"},
			width:    3,
			expected: []string{"Date.1", "Date", "Date.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, headerNames(tt.cells, tt.width))
		})
	}
}
