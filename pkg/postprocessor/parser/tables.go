package parser

import (
	"fmt"
	"strings"
)

// dataRegion is the bounding box of non-empty cells in a sheet, 0-based and inclusive.
type dataRegion struct {
	minRow, maxRow int
	minCol, maxCol int
}

func (r dataRegion) empty() bool {
	return r.minRow < 0
}

func (r dataRegion) width() int {
	return r.maxCol - r.minCol + 1
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) dataRegion {
	region := dataRegion{minRow: -1, maxRow: -1, minCol: -1, maxCol: -1}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if region.minRow < 0 || rowIdx < region.minRow {
				region.minRow = rowIdx
			}
			if region.maxRow < 0 || rowIdx > region.maxRow {
				region.maxRow = rowIdx
			}
			if region.minCol < 0 || colIdx < region.minCol {
				region.minCol = colIdx
			}
			if region.maxCol < 0 || colIdx > region.maxCol {
				region.maxCol = colIdx
			}
		}
	}

	return region
}

// headerNames turns the header row into unique column names. Blank headers
// become "Unnamed: <i>" and repeats get ".1", ".2", ... suffixes.
func headerNames(cells []string, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	next := make(map[string]int, width)

	for i := 0; i < width; i++ {
		base := ""
		if i < len(cells) {
			base = strings.TrimSpace(cells[i])
		}
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}

		for k := next[base]; ; k++ {
			candidate := base
			if k > 0 {
				candidate = fmt.Sprintf("%s.%d", base, k)
			}
			if !used[candidate] {
				names[i] = candidate
				used[candidate] = true
				next[base] = k + 1
				break
			}
		}
	}

	return names
}
