package parser

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
	"github.com/xuri/excelize/v2"
)

// defaultSheetName is the sheet excelize.NewFile starts with.
const defaultSheetName = "Sheet1"

// LoadSheet reads one worksheet into a Dataset. The first non-empty row of
// the sheet's data region is the header row. An empty sheetName selects the
// workbook's active sheet.
func LoadSheet(path, sheetName string, opts ...excelize.Options) (*models.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.ResourceNotFoundError{Kind: "workbook", Path: path}
		}
		return nil, err
	}

	f, err := excelize.OpenFile(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, &models.WorksheetNotFoundError{Sheet: sheetName, Workbook: path}
	}

	formatted, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheetName, err)
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheetName, err)
	}

	region := findDataBounds(formatted)
	if region.empty() {
		return models.NewDataset(nil, nil)
	}

	width := region.width()
	columns := headerNames(sliceRow(formatted, region.minRow, region.minCol, width), width)

	general := make(map[int]bool)
	rows := make([][]any, 0, region.maxRow-region.minRow)
	for r := region.minRow + 1; r <= region.maxRow; r++ {
		row := make([]any, width)
		for c := 0; c < width; c++ {
			col := region.minCol + c
			row[c], err = cellValue(f, sheetName, r, col, cellAt(raw, r, col), cellAt(formatted, r, col), general)
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, row)
	}

	return models.NewDataset(columns, rows)
}

// cellValue types a cell. Text cells stay strings, booleans become bool and
// numbers in the General format become int64 or float64 at full precision.
// Numbers shown through any other number format (dates, percentages,
// custom codes) keep their displayed text. general caches the General
// check per style index.
func cellValue(f *excelize.File, sheet string, row, col int, raw, formatted string, general map[int]bool) (any, error) {
	if raw == "" && formatted == "" {
		return nil, nil
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s: %w", cell, err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return formatted, nil
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	}

	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to read style of cell %s: %w", cell, err)
	}
	isGeneral, ok := general[styleID]
	if !ok {
		isGeneral = generalFormat(f, styleID)
		general[styleID] = isGeneral
	}
	if !isGeneral {
		return formatted, nil
	}
	return parseValue(raw), nil
}

// generalFormat reports whether a cell style shows numbers in the General
// format. Workbooks without a style sheet only have General cells.
func generalFormat(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return true
	}
	return style.NumFmt == 0 && style.CustomNumFmt == nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// SaveSheet writes ds to a new single-sheet workbook at path. The header
// row holds the column names in dataset order and missing values are left
// as empty cells.
func SaveSheet(ds *models.Dataset, path, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if title == "" {
		title = defaultSheetName
	}
	if title != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, title); err != nil {
			return fmt.Errorf("failed to name sheet '%s': %w", title, err)
		}
	}

	for c, name := range ds.Columns() {
		if err := setCell(f, title, c, 0, name); err != nil {
			return err
		}
	}
	for r := 0; r < ds.Len(); r++ {
		for c, v := range ds.Row(r) {
			if v == nil {
				continue
			}
			if err := setCell(f, title, c, r+1, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook '%s': %w", path, err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func cellAt(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

func sliceRow(rows [][]string, r, from, width int) []string {
	out := make([]string, width)
	for i := range out {
		out[i] = cellAt(rows, r, from+i)
	}
	return out
}
