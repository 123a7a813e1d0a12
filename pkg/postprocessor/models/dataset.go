// Package models defines the in-memory table and rule types used by the postprocessor.
package models

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// Dataset is an in-memory table of named columns aligned by row index.
//
// Cell values are string, int64, float64, bool, or nil for a missing value.
// A deep copy of every column is taken at construction so that columns
// rewritten by cleaning can later be restored.
type Dataset struct {
	// columns is the display order of column names.
	columns []string
	// cells maps column name to its live values.
	cells map[string][]any
	// original maps column name to the values present at construction.
	original map[string][]any
	// rows is the row count shared by every column.
	rows int
}

// NewDataset builds a dataset from column names and row-major values.
// Rows shorter than the header are padded with nil; longer rows are an error.
func NewDataset(columns []string, rows [][]any) (*Dataset, error) {
	d := &Dataset{
		columns: make([]string, 0, len(columns)),
		cells:   make(map[string][]any, len(columns)),
		rows:    len(rows),
	}

	for _, name := range columns {
		if _, dup := d.cells[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		d.columns = append(d.columns, name)
		d.cells[name] = make([]any, len(rows))
	}

	for r, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", r, len(row), len(columns))
		}
		for c, value := range row {
			d.cells[columns[c]][r] = value
		}
	}

	if err := deepcopy.Copy(&d.original, d.cells); err != nil {
		return nil, fmt.Errorf("snapshot dataset: %w", err)
	}
	return d, nil
}

// Columns returns the column names in display order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.rows
}

// HasColumn reports whether the live table contains name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.cells[name]
	return ok
}

// Column returns a copy of the live values of a column.
func (d *Dataset) Column(name string) ([]any, error) {
	values, ok := d.cells[name]
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	out := make([]any, len(values))
	copy(out, values)
	return out, nil
}

// Original returns a copy of a column as it was when the dataset was built.
func (d *Dataset) Original(name string) ([]any, error) {
	values, ok := d.original[name]
	if !ok {
		return nil, &ColumnNotFoundError{Column: name, Where: "original dataset"}
	}
	out := make([]any, len(values))
	copy(out, values)
	return out, nil
}

// SetColumn creates or overwrites a column. Values are assigned by row
// position and rows past the end of values are set to nil.
func (d *Dataset) SetColumn(name string, values []any) error {
	if len(values) > d.rows {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), d.rows)
	}

	aligned := make([]any, d.rows)
	copy(aligned, values)

	if _, exists := d.cells[name]; !exists {
		d.columns = append(d.columns, name)
	}
	d.cells[name] = aligned
	return nil
}

// MoveToEnd moves a column to the last position, keeping the relative
// order of the other columns.
func (d *Dataset) MoveToEnd(name string) error {
	if _, ok := d.cells[name]; !ok {
		return &ColumnNotFoundError{Column: name}
	}

	reordered := make([]string, 0, len(d.columns))
	for _, c := range d.columns {
		if c != name {
			reordered = append(reordered, c)
		}
	}
	d.columns = append(reordered, name)
	return nil
}

// Restore copies a column's original values back into the live table.
func (d *Dataset) Restore(name string) error {
	if _, ok := d.cells[name]; !ok {
		return &ColumnNotFoundError{Column: name, Where: "modified dataset"}
	}
	original, ok := d.original[name]
	if !ok {
		return &ColumnNotFoundError{Column: name, Where: "original dataset"}
	}

	restored := make([]any, len(original))
	copy(restored, original)
	d.cells[name] = restored
	return nil
}

// Row returns the values of row i in display column order.
func (d *Dataset) Row(i int) []any {
	if i < 0 || i >= d.rows {
		return nil
	}
	row := make([]any, len(d.columns))
	for c, name := range d.columns {
		row[c] = d.cells[name][i]
	}
	return row
}
