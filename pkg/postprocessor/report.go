package postprocessor

import "errors"

// SheetResult is the outcome of one worksheet job.
type SheetResult struct {
	Name string
	// Output is the written workbook path, empty if the job failed.
	Output string
	// Rows is the number of data rows written.
	Rows int
	// Derived lists the extracted column names in rule order.
	Derived []string
	// Skipped is set when the worksheet does not exist in the workbook.
	Skipped bool
	Err     error
}

// Report collects the results of a run.
type Report struct {
	// RunID tags every log record of the run.
	RunID string
	// Workbook is the resolved source workbook path.
	Workbook string
	Sheets   []SheetResult
}

// Success reports whether every worksheet job produced its output.
func (r *Report) Success() bool {
	for _, s := range r.Sheets {
		if s.Err != nil {
			return false
		}
	}
	return true
}

// Outputs returns the written workbook paths in job order.
func (r *Report) Outputs() []string {
	var paths []string
	for _, s := range r.Sheets {
		if s.Output != "" {
			paths = append(paths, s.Output)
		}
	}
	return paths
}

// Err joins the worksheet errors, or returns nil if there were none.
func (r *Report) Err() error {
	var errs []error
	for _, s := range r.Sheets {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}
