// Package postprocessor applies rule documents to Excel workbooks: each
// configured worksheet is loaded, its free-text columns are cleaned and
// mined with regular expressions, and the result is written to a new
// workbook next to the source.
package postprocessor

import (
	"log/slog"
	"slices"
)

// DefaultConfigPath is the rule document used when none is given.
const DefaultConfigPath = "excel_postprocessor.xml"

// Options configures a run.
type Options struct {
	// ConfigPath is the rule document (XML or YAML).
	ConfigPath string
	// OutputDir receives the output workbooks. If empty, each output is
	// written next to the source workbook.
	OutputDir string
	// Password opens an encrypted source workbook.
	Password string
	// Sheets limits the run to the named worksheets. If empty, every
	// worksheet in the rule document is processed.
	Sheets []string
	// Logger receives progress and diagnostics. If nil, logs are discarded.
	Logger *slog.Logger
}

// DefaultOptions returns default run options.
func DefaultOptions() Options {
	return Options{
		ConfigPath: DefaultConfigPath,
	}
}

// ShouldProcess returns whether the named worksheet is part of the run.
func (o Options) ShouldProcess(sheet string) bool {
	return len(o.Sheets) == 0 || slices.Contains(o.Sheets, sheet)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
