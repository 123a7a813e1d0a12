package postprocessor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/parser"
	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/transform"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Runner applies one rule document. A Runner is not safe for concurrent use.
type Runner struct {
	opts   Options
	logger *slog.Logger
	engine *transform.Engine
}

// New creates a Runner for opts. It fails with ErrFileNotFound if the rule
// document does not exist.
func New(opts Options) (*Runner, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = DefaultConfigPath
	}
	if _, err := os.Stat(opts.ConfigPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.ResourceNotFoundError{Kind: "configuration", Path: opts.ConfigPath}
		}
		return nil, err
	}

	logger := opts.logger()
	return &Runner{
		opts:   opts,
		logger: logger,
		engine: transform.NewEngine(logger),
	}, nil
}

// Process creates a Runner for opts and runs it.
func Process(opts Options) (*Report, error) {
	r, err := New(opts)
	if err != nil {
		return nil, err
	}
	return r.Run()
}

// RuleSet parses and validates the Runner's rule document.
func (r *Runner) RuleSet() (*models.RuleSet, error) {
	return parser.ParseRuleSet(r.opts.ConfigPath)
}

// Run processes every selected worksheet of the rule document.
//
// Configuration problems and a missing workbook abort the run with an
// error. Failures inside a worksheet are recorded in the Report and the
// run moves on to the next worksheet.
func (r *Runner) Run() (*Report, error) {
	rs, err := r.RuleSet()
	if err != nil {
		return nil, err
	}

	workbook, err := ResolveWorkbook(rs.Workbook, rs.Source)
	if err != nil {
		return nil, err
	}

	if r.opts.OutputDir != "" {
		if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	report := &Report{RunID: uuid.New().String(), Workbook: workbook}
	logger := r.logger.With("run_id", report.RunID)
	logger.Info("processing workbook", "workbook", workbook, "config", rs.Source, "sheets", len(rs.Sheets))

	for _, sheet := range rs.Sheets {
		if !r.opts.ShouldProcess(sheet.Name) {
			logger.Debug("sheet not selected", "sheet", sheet.Name)
			continue
		}
		report.Sheets = append(report.Sheets, r.runSheet(logger.With("sheet", sheet.Name), workbook, sheet))
	}
	return report, nil
}

func (r *Runner) runSheet(logger *slog.Logger, workbook string, sheet models.SheetJob) SheetResult {
	result := SheetResult{Name: sheet.Name}

	ds, err := parser.LoadSheet(workbook, sheet.Name, excelize.Options{Password: r.opts.Password})
	if err != nil {
		result.Err = &SheetError{Sheet: sheet.Name, Stage: StageLoad, Err: err}
		if errors.Is(err, models.ErrWorksheetNotFound) {
			result.Skipped = true
			logger.Warn(fmt.Sprintf("Worksheet %s not found; skipping.", sheet.Name))
		} else {
			logger.Error("failed to load sheet", "error", err)
		}
		return result
	}

	for _, col := range sheet.Columns {
		if err := r.engine.Apply(ds, col); err != nil {
			result.Err = &SheetError{Sheet: sheet.Name, Stage: StageTransform, Column: col.Source, Err: err}
			logger.Error("failed to apply rules", "column", col.Source, "error", err)
			return result
		}
		result.Derived = append(result.Derived, col.Targets()...)
	}

	output := OutputPath(workbook, sheet.Name, r.opts.OutputDir)
	if err := parser.SaveSheet(ds, output, sheet.Name); err != nil {
		result.Err = &SheetError{Sheet: sheet.Name, Stage: StageSave, Err: err}
		logger.Error("failed to write output", "path", output, "error", err)
		return result
	}

	result.Output = output
	result.Rows = ds.Len()
	logger.Info("sheet processed", "output", output, "rows", ds.Len(), "derived", len(result.Derived))
	return result
}

// ResolveWorkbook locates the workbook named in a rule document. The name
// is used as given when it exists, otherwise it is taken relative to the
// rule document's directory.
func ResolveWorkbook(name, configPath string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if !filepath.IsAbs(name) && configPath != "" {
		candidate := filepath.Join(filepath.Dir(configPath), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", &models.ResourceNotFoundError{Kind: "workbook", Path: name}
}

// sheetFileName replaces path separators in sheet names used as file names.
var sheetFileName = strings.NewReplacer("/", "_", `\`, "_")

// OutputPath names the output workbook for one worksheet:
// <source base>_<sheet><source ext>, placed in dir or next to the source.
func OutputPath(source, sheet, dir string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(filepath.Base(source), ext)
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, base+"_"+sheetFileName.Replace(sheet)+ext)
}
