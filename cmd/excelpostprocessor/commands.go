package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/DBMI/ExcelPostprocessor/internal/config"
	"github.com/DBMI/ExcelPostprocessor/internal/logging"
	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor"
	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var settingsFile string

// errPartialFailure is returned by run when some sheets were not written.
var errPartialFailure = errors.New("one or more sheets were not processed")

func loadSettings(cmd *cobra.Command) (*config.Settings, *slog.Logger, error) {
	s, err := config.Load(settingsFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return s, logging.Setup(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat), nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply the rule document and write one workbook per sheet",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
	cmd.Flags().Bool("summary", false, "Print a summary table after processing")
	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	s, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	opts := s.Options()
	opts.Logger = logger

	report, err := postprocessor.Process(opts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, path := range report.Outputs() {
		fmt.Fprintf(out, "Created file '%s'.\n", path)
	}
	if s.Summary {
		renderReport(out, report)
	}

	if !report.Success() {
		logger.Error("run incomplete", "error", report.Err())
		return errPartialFailure
	}
	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the rule document and list its rules",
		Args:  cobra.NoArgs,
		RunE:  validateRules,
	}
}

func validateRules(cmd *cobra.Command, args []string) error {
	s, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	opts := s.Options()
	opts.Logger = logger
	runner, err := postprocessor.New(opts)
	if err != nil {
		return err
	}
	rs, err := runner.RuleSet()
	if err != nil {
		return err
	}

	if _, err := postprocessor.ResolveWorkbook(rs.Workbook, rs.Source); err != nil {
		logger.Warn("workbook not found", "workbook", rs.Workbook)
	}
	renderRuleSet(cmd.OutOrStdout(), rs)
	return nil
}

func renderRuleSet(w io.Writer, rs *models.RuleSet) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(rs.Workbook)
	t.AppendHeader(table.Row{"Sheet", "Column", "Rule", "Pattern", "Result"})

	for _, sheet := range rs.Sheets {
		for _, col := range sheet.Columns {
			for _, rule := range col.Rules {
				result := rule.Target
				if rule.Kind == models.RuleClean {
					result = fmt.Sprintf("%q", rule.Replace)
				}
				t.AppendRow(table.Row{sheet.Name, col.Source, rule.Kind, strings.Join(rule.Patterns, "\n"), result})
			}
		}
	}

	t.Render()
}

func renderReport(w io.Writer, report *postprocessor.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Sheet", "Status", "Rows", "Derived", "Output"})

	for _, s := range report.Sheets {
		status := "ok"
		switch {
		case s.Skipped:
			status = "skipped"
		case s.Err != nil:
			status = "failed"
		}
		t.AppendRow(table.Row{s.Name, status, s.Rows, strings.Join(s.Derived, ", "), s.Output})
	}

	t.Render()
}
