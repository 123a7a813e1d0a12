package transform

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
)

// Engine applies column jobs to datasets. Compiled patterns are cached
// for the life of the engine, so one engine should serve a whole run.
type Engine struct {
	logger   *slog.Logger
	cleaning map[string]*regexp.Regexp
	extract  map[string]*regexp.Regexp
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		logger:   logger,
		cleaning: make(map[string]*regexp.Regexp),
		extract:  make(map[string]*regexp.Regexp),
	}
}

// Apply runs job against ds.
//
// Cleaning rules rewrite the source column in order. Each extraction rule
// then writes its target column and moves the source column to the end.
// If any cleaning ran, the source column is restored from the dataset's
// snapshot before returning. On error ds is left partially modified.
func (e *Engine) Apply(ds *models.Dataset, job models.ColumnJob) error {
	if !ds.HasColumn(job.Source) {
		return &models.ColumnNotFoundError{Column: job.Source}
	}

	cleaned := false
	for _, rule := range job.Rules {
		switch rule.Kind {
		case models.RuleClean:
			if err := e.clean(ds, job.Source, rule); err != nil {
				return err
			}
			cleaned = true
		case models.RuleExtract:
			if err := e.extractInto(ds, job.Source, rule); err != nil {
				return err
			}
		default:
			return fmt.Errorf("column '%s': unknown rule kind %v", job.Source, rule.Kind)
		}
	}

	if cleaned {
		if err := ds.Restore(job.Source); err != nil {
			return err
		}
		e.logger.Debug("restored source column", "column", job.Source)
	}
	return nil
}

func (e *Engine) clean(ds *models.Dataset, source string, rule models.Rule) error {
	if len(rule.Patterns) != 1 {
		return fmt.Errorf("column '%s': cleaning rule needs exactly one pattern, got %d", source, len(rule.Patterns))
	}
	re, err := e.compile(e.cleaning, rule.Patterns[0], CompileCleaning)
	if err != nil {
		return err
	}
	if err := CleanColumn(ds, source, re, rule.Replace); err != nil {
		return err
	}
	e.logger.Debug("cleaned column", "column", source, "pattern", rule.Patterns[0])
	return nil
}

func (e *Engine) extractInto(ds *models.Dataset, source string, rule models.Rule) error {
	compiled := make([]*regexp.Regexp, 0, len(rule.Patterns))
	for _, p := range rule.Patterns {
		re, err := e.compile(e.extract, p, CompileExtraction)
		if err != nil {
			return err
		}
		compiled = append(compiled, re)
	}

	values, err := ds.Column(source)
	if err != nil {
		return err
	}
	derived := Extract(values, compiled...)
	if err := ds.SetColumn(rule.Target, derived); err != nil {
		return err
	}

	// Long free text reads better after the short derived columns.
	if err := ds.MoveToEnd(source); err != nil {
		return err
	}

	e.logger.Debug("extracted column",
		"source", source,
		"target", rule.Target,
		"patterns", len(compiled),
		"matched", countPresent(derived),
		"rows", len(derived),
	)
	return nil
}

func (e *Engine) compile(cache map[string]*regexp.Regexp, pattern string, compile func(string) (*regexp.Regexp, error)) (*regexp.Regexp, error) {
	if re, ok := cache[pattern]; ok {
		return re, nil
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	cache[pattern] = re
	return re, nil
}

func countPresent(values []any) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}
