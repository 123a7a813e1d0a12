package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Raw shapes of a rule document. Pointers tell a missing field apart from
// an empty one. Every repeatable element decodes into a slice whether the
// document holds one of it or many.
type (
	ruleDocument struct {
		Workbook *workbookNode `mapstructure:"workbook"`
	}

	workbookNode struct {
		Name   *string     `mapstructure:"name"`
		Sheets []sheetNode `mapstructure:"sheet"`
	}

	sheetNode struct {
		Name    *string      `mapstructure:"name"`
		Columns []columnNode `mapstructure:"source_column"`
	}

	columnNode struct {
		Name     *string        `mapstructure:"name"`
		Cleaning []cleaningNode `mapstructure:"cleaning"`
		Extract  []extractNode  `mapstructure:"extract"`
	}

	cleaningNode struct {
		Pattern *string `mapstructure:"pattern"`
		Replace *string `mapstructure:"replace"`
	}

	extractNode struct {
		Patterns  []string `mapstructure:"pattern"`
		NewColumn *string  `mapstructure:"new_column"`
	}
)

// ParseRuleSet reads the rule document at path. Files ending in .yaml or
// .yml are read as YAML, everything else as XML.
func ParseRuleSet(path string) (*models.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.ResourceNotFoundError{Kind: "configuration", Path: path}
		}
		return nil, err
	}

	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		doc, err = decodeXMLDocument(bytes.NewReader(data))
	}
	if err != nil {
		return nil, &models.ConfigurationError{
			Reason: "unable to parse rule document",
			File:   path,
			Err:    err,
		}
	}

	return DecodeRuleSet(doc, path)
}

// DecodeRuleSet builds a RuleSet from a decoded document tree. source is
// the document path and is only used in error messages.
func DecodeRuleSet(doc map[string]any, source string) (*models.RuleSet, error) {
	var raw ruleDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       liftToSlice,
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, &models.ConfigurationError{
			Reason: "unable to read rule document",
			File:   source,
			Err:    err,
		}
	}

	rs, err := raw.ruleSet()
	if err != nil {
		var cfgErr *models.ConfigurationError
		if errors.As(err, &cfgErr) && cfgErr.File == "" {
			cfgErr.File = source
		}
		return nil, err
	}
	rs.Source = source

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// liftToSlice wraps a lone value in a slice when the target is a slice,
// and treats an empty element as absent when the target is a struct.
func liftToSlice(from reflect.Type, to reflect.Type, data any) (any, error) {
	if s, ok := data.(string); ok && strings.TrimSpace(s) == "" && wantsStruct(to) {
		return nil, nil
	}
	if to.Kind() != reflect.Slice || from.Kind() == reflect.Slice {
		return data, nil
	}
	return []any{data}, nil
}

func wantsStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func (d ruleDocument) ruleSet() (*models.RuleSet, error) {
	wb := d.Workbook
	if wb == nil {
		return nil, &models.ConfigurationError{Field: "workbook"}
	}
	name, err := required(wb.Name, "workbook/name")
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, &models.ConfigurationError{Field: "workbook/sheet"}
	}

	rs := &models.RuleSet{Workbook: name}
	for _, node := range wb.Sheets {
		sheet, err := node.sheetJob()
		if err != nil {
			return nil, err
		}
		rs.Sheets = append(rs.Sheets, sheet)
	}
	return rs, nil
}

func (s sheetNode) sheetJob() (models.SheetJob, error) {
	name, err := required(s.Name, "sheet/name")
	if err != nil {
		return models.SheetJob{}, err
	}
	if len(s.Columns) == 0 {
		return models.SheetJob{}, &models.ConfigurationError{Field: "source_column", Sheet: name}
	}

	job := models.SheetJob{Name: name}
	for _, node := range s.Columns {
		col, err := node.columnJob()
		if err != nil {
			var cfgErr *models.ConfigurationError
			if errors.As(err, &cfgErr) {
				cfgErr.Sheet = name
			}
			return models.SheetJob{}, err
		}
		job.Columns = append(job.Columns, col)
	}
	return job, nil
}

func (c columnNode) columnJob() (models.ColumnJob, error) {
	source, err := required(c.Name, "source_column/name")
	if err != nil {
		return models.ColumnJob{}, err
	}
	job := models.ColumnJob{Source: source}

	for _, node := range c.Cleaning {
		pattern, err := required(node.Pattern, "cleaning/pattern")
		if err != nil {
			return models.ColumnJob{}, withColumn(err, source)
		}
		if node.Replace == nil {
			return models.ColumnJob{}, &models.ConfigurationError{Field: "cleaning/replace", Column: source}
		}
		job.Rules = append(job.Rules, models.CleaningRule(pattern, *node.Replace))
	}

	if len(c.Extract) == 0 {
		return models.ColumnJob{}, &models.ConfigurationError{Field: "extract", Column: source}
	}
	for _, node := range c.Extract {
		var patterns []string
		for _, p := range node.Patterns {
			if p != "" {
				patterns = append(patterns, p)
			}
		}
		if len(patterns) == 0 {
			return models.ColumnJob{}, &models.ConfigurationError{Field: "extract/pattern", Column: source}
		}
		target, err := required(node.NewColumn, "extract/new_column")
		if err != nil {
			return models.ColumnJob{}, withColumn(err, source)
		}
		job.Rules = append(job.Rules, models.ExtractionRule(target, patterns...))
	}
	return job, nil
}

// required dereferences a mandatory text field.
func required(value *string, field string) (string, error) {
	if value == nil {
		return "", &models.ConfigurationError{Field: field}
	}
	if *value == "" {
		return "", &models.ConfigurationError{Field: field, Reason: fmt.Sprintf("'%s' is empty", field)}
	}
	return *value, nil
}

func withColumn(err error, column string) error {
	var cfgErr *models.ConfigurationError
	if errors.As(err, &cfgErr) {
		cfgErr.Column = column
	}
	return err
}
