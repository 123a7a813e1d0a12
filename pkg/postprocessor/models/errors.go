package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	// ErrConfiguration indicates a malformed or incomplete rule document.
	ErrConfiguration = errors.New("configuration error")
	// ErrColumnNotFound indicates a column is absent from a dataset.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidPattern indicates a regular expression that cannot be used.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrResourceNotFound indicates a workbook or rule document missing from disk.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrWorksheetNotFound indicates a sheet name absent from a workbook.
	ErrWorksheetNotFound = errors.New("worksheet not found")
)

// ConfigurationError reports a missing or unusable field in a rule document.
type ConfigurationError struct {
	// Field is the path of the offending field, e.g. "workbook/sheet/name".
	Field string
	// Sheet is the worksheet being described, when known.
	Sheet string
	// Column is the source column being described, when known.
	Column string
	// File is the rule document path.
	File string
	// Reason overrides the default "unable to find" wording.
	Reason string
	// Err is an underlying decode or parse error, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = fmt.Sprintf("unable to find '%s'", e.Field)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" for column '%s'", e.Column)
	}
	if e.Sheet != "" {
		msg += fmt.Sprintf(" in sheet '%s'", e.Sheet)
	}
	if e.File != "" {
		msg += fmt.Sprintf(" in file '%s'", e.File)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ColumnNotFoundError reports a column lookup that failed.
type ColumnNotFoundError struct {
	Column string
	// Where names the table searched ("dataset", "original dataset").
	Where string
}

func (e *ColumnNotFoundError) Error() string {
	where := e.Where
	if where == "" {
		where = "dataset"
	}
	return fmt.Sprintf("unable to find column '%s' in %s", e.Column, where)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// InvalidPatternError reports a pattern that does not compile or has no capture group.
type InvalidPatternError struct {
	Pattern string
	Reason  string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q: %s: %v", e.Pattern, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

func (e *InvalidPatternError) Is(target error) bool { return target == ErrInvalidPattern }

// ResourceNotFoundError reports a file that must exist before processing starts.
type ResourceNotFoundError struct {
	// Kind is "workbook" or "configuration".
	Kind string
	Path string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("unable to find %s file '%s'", e.Kind, e.Path)
}

func (e *ResourceNotFoundError) Is(target error) bool { return target == ErrResourceNotFound }

// WorksheetNotFoundError reports a sheet name that the workbook does not contain.
type WorksheetNotFoundError struct {
	Sheet    string
	Workbook string
}

func (e *WorksheetNotFoundError) Error() string {
	return fmt.Sprintf("worksheet '%s' not found in '%s'", e.Sheet, e.Workbook)
}

func (e *WorksheetNotFoundError) Is(target error) bool { return target == ErrWorksheetNotFound }
