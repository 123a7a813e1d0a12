package postprocessor

import (
	"fmt"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
)

// ErrFileNotFound indicates the rule document or the workbook does not exist.
var ErrFileNotFound = models.ErrResourceNotFound

// Stage is the step of a worksheet job that failed.
type Stage string

const (
	StageLoad      Stage = "load"
	StageTransform Stage = "transform"
	StageSave      Stage = "save"
)

// SheetError records why one worksheet of a rule document produced no
// output workbook. The run itself carries on with the next worksheet.
type SheetError struct {
	Sheet string
	Stage Stage
	// Column is the source column whose rules failed. Set for StageTransform.
	Column string
	Err    error
}

func (e *SheetError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("unable to %s column '%s' of worksheet '%s': %v", e.Stage, e.Column, e.Sheet, e.Err)
	}
	return fmt.Sprintf("unable to %s worksheet '%s': %v", e.Stage, e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
