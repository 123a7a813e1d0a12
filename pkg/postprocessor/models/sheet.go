package models

// SheetJob describes the work to perform on one worksheet.
type SheetJob struct {
	// Name is the worksheet name in the source workbook.
	Name string
	// Columns lists the source columns to process, in order.
	Columns []ColumnJob
}

// Validate checks the sheet and each of its column jobs, tagging errors
// with the sheet name.
func (s SheetJob) Validate() error {
	if s.Name == "" {
		return &ConfigurationError{Field: "sheet/name"}
	}
	if len(s.Columns) == 0 {
		return &ConfigurationError{Field: "source_column", Sheet: s.Name}
	}
	for _, col := range s.Columns {
		if err := col.Validate(); err != nil {
			if cfgErr, ok := err.(*ConfigurationError); ok {
				cfgErr.Sheet = s.Name
			}
			return err
		}
	}
	return nil
}
