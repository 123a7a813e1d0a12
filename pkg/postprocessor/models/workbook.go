package models

// RuleSet is a fully decoded rule document.
type RuleSet struct {
	// Workbook is the source spreadsheet path.
	Workbook string
	// Sheets lists the worksheet jobs in document order.
	Sheets []SheetJob
	// Source is the rule document path, used in diagnostics.
	Source string
}

// Validate checks the whole rule set, tagging errors with the document path.
func (rs RuleSet) Validate() error {
	err := rs.validate()
	if cfgErr, ok := err.(*ConfigurationError); ok && cfgErr.File == "" {
		cfgErr.File = rs.Source
	}
	return err
}

func (rs RuleSet) validate() error {
	if rs.Workbook == "" {
		return &ConfigurationError{Field: "workbook/name"}
	}
	if len(rs.Sheets) == 0 {
		return &ConfigurationError{Field: "workbook/sheet"}
	}
	seen := make(map[string]bool, len(rs.Sheets))
	for _, sheet := range rs.Sheets {
		if err := sheet.Validate(); err != nil {
			return err
		}
		// Each sheet job writes <workbook>_<sheet>, so names must be unique.
		if seen[sheet.Name] {
			return &ConfigurationError{Field: "sheet/name", Sheet: sheet.Name, Reason: "'sheet/name' is repeated"}
		}
		seen[sheet.Name] = true
	}
	return nil
}
