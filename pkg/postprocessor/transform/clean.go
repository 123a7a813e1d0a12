package transform

import (
	"regexp"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
)

// CompileCleaning compiles a cleaning pattern.
func CompileCleaning(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &models.InvalidPatternError{Pattern: pattern, Reason: "does not compile", Err: err}
	}
	return re, nil
}

// Clean replaces every match of re in each string value. The replacement
// is expanded as in regexp.ReplaceAllString, so $1 and ${name} refer to
// capture groups. Non-string values are returned unchanged.
func Clean(values []any, re *regexp.Regexp, replacement string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			out[i] = v
			continue
		}
		out[i] = re.ReplaceAllString(s, replacement)
	}
	return out
}

// CleanColumn rewrites the live values of column in ds. The dataset's
// original snapshot is left untouched so the column can be restored.
func CleanColumn(ds *models.Dataset, column string, re *regexp.Regexp, replacement string) error {
	values, err := ds.Column(column)
	if err != nil {
		return err
	}
	return ds.SetColumn(column, Clean(values, re, replacement))
}
