// Package transform applies cleaning and extraction rules to dataset columns.
package transform

import (
	"regexp"

	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor/models"
)

// CompileExtraction compiles an extraction pattern and checks that it has
// a capture group to extract.
func CompileExtraction(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &models.InvalidPatternError{Pattern: pattern, Reason: "does not compile", Err: err}
	}
	if re.NumSubexp() == 0 {
		return nil, &models.InvalidPatternError{Pattern: pattern, Reason: "pattern contains no capture groups"}
	}
	return re, nil
}

// Extract returns, for each value, the first capture group of the first
// pattern that matches it. Values no pattern matches, and values that are
// not strings, yield nil.
func Extract(values []any, patterns ...*regexp.Regexp) []any {
	out := make([]any, len(values))
	for _, re := range patterns {
		for i, v := range values {
			if out[i] != nil {
				continue
			}
			out[i] = firstGroup(re, v)
		}
	}
	return out
}

// ExtractStrings compiles patterns and runs Extract.
func ExtractStrings(values []any, patterns ...string) ([]any, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := CompileExtraction(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return Extract(values, compiled...), nil
}

func firstGroup(re *regexp.Regexp, v any) any {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	loc := re.FindStringSubmatchIndex(s)
	// loc[2:4] is group 1; -1 means the group did not take part in the match.
	if loc == nil || loc[2] < 0 {
		return nil
	}
	return s[loc[2]:loc[3]]
}
