package models

import "fmt"

// RuleKind discriminates the variants of Rule.
type RuleKind int

const (
	// RuleClean rewrites the source column with a regex substitution.
	RuleClean RuleKind = iota
	// RuleExtract derives a new column from the first capture group.
	RuleExtract
)

func (k RuleKind) String() string {
	switch k {
	case RuleClean:
		return "clean"
	case RuleExtract:
		return "extract"
	default:
		return fmt.Sprintf("RuleKind(%d)", int(k))
	}
}

// Rule is one step of a ColumnJob. Only the fields of its Kind are set.
type Rule struct {
	Kind RuleKind
	// Patterns holds one pattern for a cleaning rule and an ordered
	// fallback list for an extraction rule.
	Patterns []string
	// Replace is the replacement text of a cleaning rule.
	Replace string
	// Target is the derived column written by an extraction rule.
	Target string
}

// CleaningRule returns a Rule that substitutes replace for every match of pattern.
func CleaningRule(pattern, replace string) Rule {
	return Rule{Kind: RuleClean, Patterns: []string{pattern}, Replace: replace}
}

// ExtractionRule returns a Rule that writes the first capture group of the
// first matching pattern into target.
func ExtractionRule(target string, patterns ...string) Rule {
	return Rule{Kind: RuleExtract, Patterns: patterns, Target: target}
}

// ColumnJob binds a source column to its cleaning and extraction rules.
type ColumnJob struct {
	// Source is the free-text column the rules read.
	Source string
	// Rules lists cleaning rules first, then extraction rules.
	Rules []Rule
}

// Cleans reports whether the job rewrites its source column.
func (j ColumnJob) Cleans() bool {
	for _, r := range j.Rules {
		if r.Kind == RuleClean {
			return true
		}
	}
	return false
}

// Targets returns the derived column names in rule order.
func (j ColumnJob) Targets() []string {
	var targets []string
	for _, r := range j.Rules {
		if r.Kind == RuleExtract {
			targets = append(targets, r.Target)
		}
	}
	return targets
}

// Validate checks the job's structural invariants.
func (j ColumnJob) Validate() error {
	if j.Source == "" {
		return &ConfigurationError{Field: "source_column/name"}
	}

	extracting := false
	for i, r := range j.Rules {
		switch r.Kind {
		case RuleClean:
			if extracting {
				return &ConfigurationError{
					Field:  "cleaning",
					Column: j.Source,
					Reason: fmt.Sprintf("cleaning rule %d follows an extraction", i+1),
				}
			}
			if len(r.Patterns) != 1 || r.Patterns[0] == "" {
				return &ConfigurationError{Field: "cleaning/pattern", Column: j.Source}
			}
		case RuleExtract:
			extracting = true
			if len(r.Patterns) == 0 {
				return &ConfigurationError{Field: "extract/pattern", Column: j.Source}
			}
			if r.Target == "" {
				return &ConfigurationError{Field: "extract/new_column", Column: j.Source}
			}
		default:
			return &ConfigurationError{
				Field:  "rule",
				Column: j.Source,
				Reason: fmt.Sprintf("unknown rule kind %v", r.Kind),
			}
		}
	}

	if !extracting {
		return &ConfigurationError{Field: "extract", Column: j.Source}
	}
	return nil
}
