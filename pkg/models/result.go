package models

// RuleResult is the outcome of one (column-or-pair, rule) check.
type RuleResult struct {
	RuleName      string  `json:"ruleName"`
	ErrorCount    int64   `json:"errorCount"`
	Tolerance     float64 `json:"tolerance"`
	ErrorPercent  float64 `json:"errorPercent"`
	Passed        bool    `json:"passed"`
	Notice        string  `json:"notice,omitempty"`
}

// ColumnResult groups every rule outcome recorded for one column.
type ColumnResult struct {
	Name  string       `json:"name"`
	Rules []RuleResult `json:"rules"`
}

// RelationResult groups every rule outcome recorded for one column pair.
type RelationResult struct {
	PairLabel string       `json:"pairLabel"`
	Rules     []RuleResult `json:"rules"`
}

// ValidationResult is the finalized report for a single table.
type ValidationResult struct {
	TableName string           `json:"name"`
	TotalRows int64            `json:"nRows"`
	Columns   []ColumnResult   `json:"columns"`
	Relations []RelationResult `json:"relations,omitempty"`
	Partial   bool             `json:"partial,omitempty"`
}

// Passed reports whether every rule in the result passed.
func (r ValidationResult) Passed() bool {
	for _, c := range r.Columns {
		for _, rule := range c.Rules {
			if !rule.Passed {
				return false
			}
		}
	}
	for _, rel := range r.Relations {
		for _, rule := range rel.Rules {
			if !rule.Passed {
				return false
			}
		}
	}
	return true
}
