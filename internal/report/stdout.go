package report

import (
	"fmt"
	"strings"

	"github.com/dataguard/dataguard/pkg/models"
)

// StdoutReporter narrates a validation run to stdout: a loading phase, a
// per-table result block with dot-leader-aligned rule rows, and a final
// pass/fail summary.
type StdoutReporter struct {
	intro string
}

// NewStdoutReporter builds a reporter that prints the given version in its
// banner.
func NewStdoutReporter(version string) *StdoutReporter {
	return &StdoutReporter{intro: fmt.Sprintf("DataGuard v%s - Validation Report", version)}
}

func (r *StdoutReporter) OnStart() {
	fmt.Println(r.intro)
	fmt.Println(strings.Repeat("=", len(r.intro)))
}

func (r *StdoutReporter) OnLoading() {
	fmt.Println("Loading data...")
}

func (r *StdoutReporter) OnTableLoad(current, total int, name string) {
	fmt.Printf("  [%d/%d] %s\n", current, total, name)
}

func (r *StdoutReporter) OnValidationStart() {
	fmt.Println("\nValidating...")
}

func (r *StdoutReporter) OnTableResult(result models.ValidationResult) {
	status := "FAILED"
	if result.Passed() {
		status = "PASSED"
	}
	fmt.Printf("\n%s (%s rows) - %s\n", result.TableName, formatCount(result.TotalRows), status)

	for _, col := range result.Columns {
		fmt.Printf("  %s:\n", col.Name)
		printRuleRows(col.Rules)
	}
	for _, rel := range result.Relations {
		fmt.Printf("  %s:\n", rel.PairLabel)
		printRuleRows(rel.Rules)
	}
}

func printRuleRows(ruleResults []models.RuleResult) {
	maxLen := 0
	for _, rule := range ruleResults {
		if len(rule.RuleName) > maxLen {
			maxLen = len(rule.RuleName)
		}
	}
	for _, rule := range ruleResults {
		dots := strings.Repeat(".", maxLen-len(rule.RuleName)+10)
		fmt.Printf("    %s %s %6s (%.2f%%)\n", rule.RuleName, dots, formatCount(rule.ErrorCount), rule.ErrorPercent)
	}
}

func (r *StdoutReporter) OnSummary(passed, failed int) {
	fmt.Println("\n===================================")
	fmt.Printf("Result: %d failed, %d passed\n", failed, passed)
}

func (r *StdoutReporter) OnWaiting() {
	fmt.Printf("\n%s\n", strings.Repeat("=", len(r.intro)))
	fmt.Println("Waiting for file changes...")
}
