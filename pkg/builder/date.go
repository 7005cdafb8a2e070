package builder

import "github.com/dataguard/dataguard/pkg/models"

// DateBuilder accumulates rules for a date column. format is a
// caller-supplied strftime-style layout (e.g. "%Y-%m-%d") applied when
// casting the column's string cells.
type DateBuilder struct {
	spec models.ColumnSpec
}

// Date starts a new date column declaration under name, parsed with format.
func Date(name, format string) *DateBuilder {
	return &DateBuilder{spec: models.ColumnSpec{Name: name, Type: models.TypeDate, DateFormat: format}}
}

// Build returns the accumulated column spec.
func (b *DateBuilder) Build() models.ColumnSpec { return b.spec }

func (b *DateBuilder) rule(d models.RuleDeclaration) *DateBuilder {
	b.spec.Rules = append(b.spec.Rules, d)
	return b
}

// NotNull rejects null cells beyond threshold.
func (b *DateBuilder) NotNull(threshold float64) *DateBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleNullCheck, Name: "NullCheck", Threshold: threshold})
}

// Unique requires cells to be distinct across the whole table.
func (b *DateBuilder) Unique(threshold float64) *DateBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleUnicity, Name: "Unicity", Threshold: threshold})
}

// Before requires the date to fall strictly before year-month-day; month and
// day default to the start of the period when omitted (nil).
func (b *DateBuilder) Before(year int, month, day *int, threshold float64) *DateBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleDateBoundary, Name: "Before", Threshold: threshold,
		After: false, Year: year, Month: month, Day: day,
	})
}

// After requires the date to fall strictly after year-month-day.
func (b *DateBuilder) After(year int, month, day *int, threshold float64) *DateBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleDateBoundary, Name: "After", Threshold: threshold,
		After: true, Year: year, Month: month, Day: day,
	})
}

// Weekday requires the date to fall on a weekday (Mon-Fri); weekend dates
// are violations. Weekend allows the inverse: weekday dates are violations.
func (b *DateBuilder) Weekday(isWeek bool, threshold float64) *DateBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleWeekDay, Name: "WeekDay", Threshold: threshold, IsWeek: isWeek})
}
