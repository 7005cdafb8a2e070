package builder

import "github.com/dataguard/dataguard/pkg/models"

// StringBuilder accumulates rules for a string column.
type StringBuilder struct {
	spec models.ColumnSpec
}

// String starts a new string column declaration under name.
func String(name string) *StringBuilder {
	return &StringBuilder{spec: models.ColumnSpec{Name: name, Type: models.TypeString}}
}

// Build returns the accumulated column spec.
func (b *StringBuilder) Build() models.ColumnSpec { return b.spec }

func (b *StringBuilder) rule(d models.RuleDeclaration) *StringBuilder {
	b.spec.Rules = append(b.spec.Rules, d)
	return b
}

// NotNull rejects null cells beyond threshold.
func (b *StringBuilder) NotNull(threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleNullCheck, Name: "NullCheck", Threshold: threshold})
}

// Unique requires cells to be distinct across the whole table, beyond threshold.
func (b *StringBuilder) Unique(threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleUnicity, Name: "Unicity", Threshold: threshold})
}

// LengthBetween requires min <= len(cell) <= max.
func (b *StringBuilder) LengthBetween(min, max int, threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleStringLength, Name: "LengthBetween", Threshold: threshold,
		MinLen: &min, MaxLen: &max,
	})
}

// MinLength requires len(cell) >= min.
func (b *StringBuilder) MinLength(min int, threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleStringLength, Name: "MinLength", Threshold: threshold, MinLen: &min,
	})
}

// MaxLength requires len(cell) <= max.
func (b *StringBuilder) MaxLength(max int, threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleStringLength, Name: "MaxLength", Threshold: threshold, MaxLen: &max,
	})
}

// ExactLength requires len(cell) == n.
func (b *StringBuilder) ExactLength(n int, threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleStringLength, Name: "ExactLength", Threshold: threshold, MinLen: &n, MaxLen: &n,
	})
}

// In requires the cell to be one of members.
func (b *StringBuilder) In(members []string, threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleStringMembers, Name: "In", Threshold: threshold, Members: members,
	})
}

// Regex requires the cell to match pattern. The pattern is compiled when the
// column is compiled, not here; an invalid pattern surfaces as a build
// error at that point.
func (b *StringBuilder) Regex(pattern string, caseInsensitive bool, threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleStringRegex, Name: "Regex", Threshold: threshold,
		Pattern: pattern, CaseInsensitive: caseInsensitive,
	})
}

func (b *StringBuilder) namedRegex(name, pattern string, threshold float64) *StringBuilder {
	return b.rule(models.RuleDeclaration{
		Kind: models.RuleStringRegex, Name: name, Threshold: threshold, Pattern: pattern,
	})
}

// Numeric requires the cell to contain only digits.
func (b *StringBuilder) Numeric(threshold float64) *StringBuilder {
	return b.namedRegex("Numeric", `^\d+$`, threshold)
}

// Alpha requires the cell to contain only letters.
func (b *StringBuilder) Alpha(threshold float64) *StringBuilder {
	return b.namedRegex("Alpha", `^[a-zA-Z]+$`, threshold)
}

// AlphaNumeric requires the cell to contain only letters and digits.
func (b *StringBuilder) AlphaNumeric(threshold float64) *StringBuilder {
	return b.namedRegex("AlphaNumeric", `^[a-zA-Z0-9]+$`, threshold)
}

// Lowercase requires the cell to contain no uppercase letters.
func (b *StringBuilder) Lowercase(threshold float64) *StringBuilder {
	return b.namedRegex("Lowercase", `^[a-z0-9\s-]+$`, threshold)
}

// Uppercase requires the cell to contain no lowercase letters.
func (b *StringBuilder) Uppercase(threshold float64) *StringBuilder {
	return b.namedRegex("Uppercase", `^[A-Z0-9\s-]+$`, threshold)
}

// URL requires the cell to look like an http(s) URL.
func (b *StringBuilder) URL(threshold float64) *StringBuilder {
	return b.namedRegex("URL", `^https?://[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, threshold)
}

// Email requires the cell to look like an email address.
func (b *StringBuilder) Email(threshold float64) *StringBuilder {
	return b.namedRegex("Email", `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`, threshold)
}

// UUID requires the cell to be a canonical hyphenated UUID.
func (b *StringBuilder) UUID(threshold float64) *StringBuilder {
	return b.namedRegex("UUID", `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`, threshold)
}
