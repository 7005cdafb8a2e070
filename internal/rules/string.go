package rules

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/cespare/xxhash/v2"
)

// StringLengthCheck counts cells whose UTF-8 codepoint length falls outside
// [Min, Max]; either bound may be absent.
type StringLengthCheck struct {
	Name      string
	Threshold float64
	Min, Max  *int
}

func (c *StringLengthCheck) RuleName() string     { return c.Name }
func (c *StringLengthCheck) GetThreshold() float64 { return c.Threshold }

// Validate returns the number of non-null cells violating the bounds.
func (c *StringLengthCheck) Validate(arr *array.String) int64 {
	var violations int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		n := utf8.RuneCountInString(arr.Value(i))
		if c.Min != nil && n < *c.Min {
			violations++
			continue
		}
		if c.Max != nil && n > *c.Max {
			violations++
		}
	}
	return violations
}

// RegexMatch matches non-null cells against a pattern compiled once at
// build time; compilation failure must surface as a build error, not at
// validation time (spec.md §4.1, §4.4).
type RegexMatch struct {
	Name            string
	Threshold       float64
	Pattern         string
	CaseInsensitive bool
	compiled        *regexp.Regexp
}

// NewRegexMatch compiles pattern immediately, returning an error the
// compiler can surface as a build error.
func NewRegexMatch(name string, threshold float64, pattern string, caseInsensitive bool) (*RegexMatch, error) {
	expr := pattern
	if caseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q for rule %q: %w", pattern, name, err)
	}
	return &RegexMatch{Name: name, Threshold: threshold, Pattern: pattern, CaseInsensitive: caseInsensitive, compiled: re}, nil
}

func (c *RegexMatch) RuleName() string     { return c.Name }
func (c *RegexMatch) GetThreshold() float64 { return c.Threshold }

// Validate counts non-null cells that do not match the compiled pattern.
func (c *RegexMatch) Validate(arr *array.String) int64 {
	var violations int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		if !c.compiled.MatchString(arr.Value(i)) {
			violations++
		}
	}
	return violations
}

// MembershipCheck tests cells against a pre-hashed set of allowed values.
// Collisions are treated as matches: acceptable given 2⁻⁶⁴ probability at
// realistic table sizes (spec.md §4.1).
type MembershipCheck struct {
	Name      string
	Threshold float64
	Members   []string
	hashes    map[uint64]struct{}
}

// NewMembershipCheck pre-hashes members at build time.
func NewMembershipCheck(name string, threshold float64, members []string) *MembershipCheck {
	hashes := make(map[uint64]struct{}, len(members))
	for _, m := range members {
		hashes[xxhash.Sum64String(m)] = struct{}{}
	}
	return &MembershipCheck{Name: name, Threshold: threshold, Members: members, hashes: hashes}
}

func (c *MembershipCheck) RuleName() string     { return c.Name }
func (c *MembershipCheck) GetThreshold() float64 { return c.Threshold }

// Validate counts non-null cells whose hash is absent from the member set.
func (c *MembershipCheck) Validate(arr *array.String) int64 {
	var violations int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		if _, ok := c.hashes[xxhash.Sum64String(arr.Value(i))]; !ok {
			violations++
		}
	}
	return violations
}

// StringRule is any domain rule that validates a string array.
type StringRule interface {
	RuleName() string
	GetThreshold() float64
	Validate(arr *array.String) int64
}
