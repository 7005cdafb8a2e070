package rules

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// DayCount is days since 1970-01-01 (signed), matching arrow.Date32's
// native representation (spec.md §4.1, §9).
type DayCount = arrow.Date32

// epochDaysForYMD computes the compile-time threshold for
// DateBoundaryCheck from (year, month?, day?), defaulting month=1, day=1.
func epochDaysForYMD(year int, month, day *int) (DayCount, error) {
	m := 1
	if month != nil {
		m = *month
	}
	d := 1
	if day != nil {
		d = *day
	}
	if m < 1 || m > 12 {
		return 0, fmt.Errorf("invalid month %d", m)
	}
	if d < 1 || d > 31 {
		return 0, fmt.Errorf("invalid day %d", d)
	}
	t := dateUTC(year, m, d)
	if t.Day() != d {
		return 0, fmt.Errorf("invalid day %d for month %d", d, m)
	}
	return arrow.Date32FromTime(t), nil
}

// DateBoundaryCheck requires every non-null date to fall strictly after (or
// strictly before) a threshold day-count; equality is a violation in both
// directions (spec.md §4.1).
type DateBoundaryCheck struct {
	Name      string
	Threshold float64
	After     bool
	boundary  DayCount
}

// NewDateBoundaryCheck computes the boundary at build time so an invalid
// (year, month, day) surfaces as a build error.
func NewDateBoundaryCheck(name string, threshold float64, after bool, year int, month, day *int) (*DateBoundaryCheck, error) {
	boundary, err := epochDaysForYMD(year, month, day)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}
	return &DateBoundaryCheck{Name: name, Threshold: threshold, After: after, boundary: boundary}, nil
}

func (c *DateBoundaryCheck) RuleName() string      { return c.Name }
func (c *DateBoundaryCheck) GetThreshold() float64 { return c.Threshold }

func (c *DateBoundaryCheck) Validate(arr *array.Date32) int64 {
	var violations int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		v := arr.Value(i)
		if c.After {
			if v <= c.boundary {
				violations++
			}
		} else {
			if v >= c.boundary {
				violations++
			}
		}
	}
	return violations
}

// WeekDayCheck requires every non-null date to fall on a weekday (IsWeek
// true ⇒ Mon-Fri required) or a weekend (IsWeek false ⇒ Sat-Sun required).
// Day-of-week uses a Thursday epoch: 1970-01-01 was a Thursday, so
// (days+3) mod 7 gives 0=Monday..6=Sunday (spec.md §4.1, §9).
type WeekDayCheck struct {
	Name      string
	Threshold float64
	IsWeek    bool
}

func (c *WeekDayCheck) RuleName() string      { return c.Name }
func (c *WeekDayCheck) GetThreshold() float64 { return c.Threshold }

func dayOfWeek(days DayCount) int {
	const epochOffset = 3 // 1970-01-01 was a Thursday (index 3, Monday=0)
	dow := (int64(days) + epochOffset) % 7
	if dow < 0 {
		dow += 7
	}
	return int(dow)
}

func (c *WeekDayCheck) Validate(arr *array.Date32) int64 {
	var violations int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		dow := dayOfWeek(arr.Value(i))
		isWeekend := dow >= 5 // Saturday=5, Sunday=6
		if c.IsWeek && isWeekend {
			violations++
		} else if !c.IsWeek && !isWeekend {
			violations++
		}
	}
	return violations
}

// DateRule is any domain rule that validates a Date32 array.
type DateRule interface {
	RuleName() string
	GetThreshold() float64
	Validate(arr *array.Date32) int64
}
