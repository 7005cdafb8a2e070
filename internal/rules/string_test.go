package rules

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestStringLengthCheckBothBounds(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"a", "abc", "abcdef"}, nil)
	defer arr.Release()

	min, max := 2, 5
	c := &StringLengthCheck{Name: "len", Min: &min, Max: &max}
	require.Equal(t, "len", c.RuleName())
	require.Equal(t, int64(2), c.Validate(arr), "\"a\" is too short and \"abcdef\" is too long")
}

func TestStringLengthCheckCountsMultibyteRunesNotBytes(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"héllo"}, nil)
	defer arr.Release()

	min, max := 5, 5
	c := &StringLengthCheck{Min: &min, Max: &max}
	require.Equal(t, int64(0), c.Validate(arr), "héllo is 5 runes even though é is multibyte")
}

func TestStringLengthCheckSkipsNulls(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"a", ""}, []bool{false, true})
	defer arr.Release()

	max := 0
	c := &StringLengthCheck{Max: &max}
	require.Equal(t, int64(1), c.Validate(arr))
}

func TestNewRegexMatchRejectsInvalidPattern(t *testing.T) {
	_, err := NewRegexMatch("bad", 0, "(", false)
	require.Error(t, err, "an invalid pattern must fail at build time, not at validation time")
}

func TestRegexMatchValidate(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"alice@example.com", "not-an-email"}, nil)
	defer arr.Release()

	c, err := NewRegexMatch("email", 0, `^[^@]+@[^@]+$`, false)
	require.NoError(t, err)
	require.Equal(t, "email", c.RuleName())
	require.Equal(t, int64(1), c.Validate(arr))
}

func TestRegexMatchCaseInsensitive(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"ACTIVE", "active", "inactive"}, nil)
	defer arr.Release()

	c, err := NewRegexMatch("status", 0, "^active$", true)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Validate(arr))
}

func TestRegexMatchSkipsNulls(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"x"}, []bool{true})
	defer arr.Release()

	c, err := NewRegexMatch("any", 0, "^x$", false)
	require.NoError(t, err)
	require.Equal(t, int64(0), c.Validate(arr))
}

func TestMembershipCheckValidate(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"US", "CA", "XX"}, nil)
	defer arr.Release()

	c := NewMembershipCheck("country", 0, []string{"US", "CA", "MX"})
	require.Equal(t, "country", c.RuleName())
	require.Equal(t, int64(1), c.Validate(arr), "XX is not a member")
}

func TestMembershipCheckSkipsNulls(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"ZZ"}, []bool{true})
	defer arr.Release()

	c := NewMembershipCheck("country", 0, []string{"US"})
	require.Equal(t, int64(0), c.Validate(arr))
}

func TestMembershipCheckEmptySetRejectsEverything(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"anything"}, nil)
	defer arr.Release()

	c := NewMembershipCheck("empty", 0, nil)
	require.Equal(t, int64(1), c.Validate(arr))
}
