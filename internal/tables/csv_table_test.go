package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dataguard/dataguard/internal/readers"
	"github.com/dataguard/dataguard/pkg/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ageRangeSpec() []models.ColumnSpec {
	zero := 0.0
	min, max := 0.0, 130.0
	return []models.ColumnSpec{
		{
			Name: "age",
			Type: models.TypeInteger,
			Rules: []models.RuleDeclaration{
				{Kind: models.RuleNumericRange, Name: "AgeRange", Threshold: zero, Min: &min, Max: &max},
			},
		},
	}
}

func TestCsvTableValidatePassesWithinTolerance(t *testing.T) {
	path := writeCSV(t, "age\n20\n30\n40\n")
	table, err := NewCsvTable(path, "people", ageRangeSpec(), nil, readers.DefaultConfig())
	require.NoError(t, err)

	result, err := table.Validate()
	require.NoError(t, err)
	require.Equal(t, int64(3), result.TotalRows)
	require.True(t, result.Passed())
}

func TestCsvTableValidateFailsOutOfRange(t *testing.T) {
	path := writeCSV(t, "age\n20\n999\n40\n")
	table, err := NewCsvTable(path, "people", ageRangeSpec(), nil, readers.DefaultConfig())
	require.NoError(t, err)

	result, err := table.Validate()
	require.NoError(t, err)
	require.False(t, result.Passed())
}

func TestCsvTableValidateStreams(t *testing.T) {
	var content string
	content = "age\n"
	for i := 0; i < 10; i++ {
		content += "25\n"
	}
	path := writeCSV(t, content)

	cfg := readers.NewBuilder().Streaming(true).BatchSize(2).Build()
	table, err := NewCsvTable(path, "people", ageRangeSpec(), nil, cfg)
	require.NoError(t, err)

	result, err := table.Validate()
	require.NoError(t, err)
	require.Equal(t, int64(10), result.TotalRows)
	require.True(t, result.Passed())
}

func TestCsvTableGetRulesIncludesTypeCheck(t *testing.T) {
	path := writeCSV(t, "age\n20\n")
	table, err := NewCsvTable(path, "people", ageRangeSpec(), nil, readers.DefaultConfig())
	require.NoError(t, err)

	rules := table.GetRules()
	require.Contains(t, rules, "age")
	require.Contains(t, rules["age"], "TypeCheck")
	require.Contains(t, rules["age"], "AgeRange")
}

func TestCsvTableRelationCompare(t *testing.T) {
	path := writeCSV(t, "start,end\n1,2\n5,4\n")
	columns := []models.ColumnSpec{
		{Name: "start", Type: models.TypeInteger},
		{Name: "end", Type: models.TypeInteger},
	}
	relations := []models.RelationSpec{
		{Left: "start", Right: "end", Rules: []models.ComparisonRule{{Op: models.OpLessEqual, Threshold: 0}}},
	}
	table, err := NewCsvTable(path, "ranges", columns, relations, readers.DefaultConfig())
	require.NoError(t, err)

	result, err := table.Validate()
	require.NoError(t, err)
	require.False(t, result.Passed(), "one row has start > end, which violates <=")
}
