package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dataguard/dataguard/internal/report"
)

func writeFixture(t *testing.T, dir string) (csvPath, cfgPath string) {
	t.Helper()
	csvPath = filepath.Join(dir, "people.csv")
	csv := "name,age\nalice,30\nbob,not-a-number\ncarol,45\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	cfgPath = filepath.Join(dir, "config.yaml")
	yaml := `
table:
  - name: people
    path: ` + csvPath + `
    column:
      - name: name
        datatype: string
        rule:
          - name: is_not_null
            threshold: 0
      - name: age
        datatype: integer
        rule:
          - name: is_not_null
            threshold: 0
          - name: is_positive
            threshold: 0
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))
	return csvPath, cfgPath
}

func TestExecuteValidationEndToEnd(t *testing.T) {
	dir := t.TempDir()
	_, cfgPath := writeFixture(t, dir)

	old := configPath
	configPath = cfgPath
	defer func() { configPath = old }()

	reporter := report.NewJSONReporter("test", time.Now())
	passed, err := executeValidation(reporter)
	require.NoError(t, err)
	require.False(t, passed, "the cast failure on bob's age should fail the run")

	raw, err := reporter.Marshal()
	require.NoError(t, err)
	require.Contains(t, string(raw), "people")
}

func TestExecuteValidationMissingConfig(t *testing.T) {
	old := configPath
	configPath = filepath.Join(t.TempDir(), "does-not-exist.yaml")
	defer func() { configPath = old }()

	reporter := report.NewJSONReporter("test", time.Now())
	_, err := executeValidation(reporter)
	require.Error(t, err)
}

func TestResolveOutputPathDirectory(t *testing.T) {
	dir := t.TempDir()
	dest, err := resolveOutputPath(dir, "20260101_120000")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "validation_20260101_120000.json"), dest)
}

func TestResolveOutputPathExistingFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o644))

	dest, err := resolveOutputPath(existing, "20260101_120000")
	require.NoError(t, err)
	require.Equal(t, existing, dest)
}

func TestResolveOutputPathCreatesMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested") + string(filepath.Separator)

	dest, err := resolveOutputPath(target, "20260101_120000")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "nested", "validation_20260101_120000.json"), dest)

	info, err := os.Stat(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestResolveOutputPathDefaultsToCurrentDir(t *testing.T) {
	dest, err := resolveOutputPath("", "20260101_120000")
	require.NoError(t, err)
	require.Equal(t, "validation_20260101_120000.json", dest)
}
