package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dataguard/dataguard/internal/config"
	"github.com/dataguard/dataguard/internal/report"
	"github.com/dataguard/dataguard/internal/tables"
)

// runOnce loads the config, validates every declared table once, renders
// the report in the requested format, and reports whether every table
// passed.
func runOnce() (bool, error) {
	switch output {
	case "stdout":
		reporter := report.NewStdoutReporter(version)
		reporter.OnStart()
		return executeValidation(reporter)
	case "json":
		now := time.Now()
		reporter := report.NewJSONReporter(version, now)
		passed, err := executeValidation(reporter)
		if err != nil {
			return false, err
		}
		raw, err := reporter.Marshal()
		if err != nil {
			return false, fmt.Errorf("failed to serialize validation report: %w", err)
		}
		dest, err := resolveOutputPath(outputPath, now.Format("20060102_150405"))
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(dest, raw, 0o644); err != nil {
			return false, fmt.Errorf("failed to write JSON report to %s: %w", dest, err)
		}
		return passed, nil
	default:
		return false, fmt.Errorf("unknown output format %q (want stdout or json)", output)
	}
}

// executeValidation runs every table declared in configPath through
// reporter's callbacks and returns whether all of them passed.
func executeValidation(reporter report.Reporter) (bool, error) {
	reporter.OnLoading()
	cfg, err := config.Load(configPath)
	if err != nil {
		return false, err
	}
	readerCfg := readerConfigFromFile(cfg.Reader)

	mt := tables.NewMultiTable()
	for i, tc := range cfg.Tables {
		reporter.OnTableLoad(i+1, len(cfg.Tables), tc.Name)
		table, err := constructTable(tc, readerCfg)
		if err != nil {
			return false, fmt.Errorf("failed to construct table %q: %w", tc.Name, err)
		}
		mt.AddTable(tc.Name, table)
	}

	reporter.OnValidationStart()
	results, errs := mt.ValidateAll()
	for _, result := range results {
		reporter.OnTableResult(result)
	}
	if len(errs) > 0 {
		for name, err := range errs {
			fmt.Fprintf(os.Stderr, "table %q: %v\n", name, err)
		}
	}

	passed := 0
	for _, result := range results {
		if result.Passed() {
			passed++
		}
	}
	failed := len(results) - passed + len(errs)
	reporter.OnSummary(passed, failed)

	return failed == 0, nil
}

// resolveOutputPath mirrors the source's writer.rs: a directory gets a
// timestamped filename, an existing file is overwritten as-is, and a
// missing parent directory is created.
func resolveOutputPath(base, timestampCompact string) (string, error) {
	if base == "" {
		base = "."
	}
	filename := fmt.Sprintf("validation_%s.json", timestampCompact)

	info, err := os.Stat(base)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(base, filename), nil
	case err == nil:
		return base, nil
	case os.IsNotExist(err):
		if len(base) > 0 && (base[len(base)-1] == '/' || base[len(base)-1] == '\\') {
			if err := os.MkdirAll(base, 0o755); err != nil {
				return "", fmt.Errorf("failed to create directory %s: %w", base, err)
			}
			return filepath.Join(base, filename), nil
		}
		if parent := filepath.Dir(base); parent != "" && parent != "." {
			if _, err := os.Stat(parent); os.IsNotExist(err) {
				if err := os.MkdirAll(parent, 0o755); err != nil {
					return "", fmt.Errorf("failed to create directory %s: %w", parent, err)
				}
			}
		}
		return base, nil
	default:
		return "", fmt.Errorf("failed to stat output path %s: %w", base, err)
	}
}
