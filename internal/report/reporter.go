package report

import "github.com/dataguard/dataguard/pkg/models"

// Reporter receives lifecycle callbacks during a validation run, so a CLI
// can drive either a human-facing stdout narration or a structured JSON
// document through the same code path.
type Reporter interface {
	OnStart()
	OnLoading()
	OnTableLoad(current, total int, name string)
	OnValidationStart()
	OnTableResult(result models.ValidationResult)
	OnSummary(passed, failed int)
	OnWaiting()
}

