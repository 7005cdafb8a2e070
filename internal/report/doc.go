// Package report renders models.ValidationResult as either a human-facing
// stdout table or a JSON document, driven through a small Reporter
// callback interface so a CLI run and a watch loop share one code path.
package report
