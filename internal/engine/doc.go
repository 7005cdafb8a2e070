// Package engine runs compiled columns and relations against a stream of
// Arrow record batches, fanning batches out across goroutines and merging
// the resulting statistics, uniqueness sets, and rule violation counts into
// a single pkg/models.ValidationResult (spec.md §4.6).
package engine
