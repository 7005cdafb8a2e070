package rules

import (
	"encoding/binary"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/cespare/xxhash/v2"
)

// NullCheck is the only rule family that treats nulls as errors; its
// violation count is simply the array's null count (spec.md §4.1).
type NullCheck struct {
	Threshold float64
}

func (c *NullCheck) RuleName() string      { return "NullCheck" }
func (c *NullCheck) GetThreshold() float64 { return c.Threshold }

func (c *NullCheck) Validate(arr arrow.Array) int64 {
	return int64(arr.NullN())
}

// UnicityCheck marks a column for global uniqueness tracking; the actual
// hash-set accumulation lives in internal/unicity, merged under a
// per-column lock as each batch completes (spec.md §4.2).
type UnicityCheck struct {
	Threshold float64
}

func (c *UnicityCheck) RuleName() string      { return "Unicity" }
func (c *UnicityCheck) GetThreshold() float64 { return c.Threshold }

// HashNonNullString returns the 64-bit hash of every non-null cell, in row
// order, for merging into a global uniqueness set. Seeded identically
// across goroutines (xxhash has no external seed) so equal values hash
// equally everywhere (spec.md §9).
func HashNonNullString(arr *array.String) []uint64 {
	hashes := make([]uint64, 0, arr.Len()-arr.NullN())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		hashes = append(hashes, xxhash.Sum64String(arr.Value(i)))
	}
	return hashes
}

// HashNonNullInt64 hashes a non-null Int64 array's cells.
func HashNonNullInt64(arr *array.Int64) []uint64 {
	hashes := make([]uint64, 0, arr.Len()-arr.NullN())
	var buf [8]byte
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(arr.Value(i)))
		hashes = append(hashes, xxhash.Sum64(buf[:]))
	}
	return hashes
}

// HashNonNullFloat64 hashes a non-null Float64 array's cells.
func HashNonNullFloat64(arr *array.Float64) []uint64 {
	hashes := make([]uint64, 0, arr.Len()-arr.NullN())
	var buf [8]byte
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(arr.Value(i)))
		hashes = append(hashes, xxhash.Sum64(buf[:]))
	}
	return hashes
}

// HashNonNullDate32 hashes a non-null Date32 array's cells.
func HashNonNullDate32(arr *array.Date32) []uint64 {
	hashes := make([]uint64, 0, arr.Len()-arr.NullN())
	var buf [4]byte
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		binary.LittleEndian.PutUint32(buf[:], uint32(arr.Value(i)))
		hashes = append(hashes, xxhash.Sum64(buf[:]))
	}
	return hashes
}
