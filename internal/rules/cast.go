package rules

import (
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// CastStringToInt64 attempts to parse every non-null cell of arr as a base-10
// integer, building a same-length Int64 array with a null where either the
// source was null or parsing failed. It returns the number of non-null
// source cells that failed to parse (spec.md §4.6.1).
func CastStringToInt64(mem memory.Allocator, arr *array.String) (*array.Int64, int64) {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	var failures int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		v, err := strconv.ParseInt(arr.Value(i), 10, 64)
		if err != nil {
			failures++
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	return b.NewInt64Array(), failures
}

// CastStringToFloat64 attempts to parse every non-null cell of arr as a
// float, mirroring CastStringToInt64's null/failure handling.
func CastStringToFloat64(mem memory.Allocator, arr *array.String) (*array.Float64, int64) {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	var failures int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		v, err := strconv.ParseFloat(arr.Value(i), 64)
		if err != nil {
			failures++
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	return b.NewFloat64Array(), failures
}

// CastStringToDate32 parses every non-null cell of arr using the supplied Go
// reference layout (already translated from the caller's strftime-style
// format), mirroring CastStringToInt64's null/failure handling.
func CastStringToDate32(mem memory.Allocator, arr *array.String, layout string) (*array.Date32, int64) {
	b := array.NewDate32Builder(mem)
	defer b.Release()
	var failures int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		t, err := time.Parse(layout, arr.Value(i))
		if err != nil {
			failures++
			b.AppendNull()
			continue
		}
		b.Append(arrow.Date32FromTime(t))
	}
	return b.NewDate32Array(), failures
}
