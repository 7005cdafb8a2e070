package engine

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/dataguard/dataguard/internal/compiler"
	"github.com/dataguard/dataguard/internal/rules"
	"github.com/dataguard/dataguard/pkg/models"
)

// validateBatch runs the typed column validator (spec.md §4.6.1) for every
// compiled column present in batch, then dispatches relations whose both
// endpoints survived their cast this batch. retainForStats keeps casted
// arrays alive past this call for columns carrying a statistical rule.
func (e *Engine) validateBatch(r *run, batch arrow.Record, retainForStats bool) {
	local := make(map[string]arrow.Array, len(e.Columns))
	owned := make(map[string]bool, len(e.Columns))
	schema := batch.Schema()

	for _, col := range e.Columns {
		idxs := schema.FieldIndices(col.Name)
		if len(idxs) == 0 {
			continue
		}
		src := batch.Column(idxs[0])

		var casted arrow.Array
		var isOwned, ok bool
		switch col.Kind {
		case models.TypeString:
			casted, ok = e.validateStringColumn(r, col, src)
		case models.TypeInteger:
			casted, isOwned, ok = e.validateIntegerColumn(r, col, src, retainForStats)
		case models.TypeFloat:
			casted, isOwned, ok = e.validateFloatColumn(r, col, src, retainForStats)
		case models.TypeDate:
			casted, isOwned, ok = e.validateDateColumn(r, col, src)
		}
		if ok {
			local[col.Name] = casted
			owned[col.Name] = isOwned
		}
	}

	for _, rel := range e.Relations {
		left, lok := local[rel.Left]
		right, rok := local[rel.Right]
		if !lok || !rok {
			continue
		}
		e.validateRelation(r, rel, left, right)
	}

	// Columns cast from strings (owned==true) are only borrowed by the
	// relation dispatch above; release them now that both this batch's
	// domain rules and its relations have seen them. retainForStats already
	// took its own Retain()'d reference before this point, so this release
	// only drops the local one.
	for name, isOwned := range owned {
		if isOwned {
			local[name].Release()
		}
	}
}

func (e *Engine) validateStringColumn(r *run, col *compiler.ExecutableColumn, src arrow.Array) (arrow.Array, bool) {
	strArr, ok := src.(*array.String)
	if !ok {
		return nil, false
	}
	nonNull := int64(strArr.Len() - strArr.NullN())
	r.addNonNull(col.Name, nonNull)
	r.addNulls(col.Name, int64(strArr.NullN()))
	if col.NullCheck != nil {
		r.results.Add(col.Name, "NullCheck", int64(strArr.NullN()))
	}
	if col.TypeCheck != nil {
		// CSV produces Utf8 natively for string columns; the cast is the
		// identity, so it can never fail.
		r.results.Add(col.Name, "TypeCheck", 0)
	}
	for _, rule := range col.StringRules {
		r.results.Add(col.Name, rule.RuleName(), rule.Validate(strArr))
	}
	if col.UnicityCheck != nil {
		r.unicityAcc.RecordHashes(col.Name, rules.HashNonNullString(strArr))
	}
	return strArr, true
}

func (e *Engine) validateIntegerColumn(r *run, col *compiler.ExecutableColumn, src arrow.Array, retainForStats bool) (arrow.Array, bool, bool) {
	var casted *array.Int64
	owned := false

	if col.TypeCheck != nil {
		strArr, ok := src.(*array.String)
		if !ok {
			return nil, false, false
		}
		nonNull := int64(strArr.Len() - strArr.NullN())
		r.addNonNull(col.Name, nonNull)
		r.addNulls(col.Name, int64(strArr.NullN()))
		if col.NullCheck != nil {
			r.results.Add(col.Name, "NullCheck", int64(strArr.NullN()))
		}
		c, failures := rules.CastStringToInt64(e.Allocator, strArr)
		r.results.Add(col.Name, "TypeCheck", failures)
		if nonNull > 0 && failures == nonNull {
			c.Release()
			return nil, false, false
		}
		casted, owned = c, true
	} else {
		intArr, ok := src.(*array.Int64)
		if !ok {
			return nil, false, false
		}
		nonNull := int64(intArr.Len() - intArr.NullN())
		r.addNonNull(col.Name, nonNull)
		r.addNulls(col.Name, int64(intArr.NullN()))
		if col.NullCheck != nil {
			r.results.Add(col.Name, "NullCheck", int64(intArr.NullN()))
		}
		casted = intArr
	}

	wrapped := rules.WrapInt64(casted)
	for _, rule := range col.Int64Rules {
		r.results.Add(col.Name, rule.RuleName(), rule.Validate(wrapped))
	}
	if col.UnicityCheck != nil {
		r.unicityAcc.RecordHashes(col.Name, rules.HashNonNullInt64(casted))
	}
	if len(col.Int64StatRules) > 0 {
		r.statsAcc.UpdateInt64(col.Name, nonNullInt64Values(casted))
		if retainForStats {
			r.retain(col.Name, casted)
		}
	}
	return casted, owned, true
}

func (e *Engine) validateFloatColumn(r *run, col *compiler.ExecutableColumn, src arrow.Array, retainForStats bool) (arrow.Array, bool, bool) {
	var casted *array.Float64
	owned := false

	if col.TypeCheck != nil {
		strArr, ok := src.(*array.String)
		if !ok {
			return nil, false, false
		}
		nonNull := int64(strArr.Len() - strArr.NullN())
		r.addNonNull(col.Name, nonNull)
		r.addNulls(col.Name, int64(strArr.NullN()))
		if col.NullCheck != nil {
			r.results.Add(col.Name, "NullCheck", int64(strArr.NullN()))
		}
		c, failures := rules.CastStringToFloat64(e.Allocator, strArr)
		r.results.Add(col.Name, "TypeCheck", failures)
		if nonNull > 0 && failures == nonNull {
			c.Release()
			return nil, false, false
		}
		casted, owned = c, true
	} else {
		fArr, ok := src.(*array.Float64)
		if !ok {
			return nil, false, false
		}
		nonNull := int64(fArr.Len() - fArr.NullN())
		r.addNonNull(col.Name, nonNull)
		r.addNulls(col.Name, int64(fArr.NullN()))
		if col.NullCheck != nil {
			r.results.Add(col.Name, "NullCheck", int64(fArr.NullN()))
		}
		casted = fArr
	}

	wrapped := rules.WrapFloat64(casted)
	for _, rule := range col.Float64Rules {
		r.results.Add(col.Name, rule.RuleName(), rule.Validate(wrapped))
	}
	if col.UnicityCheck != nil {
		r.unicityAcc.RecordHashes(col.Name, rules.HashNonNullFloat64(casted))
	}
	if len(col.Float64StatRules) > 0 {
		r.statsAcc.UpdateFloat64(col.Name, nonNullFloat64Values(casted))
		if retainForStats {
			r.retain(col.Name, casted)
		}
	}
	return casted, owned, true
}

func (e *Engine) validateDateColumn(r *run, col *compiler.ExecutableColumn, src arrow.Array) (arrow.Array, bool, bool) {
	var casted *array.Date32
	owned := false

	if col.TypeCheck != nil {
		strArr, ok := src.(*array.String)
		if !ok {
			return nil, false, false
		}
		nonNull := int64(strArr.Len() - strArr.NullN())
		r.addNonNull(col.Name, nonNull)
		r.addNulls(col.Name, int64(strArr.NullN()))
		if col.NullCheck != nil {
			r.results.Add(col.Name, "NullCheck", int64(strArr.NullN()))
		}
		c, failures := rules.CastStringToDate32(e.Allocator, strArr, col.TypeCheck.DateFormat)
		r.results.Add(col.Name, "TypeCheck", failures)
		if nonNull > 0 && failures == nonNull {
			c.Release()
			return nil, false, false
		}
		casted, owned = c, true
	} else {
		dArr, ok := src.(*array.Date32)
		if !ok {
			return nil, false, false
		}
		nonNull := int64(dArr.Len() - dArr.NullN())
		r.addNonNull(col.Name, nonNull)
		r.addNulls(col.Name, int64(dArr.NullN()))
		if col.NullCheck != nil {
			r.results.Add(col.Name, "NullCheck", int64(dArr.NullN()))
		}
		casted = dArr
	}

	for _, rule := range col.DateRules {
		r.results.Add(col.Name, rule.RuleName(), rule.Validate(casted))
	}
	if col.UnicityCheck != nil {
		r.unicityAcc.RecordHashes(col.Name, rules.HashNonNullDate32(casted))
	}
	return casted, owned, true
}

func nonNullInt64Values(arr *array.Int64) []int64 {
	out := make([]int64, 0, arr.Len()-arr.NullN())
	for i := 0; i < arr.Len(); i++ {
		if !arr.IsNull(i) {
			out = append(out, arr.Value(i))
		}
	}
	return out
}

func nonNullFloat64Values(arr *array.Float64) []float64 {
	out := make([]float64, 0, arr.Len()-arr.NullN())
	for i := 0; i < arr.Len(); i++ {
		if !arr.IsNull(i) {
			out = append(out, arr.Value(i))
		}
	}
	return out
}
