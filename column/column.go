// Package column adapts Arrow columnar data to the plain string slices the
// index builds from. It is the boundary to the row storage layer: readers
// hand over Arrow record batches, the index only ever sees Go strings.
package column

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
)

// stringValuer is satisfied by the Arrow string layouts that expose values
// as Go strings directly.
type stringValuer interface {
	arrow.Array
	Value(int) string
}

// Strings extracts a Go string column from an Arrow array. Supported
// layouts are String, LargeString, and dictionary-encoded variants of the
// two. The index has no null semantics, so a null entry fails with an error
// naming the row.
func Strings(arr arrow.Array) ([]string, error) {
	switch a := arr.(type) {
	case *array.String:
		return fromValuer(a)
	case *array.LargeString:
		return fromValuer(a)
	case *array.Dictionary:
		return fromDictionary(a)
	default:
		return nil, fmt.Errorf("column: unsupported array type %s", arr.DataType())
	}
}

// RecordStrings extracts the named column from a record batch.
func RecordStrings(rec arrow.Record, name string) ([]string, error) {
	indices := rec.Schema().FieldIndices(name)
	switch len(indices) {
	case 0:
		return nil, fmt.Errorf("column: no column %q in record", name)
	case 1:
		return Strings(rec.Column(indices[0]))
	default:
		return nil, fmt.Errorf("column: ambiguous column %q in record", name)
	}
}

func fromValuer(a stringValuer) ([]string, error) {
	if i, ok := firstNull(a); ok {
		return nil, nullErr(i)
	}
	out := make([]string, a.Len())
	for i := range out {
		out[i] = a.Value(i)
	}
	return out, nil
}

func fromDictionary(a *array.Dictionary) ([]string, error) {
	dict, ok := a.Dictionary().(stringValuer)
	if !ok {
		return nil, fmt.Errorf("column: unsupported dictionary value type %s", a.Dictionary().DataType())
	}
	out := make([]string, a.Len())
	for i := range out {
		if a.IsNull(i) {
			return nil, nullErr(i)
		}
		out[i] = dict.Value(a.GetValueIndex(i))
	}
	return out, nil
}

func firstNull(a arrow.Array) (int, bool) {
	if a.NullN() == 0 {
		return 0, false
	}
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) {
			return i, true
		}
	}
	return 0, false
}

func nullErr(row int) error {
	return fmt.Errorf("column: null value at row %d", row)
}
