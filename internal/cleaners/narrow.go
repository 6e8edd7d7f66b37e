package cleaners

import (
	"fmt"
	"math"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

// NarrowInt converts an integral column to KindInt and records the
// smallest storage width that holds its range. Non-negative columns get an
// unsigned width.
func NarrowInt(col *table.Column) (*table.Column, error) {
	if !col.Kind.IsNumeric() {
		return nil, apperrors.NewUnsupportedColumnTypeError(col.Name, col.Kind.String())
	}
	out := table.NewColumn(col.Name, table.KindInt, col.Len())
	var lo, hi int64
	seen := false
	for i, v := range col.Values {
		if table.IsAbsent(v) {
			continue
		}
		n, ok := table.Int(v)
		if !ok {
			return nil, apperrors.NewTypeMismatchError(col.Name, fmt.Sprintf("value %v is not an integer", v))
		}
		out.Values[i] = n
		if !seen || n < lo {
			lo = n
		}
		if !seen || n > hi {
			hi = n
		}
		seen = true
	}
	out.Width, out.Unsigned = intWidth(lo, hi, seen)
	return out, nil
}

func intWidth(lo, hi int64, seen bool) (int, bool) {
	if !seen {
		return 64, false
	}
	if lo >= 0 {
		switch {
		case hi <= math.MaxUint8:
			return 8, true
		case hi <= math.MaxUint16:
			return 16, true
		case hi <= math.MaxUint32:
			return 32, true
		}
		return 64, true
	}
	switch {
	case lo >= math.MinInt8 && hi <= math.MaxInt8:
		return 8, false
	case lo >= math.MinInt16 && hi <= math.MaxInt16:
		return 16, false
	case lo >= math.MinInt32 && hi <= math.MaxInt32:
		return 32, false
	}
	return 64, false
}

// NarrowFloat records a 32-bit storage width when the column has no
// absent values, is non-negative and fits in float32. Values are kept.
func NarrowFloat(col *table.Column) *table.Column {
	out := *col
	out.Width = 64
	if col.Len() == 0 {
		return &out
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range col.Values {
		f, ok := table.Float(v)
		if !ok {
			return &out
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if lo >= 0 && hi <= math.MaxFloat32 {
		out.Width = 32
	}
	return &out
}
