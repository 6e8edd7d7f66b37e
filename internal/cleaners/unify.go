package cleaners

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

// Lookup returns the named raw column and whether it was missing from the
// wave. A missing column comes back all-absent with the table's row count.
func Lookup(raw *table.Table, name string) (*table.Column, bool) {
	if col, ok := raw.Column(name); ok {
		return col, false
	}
	return table.NewColumn(name, table.KindFloat, raw.NumRows()), true
}

// Unify turns a column that is numeric in some waves and categorical in
// others into a float column. Missing columns are returned unchanged.
func Unify(col *table.Column, sentinels SentinelSet, isMissing bool) (*table.Column, error) {
	if isMissing {
		return col, nil
	}
	switch col.Kind {
	case table.KindInt, table.KindFloat:
		cleaned, err := CleanFloat(col, sentinels.Floats)
		if err != nil {
			return nil, err
		}
		return NarrowFloat(toFloat(cleaned)), nil
	case table.KindCategory:
		cleaned, err := CleanCategorical(col, sentinels.Labels)
		if err != nil {
			return nil, err
		}
		out := table.NewColumn(col.Name, table.KindFloat, cleaned.Len())
		for i, v := range cleaned.Values {
			if table.IsAbsent(v) {
				continue
			}
			label, ok := v.(string)
			if !ok {
				return nil, apperrors.NewTypeMismatchError(col.Name, fmt.Sprintf("value %v is not a label", v))
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
			if err != nil {
				return nil, apperrors.NewTypeMismatchError(col.Name,
					fmt.Sprintf("label %q is neither a number nor a sentinel", label))
			}
			out.Values[i] = f
		}
		return NarrowFloat(out), nil
	}
	return nil, apperrors.NewUnsupportedColumnTypeError(col.Name, col.Kind.String())
}

func toFloat(col *table.Column) *table.Column {
	if col.Kind == table.KindFloat {
		return col
	}
	out := table.NewColumn(col.Name, table.KindFloat, col.Len())
	for i, v := range col.Values {
		if f, ok := table.Float(v); ok {
			out.Values[i] = f
		}
	}
	return out
}
