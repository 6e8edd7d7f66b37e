// Package panel joins cleaned datasets into one wide table on a shared
// (respondent, period) index.
package panel

import (
	"fmt"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

// TimeIndex selects how inputs are aligned in time
type TimeIndex struct {
	// Kind is "period" or "mapped"
	Kind string
	// Column holds each row's period when Kind is "mapped"
	Column string
}

const (
	// KindPeriod joins inputs on the index they already carry
	KindPeriod = "period"
	// KindMapped re-derives each input's period from a column first
	KindMapped = "mapped"
)

// Period is the default time index
var Period = TimeIndex{Kind: KindPeriod}

// Mapped re-derives periods from column
func Mapped(column string) TimeIndex {
	return TimeIndex{Kind: KindMapped, Column: column}
}

// Input is one cleaned dataset taking part in a panel
type Input struct {
	Name  string
	Table *table.Table
}

// Assemble outer-joins inputs left to right. With dropIncomplete each
// input first loses every row holding an absent value, so a dataset
// contributes nothing to a respondent-period it does not fully cover.
// Column names shared by several inputs get a "_<dataset>" suffix.
func Assemble(inputs []Input, timeIndex TimeIndex, dropIncomplete bool) (*table.Table, error) {
	switch timeIndex.Kind {
	case KindPeriod, KindMapped:
	default:
		return nil, apperrors.NewInvalidTimeIndexError(timeIndex.Kind)
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewConfigError("panel needs at least one dataset", nil)
	}

	aligned := make([]Input, len(inputs))
	for i, in := range inputs {
		if in.Table == nil || in.Table.Index() == nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("dataset %s is not indexed", in.Name), nil)
		}
		t := in.Table
		if timeIndex.Kind == KindMapped {
			var err error
			if t, err = remap(t, timeIndex.Column); err != nil {
				return nil, fmt.Errorf("dataset %s: %w", in.Name, err)
			}
		}
		if dropIncomplete {
			complete := t.CompleteRows()
			t = t.Filter(func(row int) bool { return complete[row] })
		}
		aligned[i] = Input{Name: in.Name, Table: t}
	}

	names := aligned[0].Table.Index().Names
	for _, in := range aligned[1:] {
		if got := in.Table.Index().Names; got != names {
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("dataset %s is indexed by %v, panel by %v; use a mapped time index", in.Name, got, names), nil)
		}
	}
	return join(aligned, names)
}

// join performs the sequential outer join and sorts the result by key
func join(inputs []Input, names [2]string) (*table.Table, error) {
	owners := make(map[string]int)
	for _, in := range inputs {
		for _, n := range in.Table.Names() {
			owners[n]++
		}
	}

	var keys []table.Key
	pos := make(map[table.Key]int)
	for _, in := range inputs {
		for _, k := range in.Table.Index().Keys {
			if _, ok := pos[k]; !ok {
				pos[k] = len(keys)
				keys = append(keys, k)
			}
		}
	}

	out := table.Empty(len(keys))
	for _, in := range inputs {
		rowOf := make([]int, len(keys))
		for i := range rowOf {
			rowOf[i] = -1
		}
		for row, k := range in.Table.Index().Keys {
			rowOf[pos[k]] = row
		}
		for _, c := range in.Table.Columns() {
			col := &table.Column{
				Name:       c.Name,
				Kind:       c.Kind,
				Categories: append([]string(nil), c.Categories...),
				Ordered:    c.Ordered,
				Width:      c.Width,
				Unsigned:   c.Unsigned,
				Values:     make([]any, len(keys)),
			}
			if owners[c.Name] > 1 {
				col.Name = c.Name + "_" + in.Name
			}
			for i, row := range rowOf {
				if row >= 0 {
					col.Values[i] = c.Values[row]
				}
			}
			if err := out.AddColumn(col); err != nil {
				return nil, err
			}
		}
	}
	if err := out.SetIndex(names, keys); err != nil {
		return nil, err
	}
	return out.SortByIndex(), nil
}

// remap moves column into the period half of the index. A table already
// indexed by column is returned as is. Rows that land on the same key are
// collapsed, first non-missing value per column in key order.
func remap(t *table.Table, column string) (*table.Table, error) {
	ix := t.Index()
	if ix.Names[1] == column {
		return t, nil
	}
	periods, ok := t.Column(column)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("time index column %s", column))
	}

	sorted := t.SortByIndex()
	periods, _ = sorted.Column(column)
	keys := make([]table.Key, sorted.NumRows())
	for i, k := range sorted.Index().Keys {
		if periods.IsAbsent(i) {
			return nil, apperrors.NewInvalidPeriodError(nil, fmt.Errorf("respondent %d has no %s", k.ID, column))
		}
		keys[i] = table.Key{ID: k.ID, Period: table.Format(periods.Values[i])}
	}

	data := make([]string, 0, sorted.NumColumns())
	for _, n := range sorted.Names() {
		if n != column {
			data = append(data, n)
		}
	}
	out, err := sorted.Select(data)
	if err != nil {
		return nil, err
	}
	out = out.Clone()
	if err := out.SetIndex([2]string{ix.Names[0], column}, keys); err != nil {
		return nil, err
	}
	return collapse(out), nil
}

// collapse merges rows sharing a key, first non-missing value wins
func collapse(t *table.Table) *table.Table {
	if t.Index().IsUnique() {
		return t
	}
	var keys []table.Key
	groups := make(map[table.Key]int)
	first := make([]int, 0, t.NumRows())
	members := make([][]int, 0)
	for row, k := range t.Index().Keys {
		g, ok := groups[k]
		if !ok {
			g = len(keys)
			groups[k] = g
			keys = append(keys, k)
			first = append(first, row)
			members = append(members, nil)
		}
		members[g] = append(members[g], row)
	}

	out := t.Take(first)
	for _, c := range out.Columns() {
		src, _ := t.Column(c.Name)
		for g, rows := range members {
			if !c.IsAbsent(g) {
				continue
			}
			for _, row := range rows[1:] {
				if !src.IsAbsent(row) {
					c.Values[g] = src.Values[row]
					break
				}
			}
		}
	}
	return out
}
