package table

import (
	"fmt"
	"sort"
	"strconv"
)

// Key identifies one observation: a respondent in a period
type Key struct {
	ID     int64
	Period string
}

// String renders the key as "id/period"
func (k Key) String() string {
	return strconv.FormatInt(k.ID, 10) + "/" + k.Period
}

// Compare orders keys by respondent and then by period
func (k Key) Compare(o Key) int {
	switch {
	case k.ID < o.ID:
		return -1
	case k.ID > o.ID:
		return 1
	}
	return ComparePeriods(k.Period, o.Period)
}

// ComparePeriods orders period identifiers numerically when both are
// integers and lexically otherwise, so "9" sorts before "10" and
// "2019-02" before "2019-11".
func ComparePeriods(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Index is the two-level (respondent, period) row index
type Index struct {
	Names [2]string
	Keys  []Key
}

// IsUnique reports whether no key appears twice
func (ix *Index) IsUnique() bool {
	_, ok := ix.FirstDuplicate()
	return !ok
}

// FirstDuplicate returns the first repeated key, if any
func (ix *Index) FirstDuplicate() (Key, bool) {
	seen := make(map[Key]struct{}, len(ix.Keys))
	for _, k := range ix.Keys {
		if _, dup := seen[k]; dup {
			return k, true
		}
		seen[k] = struct{}{}
	}
	return Key{}, false
}

// Table is an ordered set of equal-length columns with an optional index
type Table struct {
	columns []*Column
	byName  map[string]int
	rows    int
	index   *Index
}

// New builds a table from columns of equal length
func New(cols ...*Column) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(cols)), rows: -1}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew is New for statically known inputs; it panics on error
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty returns a table with n rows and no columns
func Empty(n int) *Table {
	return &Table{byName: map[string]int{}, rows: n}
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	if t.rows < 0 {
		return 0
	}
	return t.rows
}

// NumColumns returns the number of data columns
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Columns returns the data columns in order
func (t *Table) Columns() []*Column {
	return t.columns
}

// Names returns the data column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// AddColumn appends a column; its length must match the table
func (t *Table) AddColumn(c *Column) error {
	if c == nil {
		return fmt.Errorf("cannot add nil column")
	}
	if _, exists := t.byName[c.Name]; exists {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if t.rows < 0 {
		t.rows = c.Len()
	} else if c.Len() != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.rows)
	}
	t.byName[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// SetColumn adds the column or replaces an existing one of the same name
func (t *Table) SetColumn(c *Column) error {
	if i, ok := t.byName[c.Name]; ok {
		if c.Len() != t.NumRows() {
			return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.NumRows())
		}
		t.columns[i] = c
		return nil
	}
	return t.AddColumn(c)
}

// Drop removes a column, reporting whether it existed
func (t *Table) Drop(name string) bool {
	i, ok := t.byName[name]
	if !ok {
		return false
	}
	t.columns = append(t.columns[:i], t.columns[i+1:]...)
	t.reindexNames()
	return true
}

func (t *Table) reindexNames() {
	t.byName = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		t.byName[c.Name] = i
	}
}

// Index returns the row index, or nil for an unindexed table
func (t *Table) Index() *Index {
	return t.index
}

// SetIndex attaches an index; its length must match the row count
func (t *Table) SetIndex(names [2]string, keys []Key) error {
	if t.rows >= 0 && len(keys) != t.rows {
		return fmt.Errorf("index has %d keys, table has %d rows", len(keys), t.rows)
	}
	t.index = &Index{Names: names, Keys: keys}
	t.rows = len(keys)
	return nil
}

// Key returns the index key of row i
func (t *Table) Key(i int) Key {
	return t.index.Keys[i]
}

// Schema returns the ordered (name, kind) descriptor of the data columns
func (t *Table) Schema() Schema {
	s := make(Schema, len(t.columns))
	for i, c := range t.columns {
		s[i] = Field{Name: c.Name, Kind: c.Kind}
	}
	return s
}

// Take returns a new table holding the rows at the given positions
func (t *Table) Take(rows []int) *Table {
	out := &Table{byName: make(map[string]int, len(t.columns)), rows: len(rows)}
	for _, c := range t.columns {
		out.byName[c.Name] = len(out.columns)
		out.columns = append(out.columns, c.Take(rows))
	}
	if t.index != nil {
		keys := make([]Key, len(rows))
		for i, r := range rows {
			keys[i] = t.index.Keys[r]
		}
		out.index = &Index{Names: t.index.Names, Keys: keys}
	}
	return out
}

// Filter keeps the rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Take(rows)
}

// Select returns a table restricted to the named columns, in that order
func (t *Table) Select(names []string) (*Table, error) {
	out := &Table{byName: make(map[string]int, len(names)), rows: t.rows}
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, fmt.Errorf("column %q not found", n)
		}
		out.byName[n] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	out.index = t.index
	return out, nil
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{byName: make(map[string]int, len(t.columns)), rows: t.rows}
	for _, c := range t.columns {
		out.byName[c.Name] = len(out.columns)
		out.columns = append(out.columns, c.Clone())
	}
	if t.index != nil {
		out.index = &Index{Names: t.index.Names, Keys: append([]Key(nil), t.index.Keys...)}
	}
	return out
}

// SortByIndex returns a copy with rows ordered by key
func (t *Table) SortByIndex() *Table {
	if t.index == nil {
		return t.Clone()
	}
	rows := make([]int, t.NumRows())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return t.index.Keys[rows[a]].Compare(t.index.Keys[rows[b]]) < 0
	})
	return t.Take(rows)
}

// CompleteRows reports, per row, whether no data column is absent
func (t *Table) CompleteRows() []bool {
	out := make([]bool, t.NumRows())
	for i := range out {
		out[i] = true
		for _, c := range t.columns {
			if c.IsAbsent(i) {
				out[i] = false
				break
			}
		}
	}
	return out
}

// Row returns the values of row i keyed by column name
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.columns))
	for _, c := range t.columns {
		row[c.Name] = c.Values[i]
	}
	return row
}

// ResetIndex returns a copy whose index is moved into two leading data
// columns: the respondent id as KindInt and the period as KindString.
// A table without index is returned as a clone.
func (t *Table) ResetIndex() *Table {
	out := t.Clone()
	if out.index == nil {
		return out
	}
	ids := NewColumn(out.index.Names[0], KindInt, len(out.index.Keys))
	periods := NewColumn(out.index.Names[1], KindString, len(out.index.Keys))
	for i, k := range out.index.Keys {
		ids.Values[i] = k.ID
		periods.Values[i] = k.Period
	}
	out.columns = append([]*Column{ids, periods}, out.columns...)
	out.reindexNames()
	out.index = nil
	return out
}
