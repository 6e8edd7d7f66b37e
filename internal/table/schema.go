package table

import (
	"encoding/gob"
	"fmt"
	"strings"
	"time"
)

func init() {
	gob.Register(Interval{})
	gob.Register(time.Time{})
}

// Field is one (name, kind) entry of a schema
type Field struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Schema is an ordered list of fields compared structurally
type Schema []Field

// Equal reports whether both schemas list the same fields in the same order
func (s Schema) Equal(o Schema) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Diff lists the fields present only in s (added) or only in o (removed),
// and the names whose kind differs.
func (s Schema) Diff(o Schema) (added, removed, changed []string) {
	theirs := make(map[string]Kind, len(o))
	for _, f := range o {
		theirs[f.Name] = f.Kind
	}
	ours := make(map[string]struct{}, len(s))
	for _, f := range s {
		ours[f.Name] = struct{}{}
		k, ok := theirs[f.Name]
		switch {
		case !ok:
			added = append(added, f.Name)
		case k != f.Kind:
			changed = append(changed, f.Name)
		}
	}
	for _, f := range o {
		if _, ok := ours[f.Name]; !ok {
			removed = append(removed, f.Name)
		}
	}
	return added, removed, changed
}

// String renders the schema as "name:kind, ..."
func (s Schema) String() string {
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = f.Name + ":" + f.Kind.String()
	}
	return strings.Join(parts, ", ")
}

// ColumnDescriptor carries the metadata of a column without its values
type ColumnDescriptor struct {
	Name       string   `json:"name"`
	Kind       Kind     `json:"kind"`
	Categories []string `json:"categories,omitempty"`
	Ordered    bool     `json:"ordered,omitempty"`
	Width      int      `json:"width,omitempty"`
	Unsigned   bool     `json:"unsigned,omitempty"`
}

// Descriptor describes a table's layout so that it survives a round trip
// through formats that cannot carry category sets or the index natively.
type Descriptor struct {
	Index   []string           `json:"index,omitempty"`
	Columns []ColumnDescriptor `json:"columns"`
}

// Describe returns the layout descriptor of t
func Describe(t *Table) Descriptor {
	d := Descriptor{Columns: make([]ColumnDescriptor, 0, t.NumColumns())}
	if ix := t.Index(); ix != nil {
		d.Index = []string{ix.Names[0], ix.Names[1]}
	}
	for _, c := range t.Columns() {
		d.Columns = append(d.Columns, ColumnDescriptor{
			Name:       c.Name,
			Kind:       c.Kind,
			Categories: c.Categories,
			Ordered:    c.Ordered,
			Width:      c.Width,
			Unsigned:   c.Unsigned,
		})
	}
	return d
}

// Lookup finds a column descriptor by name
func (d Descriptor) Lookup(name string) (ColumnDescriptor, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// Snapshot is the exported form of a table used by binary encoders
type Snapshot struct {
	Descriptor Descriptor
	Keys       []Key
	Values     [][]any
}

// ToSnapshot flattens t into an encodable value
func ToSnapshot(t *Table) Snapshot {
	s := Snapshot{Descriptor: Describe(t), Values: make([][]any, t.NumColumns())}
	if ix := t.Index(); ix != nil {
		s.Keys = ix.Keys
	}
	for i, c := range t.Columns() {
		s.Values[i] = c.Values
	}
	return s
}

// FromSnapshot rebuilds a table from a snapshot
func FromSnapshot(s Snapshot) (*Table, error) {
	if len(s.Values) != len(s.Descriptor.Columns) {
		return nil, fmt.Errorf("snapshot has %d value vectors for %d columns",
			len(s.Values), len(s.Descriptor.Columns))
	}
	t, err := New()
	if err != nil {
		return nil, err
	}
	for i, cd := range s.Descriptor.Columns {
		values := s.Values[i]
		if values == nil {
			values = make([]any, len(s.Keys))
		}
		col := &Column{
			Name:       cd.Name,
			Kind:       cd.Kind,
			Categories: cd.Categories,
			Ordered:    cd.Ordered,
			Width:      cd.Width,
			Unsigned:   cd.Unsigned,
			Values:     values,
		}
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	if len(s.Descriptor.Index) == 2 {
		if err := t.SetIndex([2]string{s.Descriptor.Index[0], s.Descriptor.Index[1]}, s.Keys); err != nil {
			return nil, err
		}
	}
	return t, nil
}
