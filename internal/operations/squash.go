package operations

import (
	"fmt"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

// Squash concatenates indexed fragments in the given order and collapses
// rows sharing a key: per column, the first non-missing value wins. The
// result is sorted by key. A single fragment is returned unchanged.
func Squash(frags []*table.Table) (*table.Table, error) {
	switch len(frags) {
	case 0:
		return nil, fmt.Errorf("no fragments to squash")
	case 1:
		return frags[0], nil
	}

	names := frags[0].Index()
	if names == nil {
		return nil, fmt.Errorf("fragment 0 has no index")
	}
	for i, f := range frags[1:] {
		ix := f.Index()
		if ix == nil || ix.Names != names.Names {
			return nil, fmt.Errorf("fragment %d index does not match %v", i+1, names.Names)
		}
	}

	// Column layout, in first-appearance order. An all-absent fragment
	// column carries no type of its own and yields to the first
	// populated one.
	var order []string
	layout := make(map[string]*table.Column)
	placeholder := make(map[string]bool)
	for _, f := range frags {
		for _, c := range f.Columns() {
			head, seen := layout[c.Name]
			switch {
			case !seen:
				layout[c.Name] = layoutOf(c)
				placeholder[c.Name] = c.AllAbsent()
				order = append(order, c.Name)
			case c.AllAbsent():
			case placeholder[c.Name]:
				layout[c.Name] = layoutOf(c)
				placeholder[c.Name] = false
			default:
				if err := reconcile(head, c); err != nil {
					return nil, err
				}
			}
		}
	}

	// Group rows by key in first-appearance order
	type member struct{ frag, row int }
	groupOf := make(map[table.Key]int)
	var keys []table.Key
	var groups [][]member
	for fi, f := range frags {
		for row, k := range f.Index().Keys {
			g, ok := groupOf[k]
			if !ok {
				g = len(keys)
				groupOf[k] = g
				keys = append(keys, k)
				groups = append(groups, nil)
			}
			groups[g] = append(groups[g], member{fi, row})
		}
	}

	out := table.Empty(len(keys))
	for _, name := range order {
		head := layout[name]
		head.Values = make([]any, len(keys))
		for g, members := range groups {
			for _, m := range members {
				c, ok := frags[m.frag].Column(name)
				if !ok || c.IsAbsent(m.row) {
					continue
				}
				head.Values[g] = coerce(c.Values[m.row], head.Kind)
				break
			}
		}
		if err := out.AddColumn(head); err != nil {
			return nil, err
		}
	}
	if err := out.SetIndex(names.Names, keys); err != nil {
		return nil, err
	}
	return out.SortByIndex(), nil
}

func layoutOf(c *table.Column) *table.Column {
	return &table.Column{
		Name:       c.Name,
		Kind:       c.Kind,
		Categories: append([]string(nil), c.Categories...),
		Ordered:    c.Ordered,
		Width:      c.Width,
		Unsigned:   c.Unsigned,
	}
}

// reconcile widens head so it can hold c's values
func reconcile(head, c *table.Column) error {
	switch {
	case head.Kind == c.Kind:
		if head.Kind == table.KindCategory {
			for _, cat := range c.Categories {
				if !head.HasCategory(cat) {
					head.Categories = append(head.Categories, cat)
				}
			}
			head.Ordered = head.Ordered && c.Ordered
		}
		if head.Width != c.Width || head.Unsigned != c.Unsigned {
			head.Width, head.Unsigned = widen(head, c)
		}
	case head.Kind == table.KindInt && c.Kind == table.KindFloat,
		head.Kind == table.KindFloat && c.Kind == table.KindInt:
		head.Kind = table.KindFloat
		head.Width, head.Unsigned = 64, false
	default:
		return apperrors.NewTypeMismatchError(head.Name,
			fmt.Sprintf("stored as %s in one source and %s in another", head.Kind, c.Kind))
	}
	return nil
}

func widen(a, b *table.Column) (int, bool) {
	if a.Kind == table.KindFloat {
		return 64, false
	}
	w := a.Width
	if b.Width > w {
		w = b.Width
	}
	if a.Unsigned == b.Unsigned {
		return w, a.Unsigned
	}
	// a signed column must also hold the unsigned side's range
	if w < 64 {
		w *= 2
	}
	return w, false
}

func coerce(v any, kind table.Kind) any {
	if kind != table.KindFloat {
		return v
	}
	if f, ok := table.Float(v); ok {
		return f
	}
	return v
}
