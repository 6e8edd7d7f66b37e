package cleaners

import (
	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

// SentinelSet lists the raw values that mean "missing" for one variable.
// The numeric and categorical encodings of the same answer usually differ.
type SentinelSet struct {
	Floats []float64 `yaml:"floats,omitempty"`
	Labels []string  `yaml:"labels,omitempty"`
}

// CleanFloat replaces every value equal to a sentinel with the absent
// marker. NaN is already absent. The input column is not modified.
func CleanFloat(col *table.Column, sentinels []float64) (*table.Column, error) {
	if !col.Kind.IsNumeric() {
		return nil, apperrors.NewUnsupportedColumnTypeError(col.Name, col.Kind.String())
	}
	out := col.Clone()
	for i, v := range out.Values {
		f, ok := table.Float(v)
		if !ok {
			out.Values[i] = nil
			continue
		}
		for _, s := range sentinels {
			if f == s {
				out.Values[i] = nil
				break
			}
		}
	}
	return out, nil
}

// CleanCategorical removes the sentinel labels from the category set and
// sets matching values absent. Labels the column never declared are
// ignored, which tolerates waves that dropped a "don't know" answer.
func CleanCategorical(col *table.Column, labels []string) (*table.Column, error) {
	switch col.Kind {
	case table.KindCategory, table.KindString:
	default:
		return nil, apperrors.NewUnsupportedColumnTypeError(col.Name, col.Kind.String())
	}
	out := col.Clone()
	if out.Kind == table.KindString {
		out.Kind = table.KindCategory
		out.Categories = observedLabels(out)
	}
	present := intersectLabels(out.Categories, labels)
	if len(present) == 0 {
		return out, nil
	}
	drop := make(map[string]struct{}, len(present))
	for _, l := range present {
		drop[l] = struct{}{}
	}
	kept := out.Categories[:0:0]
	for _, c := range out.Categories {
		if _, ok := drop[c]; !ok {
			kept = append(kept, c)
		}
	}
	out.Categories = kept
	for i, v := range out.Values {
		if s, ok := v.(string); ok {
			if _, hit := drop[s]; hit {
				out.Values[i] = nil
			}
		}
	}
	return out, nil
}

func intersectLabels(categories, labels []string) []string {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	var out []string
	for _, l := range labels {
		if _, ok := set[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

func observedLabels(col *table.Column) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range col.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
