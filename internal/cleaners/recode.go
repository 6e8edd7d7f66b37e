package cleaners

import (
	"math"
	"strconv"
	"strings"

	"surveycli/internal/findings"
	"surveycli/internal/table"
)

// NA marks a raw label that maps to the absent value
const NA = "\x00NA"

// Mapping recodes lower-cased raw labels into canonical categories
type Mapping struct {
	Labels map[string]string
	// Categories is the declared output set, in category order. When empty
	// the distinct non-NA targets of Labels are used, sorted.
	Categories []string
}

// Outputs returns the output category set
func (m Mapping) Outputs() []string {
	if len(m.Categories) > 0 {
		return m.Categories
	}
	seen := make(map[string]struct{})
	for _, v := range m.Labels {
		if v != NA {
			seen[v] = struct{}{}
		}
	}
	return findings.SortedValues(seen)
}

// Identity builds a mapping that keeps each category as is
func Identity(categories ...string) Mapping {
	m := Mapping{Labels: make(map[string]string, len(categories)), Categories: categories}
	for _, c := range categories {
		m.Labels[strings.ToLower(c)] = c
	}
	return m
}

// RawLabel renders a value the way it is looked up in a Mapping:
// lower-cased text, with absent values rendered as "nan".
func RawLabel(v any) string {
	if table.IsAbsent(v) {
		return "nan"
	}
	switch x := v.(type) {
	case string:
		return strings.ToLower(x)
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if x == math.Trunc(x) && !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	}
	return strings.ToLower(table.Format(v))
}

// Recode maps every value through mapping and returns a categorical
// column. Raw values without an entry, or whose target is outside the
// output set, become absent and are reported to sink as a single
// unmapped-category finding.
func Recode(col *table.Column, mapping Mapping, ordered bool, sink findings.Sink) *table.Column {
	outputs := mapping.Outputs()
	allowed := make(map[string]struct{}, len(outputs))
	for _, c := range outputs {
		allowed[c] = struct{}{}
	}

	values := make([]any, col.Len())
	unmapped := make(map[string]struct{})
	for i, v := range col.Values {
		label := RawLabel(v)
		target, ok := mapping.Labels[label]
		if !ok {
			if !table.IsAbsent(v) {
				unmapped[label] = struct{}{}
			}
			continue
		}
		if target == NA {
			continue
		}
		if _, ok := allowed[target]; !ok {
			unmapped[label] = struct{}{}
			continue
		}
		values[i] = target
	}

	if len(unmapped) > 0 && sink != nil {
		sink.Add(findings.Finding{
			Kind:    findings.UnmappedCategory,
			Column:  col.Name,
			Message: "raw categories without a target in the output category set were set to absent",
			Values:  findings.SortedValues(unmapped),
		})
	}
	return table.NewCategory(col.Name, outputs, ordered, values)
}

// RecodeOrMissing recodes col unless the raw column was missing, in which
// case an all-absent categorical column with the declared outputs is returned.
func RecodeOrMissing(col *table.Column, isMissing bool, mapping Mapping, ordered bool, sink findings.Sink) *table.Column {
	if isMissing {
		return table.NewCategory(col.Name, mapping.Outputs(), ordered, make([]any, col.Len()))
	}
	return Recode(col, mapping, ordered, sink)
}

// Replace substitutes exact raw values through replacements, keeping
// unmatched values, and stores the result as a category with the given
// set. Values outside the set become absent.
func Replace(col *table.Column, replacements map[string]string, categories []string) *table.Column {
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}
	values := make([]any, col.Len())
	for i, v := range col.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if r, hit := replacements[s]; hit {
			s = r
		}
		if _, ok := allowed[s]; ok {
			values[i] = s
		}
	}
	return table.NewCategory(col.Name, categories, false, values)
}
