package dataprocessing

import (
	"path/filepath"
	"sort"
	"strings"

	"surveycli/internal/errors"
	"surveycli/internal/table"
)

// NotMapped fills dictionary cells with no raw code for a file
const NotMapped = "Variable not in here/not mapped yet"

// Columns of a variable dictionary sheet
const (
	NewNameColumn = "new_name"
	LabelsColumn  = "labels"
)

// dictionaryExtensions mark dictionary columns that name a raw file
var dictionaryExtensions = map[string]struct{}{
	".dta": {}, ".csv": {}, ".sav": {}, ".xlsx": {}, ".parquet": {},
}

// VariableMapping maps a normalized variable name to its description and
// to the raw code it had in each source file
type VariableMapping struct {
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Files       map[string]string `yaml:"files" json:"files"`
}

// Mapping is keyed by normalized variable name
type Mapping map[string]VariableMapping

// Names returns the normalized names in sorted order
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SourceColumns returns the dictionary columns that name a raw file
func SourceColumns(names []string) []string {
	var out []string
	for _, n := range names {
		if _, ok := dictionaryExtensions[strings.ToLower(filepath.Ext(n))]; ok {
			out = append(out, n)
		}
	}
	return out
}

// BuildMapping reads a variable dictionary table. Rows without a new name
// are skipped; a later row with the same new name replaces an earlier one.
func BuildMapping(t *table.Table) (Mapping, error) {
	dict := t.ResetIndex()
	newNames, ok := dict.Column(NewNameColumn)
	if !ok {
		return nil, errors.NewConfigError("expected column 'new_name' in variable dictionary", nil)
	}
	labels, hasLabels := dict.Column(LabelsColumn)

	var sources []*table.Column
	for _, name := range SourceColumns(dict.Names()) {
		c, _ := dict.Column(name)
		sources = append(sources, c)
	}

	out := make(Mapping)
	for row := 0; row < dict.NumRows(); row++ {
		if newNames.IsAbsent(row) {
			continue
		}
		name := strings.TrimSpace(table.Format(newNames.Values[row]))
		if name == "" {
			continue
		}
		vm := VariableMapping{Files: make(map[string]string, len(sources))}
		for _, c := range sources {
			code := NotMapped
			if !c.IsAbsent(row) {
				code = table.Format(c.Values[row])
			}
			vm.Files[c.Name] = code
		}
		if hasLabels && !labels.IsAbsent(row) {
			vm.Description = table.Format(labels.Values[row])
		}
		out[name] = vm
	}

	if len(out) == 0 {
		return nil, errors.NewConfigError("variable dictionary has no named variables", nil)
	}
	return out, nil
}
