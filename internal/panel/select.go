package panel

import (
	"fmt"
	"strings"

	"surveycli/internal/config"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

// LoadFunc returns the cleaned table of a dataset
type LoadFunc func(dataset string) (*table.Table, error)

// SelectVariables restricts t to variables. keep names columns that are
// retained even when not listed, such as a mapped time column.
func SelectVariables(t *table.Table, dataset string, variables []string, keep ...string) (*table.Table, error) {
	var missing []string
	names := make([]string, 0, len(variables)+len(keep))
	seen := make(map[string]bool)
	for _, v := range variables {
		if !t.Has(v) {
			missing = append(missing, v)
			continue
		}
		if !seen[v] {
			seen[v] = true
			names = append(names, v)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("dataset %s has no variables %s", dataset, strings.Join(missing, ", ")), nil)
	}
	for _, k := range keep {
		if t.Has(k) && !seen[k] {
			seen[k] = true
			names = append(names, k)
		}
	}
	return t.Select(names)
}

// Build loads the datasets of a configured panel, selects their variables
// and assembles them.
func Build(cfg config.PanelConfig, load LoadFunc) (*table.Table, error) {
	ti := TimeIndex{Kind: cfg.TimeIndex, Column: cfg.MapColumn}
	inputs := make([]Input, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		t, err := load(ds.Name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", ds.Name, err)
		}
		if !ds.AllVariables() {
			var keep []string
			if ti.Kind == KindMapped {
				keep = append(keep, ti.Column)
			}
			if t, err = SelectVariables(t, ds.Name, ds.Variables, keep...); err != nil {
				return nil, err
			}
		}
		inputs = append(inputs, Input{Name: ds.Name, Table: t})
	}
	return Assemble(inputs, ti, cfg.DropIncomplete)
}
