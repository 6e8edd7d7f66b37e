package files

import (
	"strconv"
	"strings"

	"surveycli/internal/table"
)

// absentCell reports whether a text cell stands for a missing value
func absentCell(s string) bool {
	switch s {
	case "", "nan", "NaN":
		return true
	}
	return false
}

// InferColumn types a column of text cells: all integers give KindInt,
// all numbers KindFloat, anything else a category whose set is the
// distinct labels in order of first appearance. Empty cells are absent.
func InferColumn(name string, cells []string) *table.Column {
	trimmed := make([]string, len(cells))
	isInt, isFloat, populated := true, true, false
	for i, c := range cells {
		c = strings.TrimSpace(c)
		trimmed[i] = c
		if absentCell(c) {
			continue
		}
		populated = true
		if isInt {
			if _, err := strconv.ParseInt(c, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat && !isInt {
			if _, err := strconv.ParseFloat(c, 64); err != nil {
				isFloat = false
			}
		}
	}

	switch {
	case !populated:
		return table.NewColumn(name, table.KindFloat, len(cells))
	case isInt:
		col := table.NewColumn(name, table.KindInt, len(cells))
		for i, c := range trimmed {
			if !absentCell(c) {
				col.Values[i], _ = strconv.ParseInt(c, 10, 64)
			}
		}
		return col
	case isFloat:
		col := table.NewColumn(name, table.KindFloat, len(cells))
		for i, c := range trimmed {
			if !absentCell(c) {
				col.Values[i], _ = strconv.ParseFloat(c, 64)
			}
		}
		return col
	}

	values := make([]any, len(cells))
	var categories []string
	seen := make(map[string]struct{})
	for i, c := range trimmed {
		if absentCell(c) {
			continue
		}
		values[i] = c
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}
	return table.NewCategory(name, categories, false, values)
}

// fromGrid builds a table from a header row and data rows. Short rows are
// padded with empty cells.
func fromGrid(header []string, rows [][]string) (*table.Table, error) {
	cols := make([]*table.Column, len(header))
	cells := make([]string, len(rows))
	for j, name := range header {
		for i, row := range rows {
			cells[i] = ""
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		cols[j] = InferColumn(strings.TrimSpace(name), cells)
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return table.Empty(len(rows)), nil
	}
	return t, nil
}
