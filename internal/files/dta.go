package files

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/kshedden/datareader"

	"surveycli/internal/table"
)

// loadDTA reads a Stata file. Value labels replace their numeric codes and
// text columns are typed like CSV cells, so a labelled column comes back
// as a category.
func loadDTA(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr, err := datareader.NewStataReader(f)
	if err != nil {
		return nil, fmt.Errorf("open stata reader: %w", err)
	}
	rdr.InsertCategoryLabels = true
	rdr.InsertStrls = true
	rdr.ConvertDates = true

	rows := rdr.RowCount()
	if rows == 0 {
		cols := make([]*table.Column, 0, len(rdr.ColumnNames()))
		for _, name := range rdr.ColumnNames() {
			cols = append(cols, table.NewColumn(name, table.KindFloat, 0))
		}
		return table.New(cols...)
	}

	series, err := rdr.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	cols := make([]*table.Column, 0, len(series))
	for _, s := range series {
		col, err := stataColumn(s)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return table.New(cols...)
}

func stataColumn(s *datareader.Series) (*table.Column, error) {
	missing := s.Missing()
	absent := func(i int) bool { return i < len(missing) && missing[i] }
	name := strings.TrimSpace(s.Name)

	switch data := s.Data().(type) {
	case []string:
		cells := make([]string, len(data))
		for i, v := range data {
			if !absent(i) {
				cells[i] = v
			}
		}
		return InferColumn(name, cells), nil
	case []time.Time:
		col := table.NewColumn(name, table.KindTime, len(data))
		for i, v := range data {
			if !absent(i) && !v.IsZero() {
				col.Values[i] = v
			}
		}
		return col, nil
	case []int8:
		return intColumn(name, data, absent), nil
	case []int16:
		return intColumn(name, data, absent), nil
	case []int32:
		return intColumn(name, data, absent), nil
	case []int64:
		return intColumn(name, data, absent), nil
	case []float32:
		return floatColumn(name, data, absent), nil
	case []float64:
		return floatColumn(name, data, absent), nil
	}
	return nil, fmt.Errorf("column %s: unsupported stata storage %T", name, s.Data())
}

func intColumn[T int8 | int16 | int32 | int64](name string, data []T, absent func(int) bool) *table.Column {
	col := table.NewColumn(name, table.KindInt, len(data))
	for i, v := range data {
		if !absent(i) {
			col.Values[i] = int64(v)
		}
	}
	return col
}

func floatColumn[T float32 | float64](name string, data []T, absent func(int) bool) *table.Column {
	col := table.NewColumn(name, table.KindFloat, len(data))
	for i, v := range data {
		f := float64(v)
		if absent(i) || math.IsNaN(f) {
			continue
		}
		col.Values[i] = f
	}
	return col
}
