package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"surveycli/internal/table"
)

// writeXLSX writes t to the first sheet of a new workbook
func writeXLSX(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	names := header(t)
	row := make([]any, len(names))
	for i, n := range names {
		row[i] = n
	}
	if err := sw.SetRow("A1", row); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	cols := t.Columns()
	ix := t.Index()
	for i := 0; i < t.NumRows(); i++ {
		row = row[:0]
		if ix != nil {
			row = append(row, ix.Keys[i].ID, ix.Keys[i].Period)
		}
		for _, c := range cols {
			row = append(row, cellValue(c.Values[i]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.SaveAs(path)
}
