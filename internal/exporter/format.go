package exporter

import (
	"strconv"
	"time"

	"surveycli/internal/table"
)

// cellText formats a value for delimited output. Floats keep their
// shortest exact representation; absent values are empty.
func cellText(v any) string {
	switch x := v.(type) {
	case float64:
		if table.IsAbsent(x) {
			return ""
		}
		return formatFloat(x)
	case int64:
		return formatInt(x)
	case bool:
		return formatBool(x)
	}
	return table.Format(v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// cellValue converts a value for a spreadsheet cell. Intervals and times
// are written as text so they read back unchanged.
func cellValue(v any) any {
	if table.IsAbsent(v) {
		return nil
	}
	switch x := v.(type) {
	case int64, float64, string, bool:
		return x
	case time.Time:
		return x.Format(table.TimeLayout)
	}
	return table.Format(v)
}
