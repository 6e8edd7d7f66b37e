package cleaners

import (
	"fmt"
	"strings"
	"time"

	"surveycli/internal/table"
)

const (
	clockLayout = "15:04:05"
	dateLayout  = "02-01-2006"
)

// ParseClock parses an "HH:MM:SS" cell. Blank cells are absent.
func ParseClock(v any) (any, error) {
	return parseTime(v, clockLayout)
}

// ParseDate parses a "DD-MM-YYYY" cell. Blank cells are absent.
func ParseDate(v any) (any, error) {
	return parseTime(v, dateLayout)
}

func parseTime(v any, layout string) (any, error) {
	if table.IsAbsent(v) {
		return nil, nil
	}
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("cannot parse %v (%T) as time", v, v)
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse %q with layout %s: %w", s, layout, err)
	}
	return t, nil
}

// TimeColumn parses every cell of col with parse into a KindTime column
func TimeColumn(name string, col *table.Column, parse func(any) (any, error)) (*table.Column, error) {
	out := table.NewColumn(name, table.KindTime, col.Len())
	for i, v := range col.Values {
		t, err := parse(v)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", col.Name, i, err)
		}
		out.Values[i] = t
	}
	return out, nil
}
