package interval

import (
	"math"
	"sort"
	"strings"
	"time"

	"surveycli/internal/table"
)

// Quantile returns the q-quantile of xs with linear interpolation between
// closest ranks. NaN for empty input.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	return s[lo] + (s[hi]-s[lo])*(pos-float64(lo))
}

// DiscardMask reports which rows to keep: the completion time must exceed
// the q-quantile of all completion times, and the choice answers must not
// all be the same. Rows without both timestamps are dropped.
func DiscardMask(t *table.Table, startColumn, endColumn, choicePrefix string, q float64) []bool {
	keep := make([]bool, t.NumRows())
	start, okStart := t.Column(startColumn)
	end, okEnd := t.Column(endColumn)
	if !okStart || !okEnd {
		return keep
	}

	durations := make([]float64, t.NumRows())
	var observed []float64
	for i := range durations {
		durations[i] = math.NaN()
		s, ok1 := start.Values[i].(time.Time)
		e, ok2 := end.Values[i].(time.Time)
		if ok1 && ok2 {
			durations[i] = e.Sub(s).Seconds()
			observed = append(observed, durations[i])
		}
	}
	cut := Quantile(observed, q)

	var choices []*table.Column
	for _, c := range t.Columns() {
		if strings.HasPrefix(c.Name, choicePrefix) {
			choices = append(choices, c)
		}
	}

	for i := range keep {
		if !(durations[i] > cut) {
			continue
		}
		distinct := make(map[any]struct{}, 2)
		for _, c := range choices {
			if v := c.Values[i]; !table.IsAbsent(v) {
				distinct[v] = struct{}{}
			}
		}
		keep[i] = len(distinct) > 1
	}
	return keep
}

// EligibleRespondents reports, per row, whether the row's respondent has at least
// minComplete rows with every one of columns present.
func EligibleRespondents(t *table.Table, columns []string, minComplete int) []bool {
	out := make([]bool, t.NumRows())
	ix := t.Index()
	if ix == nil {
		return out
	}
	cols := make([]*table.Column, 0, len(columns))
	for _, name := range columns {
		if c, ok := t.Column(name); ok {
			cols = append(cols, c)
		}
	}

	complete := make(map[int64]int)
	for i, k := range ix.Keys {
		ok := len(cols) == len(columns)
		for _, c := range cols {
			if c.IsAbsent(i) {
				ok = false
				break
			}
		}
		if ok {
			complete[k.ID]++
		}
	}
	for i, k := range ix.Keys {
		out[i] = complete[k.ID] >= minComplete
	}
	return out
}
