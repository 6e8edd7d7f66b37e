package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"surveycli/internal/interval"
	"surveycli/internal/table"
)

func ints(name string, v ...int64) *table.Column {
	vals := make([]any, len(v))
	for i, x := range v {
		vals[i] = x
	}
	return &table.Column{Name: name, Kind: table.KindInt, Values: vals}
}

func floats(name string, v ...float64) *table.Column {
	vals := make([]any, len(v))
	for i, x := range v {
		vals[i] = x
	}
	return &table.Column{Name: name, Kind: table.KindFloat, Values: vals}
}

// labels builds a raw categorical column; "" is absent
func labels(name string, v ...string) *table.Column {
	vals := make([]any, len(v))
	var cats []string
	seen := map[string]bool{}
	for i, x := range v {
		if x == "" {
			continue
		}
		vals[i] = x
		if !seen[x] {
			seen[x] = true
			cats = append(cats, x)
		}
	}
	return table.NewCategory(name, cats, false, vals)
}

// patternAt answers "AEX" at the listed thresholds and "Lottery" elsewhere
func patternAt(thresholds ...int) func(int) string {
	ref := map[int]bool{}
	for _, p := range thresholds {
		ref[p] = true
	}
	return func(p int) string {
		if ref[p] {
			return "AEX"
		}
		return "Lottery"
	}
}

type beliefRow struct {
	id         int64
	choice     func(threshold int) string
	start, end string
}

// writeBeliefsCSV writes a raw ambiguous-beliefs wave the way the survey
// delivers it: Dutch answers and numbered question codes
func writeBeliefsCSV(t *testing.T, path string, rows []beliefRow) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	header := []string{"nomem_encr", "check_aex", "check_rad", "check_rad2", "check_aex2"}
	for i := range BeliefOptions {
		for j := range interval.Thresholds {
			header = append(header, fmt.Sprintf("keuze_%d_%d", i+1, j+1))
		}
	}
	header = append(header, "TijdB", "TijdE", "DatumE")

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))
	for _, r := range rows {
		rec := []string{fmt.Sprint(r.id), "ja", "ja", "nee", "nee"}
		for range BeliefOptions {
			for _, p := range interval.Thresholds {
				answer := "optie 2"
				if r.choice(p) == "AEX" {
					answer = "optie 1"
				}
				rec = append(rec, answer)
			}
		}
		rec = append(rec, r.start, r.end, "24-03-2019")
		require.NoError(t, w.Write(rec))
	}
	w.Flush()
	require.NoError(t, w.Error())
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
