package dataprocessing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/shared/testutil"
	"surveycli/internal/table"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProfiler_Generate(t *testing.T) {
	tbl := table.MustNew(
		&table.Column{Name: "ci10a002", Kind: table.KindInt, Values: []any{int64(34), int64(34), nil, int64(51)}},
		&table.Column{Name: "ci10a299", Kind: table.KindString, Values: []any{
			"I don\x92t know", "9999999998", "I prefer not to say", "450",
		}},
		&table.Column{Name: "ci10a300", Kind: table.KindFloat, Values: []any{9999999999.0, nil, nil, 1.5}},
	)

	p := NewProfiler(quietLogger(), ProfilerConfig{MaxUniqueValues: 2})
	report := p.Generate(context.Background(), "income", tbl)

	assert.Equal(t, "income", report.Dataset)
	assert.Equal(t, 4, report.Rows)
	require.Len(t, report.Columns, 3)

	age := report.Columns[0]
	assert.Equal(t, "ci10a002", age.Name)
	assert.Equal(t, table.KindInt.String(), age.Kind)
	assert.Equal(t, 1, age.Missing)
	assert.Equal(t, 3, age.NonMissing)
	assert.Equal(t, 2, age.Unique)
	assert.Equal(t, []string{"34", "51"}, age.UniqueValues)

	rent := report.Columns[1]
	assert.Equal(t, 1, rent.DontKnow)
	assert.Equal(t, 1, rent.PreferNotToSay)
	assert.Equal(t, 1, rent.Sentinel8)
	assert.Equal(t, 0, rent.Sentinel9)
	assert.Equal(t, 4, rent.Unique)
	assert.Len(t, rent.UniqueValues, 2)

	other := report.Columns[2]
	assert.Equal(t, 2, other.Missing)
	assert.Equal(t, 1, other.Sentinel9)
}

func TestProfiler_IndexColumnsFirst(t *testing.T) {
	tbl := table.MustNew(&table.Column{Name: "x", Kind: table.KindInt, Values: []any{int64(1)}})
	require.NoError(t, tbl.SetIndex([2]string{"personal_id", "year"}, []table.Key{{ID: 800001, Period: "2018"}}))

	report := NewProfiler(nil, ProfilerConfig{}).Generate(context.Background(), "assets", tbl)
	names := make([]string, 0, len(report.Columns))
	for _, c := range report.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"personal_id", "year", "x"}, names)
}

func TestProfiler_LogsReport(t *testing.T) {
	logger, rec := testutil.NewTestLogger(t)
	tbl := table.MustNew(&table.Column{Name: "x", Kind: table.KindInt, Values: []any{int64(1), int64(2)}})
	NewProfiler(logger, DefaultProfilerConfig()).Generate(context.Background(), "assets", tbl)

	got, ok := rec.Find("profile_generated")
	require.True(t, ok)
	assert.Equal(t, "assets", got.Attrs["dataset"])
	assert.Equal(t, int64(2), got.Attrs["rows"])
}

func TestProfiler_WriteYAML(t *testing.T) {
	tbl := table.MustNew(&table.Column{Name: "x", Kind: table.KindInt, Values: []any{int64(1), nil}})
	p := NewProfiler(quietLogger(), DefaultProfilerConfig())
	report := p.Generate(context.Background(), "assets", tbl)

	path := filepath.Join(t.TempDir(), "nested", "assets.profile.yaml")
	require.NoError(t, p.WriteYAML(context.Background(), path, report))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded struct {
		Dataset string `yaml:"dataset"`
		Rows    int    `yaml:"rows"`
		Columns []struct {
			Name    string `yaml:"name"`
			Missing int    `yaml:"number_missing_values"`
		} `yaml:"columns"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &decoded))
	assert.Equal(t, "assets", decoded.Dataset)
	assert.Equal(t, 2, decoded.Rows)
	require.Len(t, decoded.Columns, 1)
	assert.Equal(t, 1, decoded.Columns[0].Missing)
}

func TestBuildMapping(t *testing.T) {
	dict := table.MustNew(
		&table.Column{Name: "new_name", Kind: table.KindString, Values: []any{"age", nil, "rent", "age"}},
		&table.Column{Name: "labels", Kind: table.KindString, Values: []any{"Age of respondent", "x", "Monthly rent", "Age"}},
		&table.Column{Name: "ci10c.dta", Kind: table.KindString, Values: []any{"ci10c002", "ci10c001", nil, "ci10c002"}},
		&table.Column{Name: "ci19l.csv", Kind: table.KindString, Values: []any{"ci19l002", nil, "ci19l381", "ci19l002"}},
		&table.Column{Name: "notes", Kind: table.KindString, Values: []any{"", "", "", ""}},
	)

	got, err := BuildMapping(dict)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "rent"}, got.Names())
	assert.Equal(t, VariableMapping{
		Description: "Age",
		Files:       map[string]string{"ci10c.dta": "ci10c002", "ci19l.csv": "ci19l002"},
	}, got["age"])
	assert.Equal(t, NotMapped, got["rent"].Files["ci10c.dta"])
	assert.Equal(t, "ci19l381", got["rent"].Files["ci19l.csv"])
}

func TestBuildMapping_Errors(t *testing.T) {
	tests := []struct {
		name string
		dict *table.Table
	}{
		{
			name: "no new_name column",
			dict: table.MustNew(&table.Column{Name: "ci10c.dta", Kind: table.KindString, Values: []any{"a"}}),
		},
		{
			name: "no named rows",
			dict: table.MustNew(&table.Column{Name: "new_name", Kind: table.KindString, Values: []any{nil, " "}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildMapping(tt.dict)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrConfig), "got %v", err)
		})
	}
}

func TestSourceColumns(t *testing.T) {
	assert.Equal(t, []string{"a.dta", "b.CSV"}, SourceColumns([]string{"new_name", "a.dta", "labels", "b.CSV", "c.txt"}))
}
