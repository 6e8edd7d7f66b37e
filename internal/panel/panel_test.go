package panel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/config"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

func dataset(t *testing.T, periodName string, keys []table.Key, cols ...*table.Column) *table.Table {
	t.Helper()
	out := table.MustNew(cols...)
	require.NoError(t, out.SetIndex([2]string{"personal_id", periodName}, keys))
	return out
}

func floats(name string, v ...any) *table.Column {
	return &table.Column{Name: name, Kind: table.KindFloat, Values: v}
}

func TestAssemble_OuterJoin(t *testing.T) {
	income := dataset(t, "year",
		[]table.Key{{ID: 1, Period: "2019"}, {ID: 2, Period: "2019"}},
		floats("income", 100.0, 200.0), floats("wealth", 1.0, 2.0))
	assets := dataset(t, "year",
		[]table.Key{{ID: 2, Period: "2019"}, {ID: 3, Period: "2020"}},
		floats("savings", 20.0, 30.0), floats("wealth", 5.0, 6.0))

	out, err := Assemble([]Input{{"income", income}, {"assets", assets}}, Period, false)
	require.NoError(t, err)

	wantKeys := []table.Key{{ID: 1, Period: "2019"}, {ID: 2, Period: "2019"}, {ID: 3, Period: "2020"}}
	if diff := cmp.Diff(wantKeys, out.Index().Keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"income", "wealth_income", "savings", "wealth_assets"}, out.Names())

	savings, _ := out.Column("savings")
	assert.Equal(t, []any{nil, 20.0, 30.0}, savings.Values)
	inc, _ := out.Column("income")
	assert.Equal(t, []any{100.0, 200.0, nil}, inc.Values)
}

func TestAssemble_DropIncompleteBeforeJoin(t *testing.T) {
	x := dataset(t, "year",
		[]table.Key{{ID: 1, Period: "2019"}, {ID: 2, Period: "2019"}},
		floats("a", 1.0, nil), floats("b", 1.0, 2.0))
	y := dataset(t, "year",
		[]table.Key{{ID: 1, Period: "2019"}, {ID: 2, Period: "2019"}},
		floats("c", 7.0, 8.0))

	out, err := Assemble([]Input{{"x", x}, {"y", y}}, Period, true)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows(), "y still covers respondent 2")

	b, _ := out.Column("b")
	assert.Equal(t, []any{1.0, nil}, b.Values, "x-sourced columns of the incomplete row stay absent")
	c, _ := out.Column("c")
	assert.Equal(t, []any{7.0, 8.0}, c.Values)
}

func TestAssemble_MappedTimeIndex(t *testing.T) {
	monthly := dataset(t, "month",
		[]table.Key{{ID: 1, Period: "2019-02"}, {ID: 1, Period: "2019-01"}, {ID: 2, Period: "2019-01"}},
		&table.Column{Name: "year", Kind: table.KindInt, Values: []any{int64(2019), int64(2019), int64(2019)}},
		floats("net_income", 10.0, nil, 5.0),
		floats("age", 40.0, 40.0, nil))
	yearly := dataset(t, "year",
		[]table.Key{{ID: 1, Period: "2019"}},
		floats("savings", 3.0))

	out, err := Assemble([]Input{{"monthly", monthly}, {"yearly", yearly}}, Mapped("year"), false)
	require.NoError(t, err)

	assert.Equal(t, [2]string{"personal_id", "year"}, out.Index().Names)
	assert.Equal(t, []table.Key{{ID: 1, Period: "2019"}, {ID: 2, Period: "2019"}}, out.Index().Keys)
	assert.Equal(t, []string{"net_income", "age", "savings"}, out.Names())

	// January comes first, so its missing income is filled from February
	net, _ := out.Column("net_income")
	assert.Equal(t, []any{10.0, 5.0}, net.Values)
}

func TestAssemble_Errors(t *testing.T) {
	a := dataset(t, "year", []table.Key{{ID: 1, Period: "2019"}}, floats("x", 1.0))
	w := dataset(t, "wave", []table.Key{{ID: 1, Period: "3"}}, floats("y", 1.0))

	tests := []struct {
		name    string
		inputs  []Input
		ti      TimeIndex
		wantErr error
	}{
		{"unknown time index", []Input{{"a", a}}, TimeIndex{Kind: "fiscal"}, apperrors.ErrInvalidTimeIndex},
		{"no inputs", nil, Period, apperrors.ErrConfig},
		{"mismatched period index", []Input{{"a", a}, {"w", w}}, Period, apperrors.ErrConfig},
		{"missing mapping column", []Input{{"w", w}}, Mapped("year"), apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.inputs, tt.ti, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestBuild_SelectsVariables(t *testing.T) {
	tables := map[string]*table.Table{
		"income": dataset(t, "year", []table.Key{{ID: 1, Period: "2019"}},
			floats("income", 1.0), floats("rent", 2.0)),
		"assets": dataset(t, "year", []table.Key{{ID: 1, Period: "2019"}},
			floats("savings", 3.0)),
	}
	load := func(name string) (*table.Table, error) { return tables[name], nil }

	cfg := config.PanelConfig{
		Name:      "wealth",
		TimeIndex: KindPeriod,
		Datasets: []config.PanelDataset{
			{Name: "income", Variables: []string{"rent"}},
			{Name: "assets", Variables: []string{"ALL"}},
		},
	}
	out, err := Build(cfg, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"rent", "savings"}, out.Names())

	cfg.Datasets[0].Variables = []string{"rent", "bonus"}
	_, err = Build(cfg, load)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
	assert.ErrorContains(t, err, "bonus")
}
