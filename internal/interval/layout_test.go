package interval

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/findings"
	"surveycli/internal/table"
)

// choiceTable builds one column per threshold for option "e0" with rows
// answering according to the given matrices.
func choiceTable(rows ...ChoiceMatrix) *table.Table {
	t := table.Empty(len(rows))
	for i, p := range Thresholds {
		col := table.NewColumn(DefaultLayout.ChoiceColumn("e0", p), table.KindCategory, len(rows))
		col.Categories = []string{"AEX", "Lottery"}
		for r, m := range rows {
			switch m[i] {
			case Reference:
				col.Values[r] = "AEX"
			case Alternative:
				col.Values[r] = "Lottery"
			}
		}
		if err := t.AddColumn(col); err != nil {
			panic(err)
		}
	}
	return t
}

func TestDecodeOptions(t *testing.T) {
	tbl := choiceTable(
		fill(Reference),
		ChoiceMatrix{},
		path(map[int]Choice{50: Reference}),
		path(map[int]Choice{50: Reference, 90: Alternative}),
	)
	sink := findings.NewCollector()

	cols, err := DefaultLayout.DecodeOptions(tbl, []string{"e0"}, sink)
	require.NoError(t, err)
	require.Len(t, cols, 1)

	col := cols[0]
	assert.Equal(t, "mp_e0", col.Name)
	assert.Equal(t, table.KindInterval, col.Kind)
	assert.Equal(t, table.Interval{Lo: 0.99, Hi: 1}, col.Values[0])
	assert.Nil(t, col.Values[1])
	assert.Equal(t, table.Degenerate, col.Values[2])
	assert.Equal(t, table.Degenerate, col.Values[3])

	require.Equal(t, 1, sink.Len())
	f := sink.All()[0]
	assert.Equal(t, findings.DegenerateInterval, f.Kind)
	assert.Equal(t, "mp_e0", f.Column)
	assert.Equal(t, 2, f.Rows)
}

func TestDecodeOptions_MissingColumn(t *testing.T) {
	tbl := choiceTable(fill(Reference))
	_, err := DefaultLayout.DecodeOptions(tbl, []string{"e1"}, findings.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestQuantile(t *testing.T) {
	assert.InDelta(t, 2.5, Quantile([]float64{4, 1, 2, 3}, 0.5), 1e-9)
	assert.InDelta(t, 1.45, Quantile([]float64{1, 2, 3, 4}, 0.15), 1e-9)
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.15))
	assert.True(t, Quantile(nil, 0.15) != Quantile(nil, 0.15), "empty input is NaN")
}

func TestDiscardMask(t *testing.T) {
	base := time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC)
	start := &table.Column{Name: "start_time", Kind: table.KindTime,
		Values: []any{base, base, base, base, nil}}
	end := &table.Column{Name: "end_time", Kind: table.KindTime, Values: []any{
		base.Add(10 * time.Second),
		base.Add(300 * time.Second),
		base.Add(400 * time.Second),
		base.Add(500 * time.Second),
		base.Add(500 * time.Second),
	}}
	c1 := &table.Column{Name: "choice_aex_e0_vs_50", Kind: table.KindCategory,
		Values: []any{"AEX", "AEX", "AEX", "AEX", "AEX"}}
	c2 := &table.Column{Name: "choice_aex_e0_vs_90", Kind: table.KindCategory,
		Values: []any{"Lottery", "Lottery", "AEX", nil, "Lottery"}}
	tbl := table.MustNew(start, end, c1, c2)

	keep := DiscardMask(tbl, "start_time", "end_time", "choice_", 0.15)

	assert.Equal(t, []bool{false, true, false, false, false}, keep)
}

func TestEligibleRespondents(t *testing.T) {
	mp := &table.Column{Name: "mp_e0", Kind: table.KindInterval, Values: []any{
		table.Interval{Lo: 0.5, Hi: 0.6}, table.Interval{Lo: 0.6, Hi: 0.7}, nil,
		table.Interval{Lo: 0.5, Hi: 0.6}, nil,
	}}
	tbl := table.MustNew(mp)
	require.NoError(t, tbl.SetIndex([2]string{"personal_id", "year"}, []table.Key{
		{ID: 1, Period: "2018"}, {ID: 1, Period: "2019"}, {ID: 1, Period: "2020"},
		{ID: 2, Period: "2018"}, {ID: 2, Period: "2019"},
	}))

	assert.Equal(t, []bool{true, true, true, false, false}, EligibleRespondents(tbl, []string{"mp_e0"}, 2))
	assert.Equal(t, []bool{false, false, false, false, false}, EligibleRespondents(tbl, []string{"mp_e0", "mp_e1"}, 2))
}
