package datasets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

func values(t *testing.T, tbl *table.Table, name string) []any {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, "column %s", name)
	return col.Values
}

func TestRegister(t *testing.T) {
	reg := operations.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Equal(t, 5, reg.Count())

	levels, err := reg.Levels(reg.ListIDs())
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, []string{MatchingProbabilities}, levels[1])

	assert.Error(t, Register(reg), "names are unique")
}

func TestCleanAssets(t *testing.T) {
	tests := []struct {
		name    string
		src     operations.Source
		raw     *table.Table
		banking []any
		wantErr error
	}{
		{
			name: "code after the switch",
			src:  operations.Source{Path: "/data/assets/wave-2/ca10b_EN_1.0p.csv", Period: "2010"},
			raw: table.MustNew(
				ints("nomem_encr", 800001, 800002),
				labels("ca10b001", "yes", "no"),
				labels("ca10b006", "no", "yes"),
				floats("ca10b016", 1500, 9999999999),
			),
			banking: []any{"Yes", "No"},
		},
		{
			name: "code before the switch",
			src:  operations.Source{Path: "/data/assets/wave-1/ca08a_1.0p_EN.csv", Period: "2008"},
			raw: table.MustNew(
				ints("nomem_encr", 800001, 800002),
				labels("ca08a004", "no", "Yes"),
				labels("ca08a006", "no", "yes"),
				floats("ca08a016", 1500, 9999999999),
			),
			banking: []any{"No", "Yes"},
		},
		{
			name: "raw column of the period missing",
			src:  operations.Source{Path: "/data/assets/wave-1/ca08a_1.0p_EN.csv", Period: "2008"},
			raw: table.MustNew(
				ints("nomem_encr", 800001),
				labels("ca08a001", "yes"),
			),
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "file name without wave prefix",
			src:     operations.Source{Path: "/data/assets/assets.csv", Period: "2008"},
			raw:     table.MustNew(ints("nomem_encr", 800001)),
			wantErr: apperrors.ErrInvalidPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := cleanAssets(tt.raw, tt.src, findings.NewCollector())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"personal_id", "has_banking_assets", "has_risky_assets", "value_risky_assets"}, out.Names())
			assert.Equal(t, tt.banking, values(t, out, "has_banking_assets"))
			assert.Equal(t, []any{1500.0, nil}, values(t, out, "value_risky_assets"))
		})
	}
}

func incomeRaw(prefix, rentCode, anwCode, jobCode string) *table.Table {
	return table.MustNew(
		ints("nomem_encr", 800001, 800002),
		ints(prefix+"002", 34, 61),
		floats(prefix+"208", 0, 9999999998),
		floats(prefix+"206", 120.5, 0),
		floats(prefix+"300", 0, 0),
		floats(prefix+rentCode, 450, 9999999999),
		floats(prefix+"299", 0, 80),
		labels(prefix+"111", "I don't know", "350"),
		labels(prefix+anwCode, "less than 1,000 euros", "i prefer not to say"),
		labels(prefix+jobCode, "n/a since I don\x92t have a job", "25"),
		labels(prefix+"348", "yes", "no (can't afford)"),
	)
}

func TestCleanIncome(t *testing.T) {
	src := operations.Source{Path: "/data/income/wave-12/ci19l_EN_1.0p.csv", Period: "2019"}
	sink := findings.NewCollector()
	out, err := cleanIncome(incomeRaw("ci19l", "381", "368", "379"), src, sink)
	require.NoError(t, err)

	assert.Equal(t, []any{int64(800001), int64(800002)}, values(t, out, "personal_id"))
	assert.Equal(t, []any{450.0, nil}, values(t, out, "arrears_total_amount_rent_mortgage"))
	assert.Equal(t, []any{0.0, nil}, values(t, out, "alimony_children_amt"))
	assert.Equal(t, []any{nil, 350.0}, values(t, out, "benefit_anw_gross_amt"))
	assert.Equal(t, []any{"< 1,000", nil}, values(t, out, "benefit_anw_gross_amt_categ"))
	assert.Equal(t, []any{nil, 25.0}, values(t, out, "chance_to_lose_job"))
	assert.Equal(t, []any{"Yes", "No"}, values(t, out, "appliances_has_car"))
	assert.Equal(t, []any{nil, nil}, values(t, out, "appliances_has_camcorder"), "not asked this wave")
	assert.Equal(t, []any{nil, nil}, values(t, out, "benefit_anw_net_amt"))
	assert.Empty(t, sink.All())

	age, _ := out.Column("age")
	assert.Equal(t, 8, age.Width)
	assert.True(t, age.Unsigned)

	old := operations.Source{Path: "/data/income/wave-11/ci18k_EN_1.0p.csv", Period: "2018"}
	out, err = cleanIncome(incomeRaw("ci18k", "298", "368", "256"), old, sink)
	require.NoError(t, err)
	assert.Equal(t, []any{450.0, nil}, values(t, out, "arrears_total_amount_rent_mortgage"))

	_, err = cleanIncome(incomeRaw("ci18k", "381", "368", "256"), old, sink)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "2018 still reads code 298")
}

// backgroundRaw is a two-respondent monthly background extract
func backgroundRaw(extra ...*table.Column) *table.Table {
	cols := []*table.Column{
		ints("nomem_encr", 800001, 800002),
		ints("leeftijd", 34, 70),
		labels("lftdcat", "25 - 34 years", "65 years and older"),
		ints("gebjaar", 1985, 1949),
		labels("burgstat", "Married", "Never been married"),
		labels("doetmee", "yes", "no"),
		labels("woonvorm", "Single", "(Un)married co-habitation, with child(ren)"),
		labels("woning", "Rental dwelling", "Self-owned dwelling"),
		labels("oplcat", "wo (university)", "primary school"),
		labels("oplmet", "wo (university)", "other"),
		labels("oplzon", "wo (university)", "primary school"),
		labels("geslacht", "Female", "male"),
		labels("brutocat", "EUR 1501 to EUR 2000", "I prefer not to say"),
		labels("brutoink", "1800", "I don't know"),
		labels("aantalki", "None", "Two children"),
		ints("lftdhhh", 34, 70),
		ints("nohouse_encr", 500001, 500002),
		labels("aantalhh", "One person", "Four persons"),
		labels("positie", "Household head", "Unknown (missing)"),
		labels("partner", "No", "Yes"),
		labels("nettocat", "EUR 1001 to EUR 1500", "No income"),
		floats("nettohh_f", 1400, 0),
		labels("nettoink", "1400", "Prefer not to say"),
		labels("belbezig", "Paid employment", "Is pensioner ([voluntary] early retirement, old age pension scheme)"),
	}
	return table.MustNew(append(cols, extra...)...)
}

func TestCleanBackground_Recodes(t *testing.T) {
	raw := backgroundRaw()
	src := operations.Source{Path: "/data/background/avars_201903_EN_1.0p.csv", Period: "2019-03"}
	sink := findings.NewCollector()
	out, err := cleanBackground(raw, src, sink)
	require.NoError(t, err)

	assert.Equal(t, []any{"25-34", "65+"}, values(t, out, "age_cbs"))
	assert.Equal(t, []any{"Female", "Male"}, values(t, out, "gender"))
	assert.Equal(t, []any{int64(1), int64(0)}, values(t, out, "female"))
	assert.Equal(t, []any{"1501-2000 euros", nil}, values(t, out, "gross_income_cat"))
	assert.Equal(t, []any{1800.0, nil}, values(t, out, "gross_income_incl_cat"))
	assert.Equal(t, []any{"Household head", nil}, values(t, out, "hh_position"))
	assert.Equal(t, []any{int64(1), int64(0)}, values(t, out, "has_pos_net_income"))
	assert.Equal(t, []any{"Employed", "Pensioner"}, values(t, out, "occupation"))
	assert.Equal(t, []any{nil, nil}, values(t, out, "net_income_personal"), "not asked this month")
	assert.Equal(t, []any{nil, nil}, values(t, out, "origin"))

	ageCBS, _ := out.Column("age_cbs")
	assert.True(t, ageCBS.Ordered)
	assert.Empty(t, sink.All())

	_, err = cleanBackground(table.MustNew(ints("nomem_encr", 1)), src, sink)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCleanBackground_MonthWithoutUrbanity(t *testing.T) {
	dir := t.TempDir()
	march := filepath.Join(dir, "avars_201903_EN_1.0p.csv")
	april := filepath.Join(dir, "avars_201904_EN_1.0p.csv")
	raws := map[string]*table.Table{
		march: backgroundRaw(labels("sted", "Very highly urban", "Not urban")),
		april: backgroundRaw(),
	}
	for path := range raws {
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	loader := operations.LoaderFunc(func(path string) (*table.Table, error) {
		return raws[path], nil
	})

	reg := operations.NewRegistry()
	require.NoError(t, Register(reg))
	d := operations.NewDriver(reg, loader, quiet())

	res, err := d.Clean(context.Background(), MonthlyBackgroundVariables, []operations.Source{
		{Path: april, Period: "2019-04"},
		{Path: march, Period: "2019-03"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Table.NumRows())

	for _, name := range []string{"location_urban", "urban_level_location"} {
		col, ok := res.Table.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, table.KindCategory, col.Kind, name)
		assert.Equal(t, []any{"Very highly urban", nil, "Not urban", nil}, col.Values, name)
	}
}

func TestCleanAmbiguousBeliefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "L_gaudecker2019_3_6p.csv")
	writeBeliefsCSV(t, path, []beliefRow{
		{id: 800001, choice: patternAt(50, 60), start: "10:00:00", end: "10:10:00"},
		{id: 800002, choice: patternAt(1), start: " ", end: "10:12:00"},
	})
	raw, err := files.Load(path)
	require.NoError(t, err)

	out, err := cleanAmbiguousBeliefs(raw, operations.Source{Path: path, Period: "3"}, findings.NewCollector())
	require.NoError(t, err)

	assert.Equal(t, []any{int64(3), int64(3)}, values(t, out, "wave"))
	assert.Equal(t, []any{int64(2019), int64(2019)}, values(t, out, "year"))
	assert.Equal(t, []any{"Passed", "Passed"}, values(t, out, "attention_check_1"))
	assert.Equal(t, []any{"Failed", "Failed"}, values(t, out, "attention_check_2_rad"))
	assert.Equal(t, []any{"Passed", "Passed"}, values(t, out, "attention_check_3_rad"))
	assert.Equal(t, []any{"AEX", "Lottery"}, values(t, out, "choice_aex_e0_vs_50"))
	assert.Equal(t, []any{"Lottery", "AEX"}, values(t, out, "choice_aex_e3c_vs_1"))

	start := values(t, out, "start_time")
	assert.Equal(t, 10, start[0].(time.Time).Hour())
	assert.Nil(t, start[1], "blank clock is absent")
	assert.Equal(t, time.Date(2019, 3, 24, 0, 0, 0, 0, time.UTC), values(t, out, "data_completion")[0])

	_, err = cleanAmbiguousBeliefs(raw, operations.Source{Path: path, Period: "9"}, nil)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPeriod))
}
