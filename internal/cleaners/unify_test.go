package cleaners

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

var incomeSentinels = SentinelSet{
	Floats: []float64{9999999999, 9999999998},
	Labels: []string{"I don't know", "I prefer not to say"},
}

func TestUnify(t *testing.T) {
	tests := []struct {
		name      string
		in        *table.Column
		isMissing bool
		want      []any
		wantWidth int
		wantErr   error
	}{
		{
			name:      "float wave",
			in:        &table.Column{Name: "rent", Kind: table.KindFloat, Values: []any{450.0, 9999999998.0, 700.0}},
			want:      []any{450.0, nil, 700.0},
			wantWidth: 64,
		},
		{
			name:      "int wave becomes float",
			in:        &table.Column{Name: "rent", Kind: table.KindInt, Values: []any{int64(450), int64(700)}},
			want:      []any{450.0, 700.0},
			wantWidth: 32,
		},
		{
			name: "categorical wave with one sentinel missing from codebook",
			in: table.NewCategory("rent", []string{"450", "I don't know", "700.5"}, false,
				[]any{"450", "I don't know", "700.5"}),
			want:      []any{450.0, nil, 700.5},
			wantWidth: 64,
		},
		{
			name:    "non numeric label",
			in:      table.NewCategory("rent", []string{"450", "a lot"}, false, []any{"450", "a lot"}),
			wantErr: apperrors.ErrTypeMismatch,
		},
		{
			name:    "time column",
			in:      &table.Column{Name: "rent", Kind: table.KindTime, Values: []any{time.Now()}},
			wantErr: apperrors.ErrUnsupportedColumnType,
		},
		{
			name:    "string column is not categorical",
			in:      &table.Column{Name: "rent", Kind: table.KindString, Values: []any{"1"}},
			wantErr: apperrors.ErrUnsupportedColumnType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unify(tt.in, incomeSentinels, tt.isMissing)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.KindFloat, got.Kind)
			assert.Equal(t, tt.want, got.Values)
			assert.Equal(t, tt.wantWidth, got.Width)
		})
	}
}

func TestUnify_MissingColumnPassesThrough(t *testing.T) {
	raw := table.MustNew(&table.Column{Name: "ci10a001", Kind: table.KindInt, Values: []any{int64(1), int64(2)}})

	col, missing := Lookup(raw, "ci10a381")
	require.True(t, missing)
	assert.Equal(t, 2, col.Len())
	assert.True(t, col.AllAbsent())

	got, err := Unify(col, incomeSentinels, missing)
	require.NoError(t, err)
	assert.Same(t, col, got)

	present, missing := Lookup(raw, "ci10a001")
	assert.False(t, missing)
	assert.Equal(t, "ci10a001", present.Name)
}

func TestNarrowInt(t *testing.T) {
	tests := []struct {
		name         string
		values       []any
		wantWidth    int
		wantUnsigned bool
	}{
		{"uint8", []any{0.0, 255.0}, 8, true},
		{"uint16", []any{int64(256)}, 16, true},
		{"uint32 ids", []any{int64(800001), int64(899999)}, 32, true},
		{"int8", []any{int64(-1), int64(127)}, 8, false},
		{"int16", []any{int64(-129)}, 16, false},
		{"int64", []any{int64(-1), int64(1 << 40)}, 64, false},
		{"all absent", []any{nil}, 64, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NarrowInt(&table.Column{Name: "x", Kind: table.KindFloat, Values: tt.values})
			require.NoError(t, err)
			assert.Equal(t, table.KindInt, got.Kind)
			assert.Equal(t, tt.wantWidth, got.Width)
			assert.Equal(t, tt.wantUnsigned, got.Unsigned)
		})
	}

	_, err := NarrowInt(&table.Column{Name: "x", Kind: table.KindFloat, Values: []any{1.5}})
	assert.True(t, errors.Is(err, apperrors.ErrTypeMismatch))
}

func TestNarrowFloat(t *testing.T) {
	assert.Equal(t, 32, NarrowFloat(&table.Column{Kind: table.KindFloat, Values: []any{0.0, 1.5}}).Width)
	assert.Equal(t, 64, NarrowFloat(&table.Column{Kind: table.KindFloat, Values: []any{-1.0, 1.5}}).Width)
	assert.Equal(t, 64, NarrowFloat(&table.Column{Kind: table.KindFloat, Values: []any{nil, 1.5}}).Width)
	assert.Equal(t, 64, NarrowFloat(&table.Column{Kind: table.KindFloat, Values: []any{1e300}}).Width)
}

func TestParseClockAndDate(t *testing.T) {
	v, err := ParseClock("13:05:09")
	require.NoError(t, err)
	clock := v.(time.Time)
	assert.Equal(t, 13, clock.Hour())
	assert.Equal(t, 9, clock.Second())

	v, err = ParseDate("24-03-2019")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 3, 24, 0, 0, 0, 0, time.UTC), v)

	for _, blank := range []any{" ", "", nil} {
		v, err = ParseClock(blank)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	_, err = ParseDate("2019/03/24")
	assert.Error(t, err)

	col := &table.Column{Name: "TijdB", Kind: table.KindCategory, Values: []any{"10:00:00", " "}}
	out, err := TimeColumn("start_time", col, ParseClock)
	require.NoError(t, err)
	assert.Equal(t, table.KindTime, out.Kind)
	assert.Nil(t, out.Values[1])
}
