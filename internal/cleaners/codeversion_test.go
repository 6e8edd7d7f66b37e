package cleaners

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
)

func TestResolveCode(t *testing.T) {
	tests := []struct {
		name    string
		current any
		want    string
	}{
		{name: "before switch", current: 2018, want: "298"},
		{name: "at switch resolves to post", current: 2019, want: "381"},
		{name: "after switch", current: int64(2020), want: "381"},
		{name: "numeric string", current: " 2019 ", want: "381"},
		{name: "integral float", current: 2018.0, want: "298"},
		{name: "repeated slice", current: []int{2019, 2019, 2019}, want: "381"},
		{name: "repeated string array", current: [2]string{"2018", "2018"}, want: "298"},
		{name: "single element any slice", current: []any{int32(2020)}, want: "381"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCode("298", "381", 2019, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCode_PostIffAtOrAfterSwitch(t *testing.T) {
	for sw := 2008; sw <= 2012; sw++ {
		for period := 2005; period <= 2015; period++ {
			got, err := ResolveCode("pre", "post", sw, period)
			require.NoError(t, err)
			if period >= sw {
				assert.Equal(t, "post", got, "switch=%d period=%d", sw, period)
			} else {
				assert.Equal(t, "pre", got, "switch=%d period=%d", sw, period)
			}
		}
	}
}

func TestResolveCode_InvalidPeriod(t *testing.T) {
	tests := []struct {
		name    string
		current any
	}{
		{name: "non numeric", current: "wave-one"},
		{name: "fractional", current: 2019.5},
		{name: "nil", current: nil},
		{name: "empty slice", current: []int{}},
		{name: "mixed slice", current: []int{2018, 2019}},
		{name: "struct", current: struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveCode("a", "b", 2019, tt.current)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidPeriod))
		})
	}
}

func TestCodeMap(t *testing.T) {
	codes := CodeMap{
		"has_banking_assets": Switched("004", "001", 2010),
		"has_risky_assets":   Const("006"),
	}

	col, err := codes.Column("ca08a", "has_banking_assets", 2008)
	require.NoError(t, err)
	assert.Equal(t, "ca08a004", col)

	col, err = codes.Column("ca10c", "has_banking_assets", 2010)
	require.NoError(t, err)
	assert.Equal(t, "ca10c001", col)

	code, err := codes.Resolve("has_risky_assets", "not-a-year")
	require.NoError(t, err, "constant codes ignore the period")
	assert.Equal(t, "006", code)

	_, err = codes.Resolve("unknown", 2010)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
