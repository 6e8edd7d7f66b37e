package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/config"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestDiscovery_FindPeriodic(t *testing.T) {
	base := t.TempDir()
	writeFiles(t, base,
		"background/avars_201902_EN_1.0p.csv",
		"background/avars_201901_EN_1.0p.csv",
		"background/avars_201903_EN_1.0p.dta",
		"background/readme.md",
		"assets/wave-2/ca10b_EN_1.0p.csv",
		"assets/wave-1/ca08a_1.0p_EN.csv",
		"beliefs/wave-3/L_gaudecker2019_3_6p.parquet",
	)
	d := NewDiscovery(base)

	monthly, err := d.FindPeriodic("background", MonthlyPattern, MonthPeriod)
	require.NoError(t, err)
	require.Len(t, monthly, 3)
	assert.Equal(t, "2019-01", monthly[0].Period)
	assert.Equal(t, "2019-02", monthly[1].Period)
	assert.Equal(t, "2019-03", monthly[2].Period)
	assert.Equal(t, "avars_201903_EN_1.0p.dta", monthly[2].Name)

	yearly, err := d.FindPeriodic("assets", WaveYearPattern, YearPeriod)
	require.NoError(t, err)
	require.Len(t, yearly, 2)
	assert.Equal(t, "2008", yearly[0].Period)
	assert.Equal(t, "ca08a_1.0p_EN.csv", yearly[0].Name)
	assert.Equal(t, "2010", yearly[1].Period)

	waves, err := d.FindPeriodic(filepath.Join(base, "beliefs"), StudyWavePattern, WavePeriod)
	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Equal(t, "3", waves[0].Period)

	_, err = d.FindPeriodic("missing", MonthlyPattern, MonthPeriod)
	assert.Error(t, err)
}

func TestDiscovery_FindTabularFiles(t *testing.T) {
	base := t.TempDir()
	writeFiles(t, base, "b.parquet", "a.csv", "c.dta", "d.txt")

	got, err := NewDiscovery(base).FindTabularFiles(".")
	require.NoError(t, err)
	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"a.csv", "b.parquet", "c.dta"}, names)
}

func TestManager_WriteAtomic(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(&config.Paths{DataDir: dir, OutputDir: filepath.Join(dir, "out")}, nil)

	err := m.WriteAtomic("cleaned/x.csv", func(tmp string) error {
		assert.Equal(t, ".csv", filepath.Ext(tmp))
		return os.WriteFile(tmp, []byte("a\n"), 0o644)
	})
	require.NoError(t, err)
	assert.True(t, m.FileExists(filepath.Join(dir, "out", "x.csv")))

	err = m.WriteAtomic("cleaned/y.csv", func(tmp string) error {
		require.NoError(t, os.WriteFile(tmp, []byte("partial"), 0o644))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, m.FileExists("cleaned/y.csv"))
	assert.False(t, m.FileExists("cleaned/.tmp-y.csv"))

	assert.Equal(t, filepath.Join(dir, "raw.csv"), m.Resolve("raw.csv"))
}
