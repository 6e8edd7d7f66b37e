package operations

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"surveycli/internal/findings"
	"surveycli/internal/table"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureLoader serves in-memory tables for files that exist on disk
type fixtureLoader map[string]*table.Table

func (f fixtureLoader) Load(path string) (*table.Table, error) {
	t, ok := f[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return t.Clone(), nil
}

// touch creates an empty file so existence checks pass
func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	return p
}

func identity(raw *table.Table, _ Source, _ findings.Sink) (*table.Table, error) {
	return raw, nil
}

func ids(v ...int64) *table.Column {
	vals := make([]any, len(v))
	for i, x := range v {
		vals[i] = x
	}
	return &table.Column{Name: RespondentColumn, Kind: table.KindInt, Values: vals}
}

func indexed(t *testing.T, period string, cols ...*table.Column) *table.Table {
	t.Helper()
	raw := table.MustNew(cols...)
	out, err := SetIndex(raw, "wave", period)
	require.NoError(t, err)
	return out
}
