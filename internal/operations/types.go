package operations

import (
	"context"
	"time"

	"surveycli/internal/cleaners"
	"surveycli/internal/findings"
	"surveycli/internal/table"
)

// RespondentColumn is the respondent identifier every transform must emit
const RespondentColumn = "personal_id"

// Source is one raw file tagged with the period it belongs to
type Source struct {
	Path   string `json:"path"`
	Period string `json:"period"`
}

// Dirs locates raw inputs and cleaned outputs for source discovery
type Dirs struct {
	DataDir      string
	OutputDir    string
	OutputFormat string
}

// TransformFunc normalizes one raw table. The result must contain
// RespondentColumn; it may contain the dataset's index column, otherwise
// the source period is used for every row.
type TransformFunc func(raw *table.Table, src Source, sink findings.Sink) (*table.Table, error)

// DiscoverFunc lists a dataset's source files
type DiscoverFunc func(dirs Dirs) ([]Source, error)

// DatasetSpec declares how one logical dataset is cleaned
type DatasetSpec struct {
	Name        string
	Description string
	// IndexName names the period half of the index: year, wave or month
	IndexName string
	Codes     cleaners.CodeMap
	Transform TransformFunc
	Discover  DiscoverFunc
	// DependsOn lists datasets whose cleaned output this one reads
	DependsOn []string
}

// Loader reads a raw table from disk
type Loader interface {
	Load(path string) (*table.Table, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(path string) (*table.Table, error)

// Load calls f(path)
func (f LoaderFunc) Load(path string) (*table.Table, error) {
	return f(path)
}

// SaveFunc persists a cleaned dataset and returns where it was written
type SaveFunc func(ctx context.Context, res *Result) (string, error)

// Result is a cleaned dataset with the findings raised while cleaning it
type Result struct {
	Dataset  string
	Table    *table.Table
	Findings []findings.Finding
	Sources  []Source
	Duration time.Duration
}
