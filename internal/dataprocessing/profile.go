package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"surveycli/internal/errors"
	"surveycli/internal/table"
)

// Answers counted in every column, matched case-insensitively as substrings
const (
	preferNotToSay = "i prefer not to say"
	dontKnow       = "i don't know"
	sentinelHigh   = "9999999999"
	sentinelLow    = "9999999998"
)

// apostrophes folds the cp1252 apostrophe found in some raw waves, raw or
// already decoded to the replacement character
var apostrophes = strings.NewReplacer("\x92", "'", "\ufffd", "'", "\u2019", "'")

// Profiler describes the columns of survey tables
type Profiler struct {
	logger          *slog.Logger
	maxUniqueValues int
}

// ProfilerConfig holds configuration options for the Profiler
type ProfilerConfig struct {
	// MaxUniqueValues caps the distinct values listed per column
	MaxUniqueValues int
}

// DefaultProfilerConfig lists up to 50 distinct values per column
func DefaultProfilerConfig() ProfilerConfig {
	return ProfilerConfig{MaxUniqueValues: 50}
}

// ColumnProfile summarizes one column
type ColumnProfile struct {
	Name           string   `yaml:"name" json:"name"`
	Kind           string   `yaml:"kind" json:"kind"`
	Missing        int      `yaml:"number_missing_values" json:"number_missing_values"`
	Unique         int      `yaml:"number_unique_values" json:"number_unique_values"`
	UniqueValues   []string `yaml:"unique_values,omitempty" json:"unique_values,omitempty"`
	NonMissing     int      `yaml:"number_non_missing_values" json:"number_non_missing_values"`
	PreferNotToSay int      `yaml:"number_prefer_not_to_say" json:"number_prefer_not_to_say"`
	DontKnow       int      `yaml:"number_dont_know" json:"number_dont_know"`
	Sentinel9      int      `yaml:"number_9999999999" json:"number_9999999999"`
	Sentinel8      int      `yaml:"number_9999999998" json:"number_9999999998"`
}

// Report is the profile of one table
type Report struct {
	Dataset     string          `yaml:"dataset" json:"dataset"`
	Rows        int             `yaml:"rows" json:"rows"`
	GeneratedAt time.Time       `yaml:"generated_at" json:"generated_at"`
	Columns     []ColumnProfile `yaml:"columns" json:"columns"`
}

// NewProfiler creates a profiler with the given configuration
func NewProfiler(logger *slog.Logger, config ProfilerConfig) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxUniqueValues <= 0 {
		config.MaxUniqueValues = DefaultProfilerConfig().MaxUniqueValues
	}
	return &Profiler{logger: logger, maxUniqueValues: config.MaxUniqueValues}
}

// Generate profiles every column of t. Index columns come first.
func (p *Profiler) Generate(ctx context.Context, dataset string, t *table.Table) Report {
	flat := t.ResetIndex()
	report := Report{
		Dataset:     dataset,
		Rows:        flat.NumRows(),
		GeneratedAt: time.Now().UTC(),
		Columns:     make([]ColumnProfile, 0, flat.NumColumns()),
	}
	for _, c := range flat.Columns() {
		report.Columns = append(report.Columns, p.profileColumn(c))
	}

	p.logger.InfoContext(ctx, "profile_generated",
		slog.String("dataset", dataset),
		slog.Int("rows", report.Rows),
		slog.Int("columns", len(report.Columns)))
	return report
}

func (p *Profiler) profileColumn(c *table.Column) ColumnProfile {
	prof := ColumnProfile{Name: c.Name, Kind: c.Kind.String()}
	distinct := make(map[string]struct{})
	for _, v := range c.Values {
		if table.IsAbsent(v) {
			prof.Missing++
			continue
		}
		prof.NonMissing++
		text := table.Format(v)
		distinct[text] = struct{}{}

		lower := strings.ToLower(apostrophes.Replace(text))
		if strings.Contains(lower, preferNotToSay) {
			prof.PreferNotToSay++
		}
		if strings.Contains(lower, dontKnow) {
			prof.DontKnow++
		}
		if strings.Contains(text, sentinelHigh) {
			prof.Sentinel9++
		}
		if strings.Contains(text, sentinelLow) {
			prof.Sentinel8++
		}
	}
	prof.Unique = len(distinct)

	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Strings(values)
	if len(values) > p.maxUniqueValues {
		values = values[:p.maxUniqueValues]
	}
	prof.UniqueValues = values
	return prof
}

// WriteYAML writes report to path
func (p *Profiler) WriteYAML(ctx context.Context, path string, report Report) error {
	out, err := yaml.Marshal(report)
	if err != nil {
		return errors.NewStorageError("failed to encode profile", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for profile output", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.NewStorageError("failed to write profile", err)
	}

	p.logger.InfoContext(ctx, "profile_written",
		slog.String("path", path),
		slog.String("dataset", report.Dataset))
	return nil
}
