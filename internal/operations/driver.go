package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/findings"
	"surveycli/internal/infrastructure"
	"surveycli/internal/table"
)

// Driver cleans one dataset at a time. It is safe for concurrent use as
// long as the registry is no longer being written.
type Driver struct {
	registry *Registry
	loader   Loader
	logger   *slog.Logger
}

// NewDriver creates a driver reading raw files through loader
func NewDriver(registry *Registry, loader Loader, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Driver{
		registry: registry,
		loader:   loader,
		logger:   infrastructure.WithComponent(logger, "driver"),
	}
}

// Registry returns the dataset registry
func (d *Driver) Registry() *Registry {
	return d.registry
}

// Clean loads every source of dataset name, transforms and indexes each
// one, then squashes them into a table with a unique (personal_id, period)
// index. Any failure is returned as a DATASET_CLEANING error.
func (d *Driver) Clean(ctx context.Context, name string, sources []Source) (res *Result, err error) {
	start := time.Now()
	ctx = infrastructure.WithDataset(ctx, name)
	defer func() {
		if err != nil {
			if _, ok := apperrors.DatasetOf(err); !ok {
				err = apperrors.NewDatasetCleaningError(name, err)
			}
			d.logger.ErrorContext(ctx, "dataset_clean_failed", slog.String("error", err.Error()))
		}
	}()

	spec, err := d.registry.Get(name)
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("dataset %s", name))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no source files")
	}

	ordered := SortSources(sources)
	for _, src := range ordered {
		if _, statErr := os.Stat(src.Path); statErr != nil {
			return nil, apperrors.NewMissingSourceFileError(src.Path)
		}
	}

	d.logger.InfoContext(ctx, "dataset_clean_start", slog.Int("sources", len(ordered)))

	collector := findings.NewCollector()
	frags := make([]*table.Table, 0, len(ordered))
	var first table.Schema
	for i, src := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frag, err := d.cleanSource(spec, src, findings.Scoped{Sink: collector, Dataset: name, Source: src.Path})
		if err != nil {
			return nil, err
		}
		if i == 0 {
			first = frag.Schema()
		} else if schema := frag.Schema(); !schema.Equal(first) {
			collector.Add(schemaDrift(name, src, first, schema))
		}
		d.logger.DebugContext(ctx, "source_cleaned",
			slog.String("source", src.Path),
			slog.String("period", src.Period),
			slog.Int("rows", frag.NumRows()))
		frags = append(frags, frag)
	}

	out, err := Squash(frags)
	if err != nil {
		return nil, err
	}
	if key, dup := out.Index().FirstDuplicate(); dup {
		return nil, apperrors.NewNonUniqueIndexError(key.String())
	}

	res = &Result{
		Dataset:  name,
		Table:    out,
		Findings: collector.All(),
		Sources:  ordered,
		Duration: time.Since(start),
	}
	for _, f := range res.Findings {
		d.logger.WarnContext(ctx, "finding", slog.Any("finding", f))
	}
	d.logger.InfoContext(ctx, "dataset_clean_complete",
		slog.Int("rows", out.NumRows()),
		slog.Int("columns", out.NumColumns()),
		slog.Int("findings", len(res.Findings)),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// cleanSource loads, transforms and indexes one source. Transform panics
// are turned into errors.
func (d *Driver) cleanSource(spec *DatasetSpec, src Source, sink findings.Sink) (frag *table.Table, err error) {
	raw, err := d.loader.Load(src.Path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			frag, err = nil, fmt.Errorf("transform of %s panicked: %v", src.Path, r)
		}
	}()
	out, err := spec.Transform(raw, src, sink)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", src.Path, err)
	}
	return SetIndex(out, spec.IndexName, src.Period)
}

// SetIndex moves the respondent and period columns of t into its index.
// When t has no period column every row gets period.
func SetIndex(t *table.Table, periodName, period string) (*table.Table, error) {
	ids, ok := t.Column(RespondentColumn)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %s", RespondentColumn))
	}
	periods, hasPeriod := t.Column(periodName)
	if !hasPeriod && period == "" {
		return nil, apperrors.NewInvalidPeriodError(period, fmt.Errorf("no %s column and no source period", periodName))
	}

	keys := make([]table.Key, t.NumRows())
	for i := range keys {
		id, ok := table.Int(ids.Values[i])
		if !ok {
			return nil, apperrors.NewTypeMismatchError(RespondentColumn,
				fmt.Sprintf("row %d holds %v, want an integer id", i, ids.Values[i]))
		}
		keys[i] = table.Key{ID: id, Period: period}
		if hasPeriod {
			if periods.IsAbsent(i) {
				return nil, apperrors.NewInvalidPeriodError(nil, fmt.Errorf("row %d has no %s", i, periodName))
			}
			keys[i].Period = table.Format(periods.Values[i])
		}
	}

	data := make([]string, 0, t.NumColumns())
	for _, n := range t.Names() {
		if n != RespondentColumn && n != periodName {
			data = append(data, n)
		}
	}
	out, err := t.Select(data)
	if err != nil {
		return nil, err
	}
	out = out.Clone()
	if err := out.SetIndex([2]string{RespondentColumn, periodName}, keys); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadIndexed reads a cleaned dataset written by an earlier run and restores
// its index from the two leading columns: the respondent id and the period.
func LoadIndexed(l Loader, path string) (*table.Table, error) {
	t, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	names := t.Names()
	if len(names) < 2 || names[0] != RespondentColumn {
		return nil, apperrors.NewTypeMismatchError(RespondentColumn,
			fmt.Sprintf("%s does not start with the %s and period columns", path, RespondentColumn))
	}
	return SetIndex(t, names[1], "")
}

// SortSources returns sources ordered by period, then path. This order
// decides which source wins when squashing.
func SortSources(sources []Source) []Source {
	out := append([]Source(nil), sources...)
	sort.SliceStable(out, func(i, j int) bool {
		if c := table.ComparePeriods(out[i].Period, out[j].Period); c != 0 {
			return c < 0
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func schemaDrift(dataset string, src Source, first, got table.Schema) findings.Finding {
	added, removed, changed := got.Diff(first)
	var parts []string
	if len(added) > 0 {
		parts = append(parts, "added "+strings.Join(added, ","))
	}
	if len(removed) > 0 {
		parts = append(parts, "missing "+strings.Join(removed, ","))
	}
	if len(changed) > 0 {
		parts = append(parts, "retyped "+strings.Join(changed, ","))
	}
	return findings.Finding{
		Kind:    findings.SchemaDrift,
		Dataset: dataset,
		Source:  src.Path,
		Message: "schema differs from first source: " + strings.Join(parts, "; "),
	}
}
