package datasets

import (
	"fmt"
	"path/filepath"
	"regexp"

	"surveycli/internal/cleaners"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

// rawIDColumn is the encrypted respondent number in every raw file
const rawIDColumn = "nomem_encr"

// amountSentinels are the "don't know" and "prefer not to say" answers of
// money amounts, numeric in some waves and labelled in others
var amountSentinels = cleaners.SentinelSet{
	Floats: []float64{9999999999, 9999999998},
	Labels: []string{"I don't know", "I prefer not to say"},
}

// builder collects cleaned columns for one raw table. The first error
// sticks; later calls are no-ops.
type builder struct {
	raw  *table.Table
	sink findings.Sink
	cols []*table.Column
	err  error
}

func newBuilder(raw *table.Table, sink findings.Sink) *builder {
	return &builder{raw: raw, sink: sink}
}

func (b *builder) add(col *table.Column, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.cols = append(b.cols, col)
}

func (b *builder) column(name string) (*table.Column, bool) {
	if b.err != nil {
		return nil, false
	}
	col, ok := b.raw.Column(name)
	if !ok {
		b.err = apperrors.NewNotFoundError(fmt.Sprintf("column %s", name))
	}
	return col, ok
}

// respondent emits personal_id from the raw respondent number
func (b *builder) respondent() {
	if col, ok := b.column(rawIDColumn); ok {
		b.add(cleaners.NarrowInt(col.Rename(operations.RespondentColumn)))
	}
}

// constant emits a column holding v in every row
func (b *builder) constant(name string, kind table.Kind, v any) {
	col := table.NewColumn(name, kind, b.raw.NumRows())
	for i := range col.Values {
		col.Values[i] = v
	}
	b.add(col, nil)
}

// integer emits a narrowed copy of a required raw column
func (b *builder) integer(name, rawName string) {
	if col, ok := b.column(rawName); ok {
		b.add(cleaners.NarrowInt(col.Rename(name)))
	}
}

// recode emits a required raw column recoded through m
func (b *builder) recode(name, rawName string, m cleaners.Mapping, ordered bool) {
	if col, ok := b.column(rawName); ok {
		b.add(cleaners.Recode(col, m, ordered, b.sink).Rename(name), nil)
	}
}

// recodeOptional tolerates waves where the raw column was not asked
func (b *builder) recodeOptional(name, rawName string, m cleaners.Mapping, ordered bool) {
	col, missing := cleaners.Lookup(b.raw, rawName)
	b.add(cleaners.RecodeOrMissing(col, missing, m, ordered, b.sink).Rename(name), nil)
}

// amount emits a money amount that mixes numbers and labels across waves
func (b *builder) amount(name, rawName string, sentinels cleaners.SentinelSet, optional bool) {
	if b.err != nil {
		return
	}
	col, missing := cleaners.Lookup(b.raw, rawName)
	if missing && !optional {
		b.err = apperrors.NewNotFoundError(fmt.Sprintf("column %s", rawName))
		return
	}
	out, err := cleaners.Unify(col, sentinels, missing)
	if err != nil {
		b.add(nil, err)
		return
	}
	b.add(out.Rename(name), nil)
}

// float emits a numeric column with sentinels removed
func (b *builder) float(name, rawName string, sentinels []float64, optional bool) {
	b.amount(name, rawName, cleaners.SentinelSet{Floats: sentinels}, optional)
}

// passthrough copies an optional raw column unchanged
func (b *builder) passthrough(name, rawName string) {
	col, _ := cleaners.Lookup(b.raw, rawName)
	b.add(col.Rename(name), nil)
}

func (b *builder) table() (*table.Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	return table.New(b.cols...)
}

// wavePrefix returns the module and wave part of a core study file name,
// "ci08a" for "ci08a_1.0p_EN.csv"
func wavePrefix(src operations.Source) (string, error) {
	base := filepath.Base(src.Path)
	if !files.WaveYearPattern.MatchString(base) {
		return "", apperrors.NewInvalidPeriodError(src.Period, fmt.Errorf("%s is not a core study file", base))
	}
	return base[:5], nil
}

// discoverPeriodic lists the files below dataDir/subdir matching pattern
func discoverPeriodic(subdir string, pattern *regexp.Regexp, period files.PeriodFunc) operations.DiscoverFunc {
	return func(dirs operations.Dirs) ([]operations.Source, error) {
		found, err := files.NewDiscovery(dirs.DataDir).FindPeriodic(subdir, pattern, period)
		if err != nil {
			return nil, err
		}
		out := make([]operations.Source, len(found))
		for i, f := range found {
			out[i] = operations.Source{Path: f.Path, Period: f.Period}
		}
		return out, nil
	}
}

// code resolves the raw column of variable in period, e.g. "ca10b001"
func (b *builder) code(codes cleaners.CodeMap, prefix, variable, period string) string {
	if b.err != nil {
		return ""
	}
	name, err := codes.Column(prefix, variable, period)
	if err != nil {
		b.err = err
	}
	return name
}

// yesNo recodes the lower-case yes/no answers
var yesNo = cleaners.Mapping{
	Labels: map[string]string{
		"yes": "Yes",
		"no":  "No",
		"nan": cleaners.NA,
	},
	Categories: []string{"Yes", "No"},
}
