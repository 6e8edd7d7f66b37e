package datasets

import (
	"path/filepath"
	"time"

	"surveycli/internal/cleaners"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/interval"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

// MatchingProbabilities decodes the cleaned ambiguous-beliefs choices
// into one probability interval per event and wave
const MatchingProbabilities = "matching_probabilities"

const (
	// completionQuantile is the share of fastest completions discarded
	completionQuantile = 0.15
	// minCompleteWaves is the number of fully answered waves a respondent needs
	minCompleteWaves = 2
)

func matchingSpec() *operations.DatasetSpec {
	return &operations.DatasetSpec{
		Name:        MatchingProbabilities,
		Description: "matching probability intervals of the ambiguous beliefs study",
		IndexName:   "wave",
		Transform:   cleanMatching,
		Discover:    discoverCleaned(AmbiguousBeliefs),
		DependsOn:   []string{AmbiguousBeliefs},
	}
}

// discoverCleaned points at the output an earlier dataset was saved to
func discoverCleaned(dataset string) operations.DiscoverFunc {
	return func(dirs operations.Dirs) ([]operations.Source, error) {
		format := dirs.OutputFormat
		if format == "" {
			format = files.FormatParquet
		}
		path := filepath.Join(dirs.OutputDir, dataset+"."+format)
		return []operations.Source{{Path: path, Period: "all_waves"}}, nil
	}
}

func cleanMatching(raw *table.Table, _ operations.Source, sink findings.Sink) (*table.Table, error) {
	beliefs, err := operations.SetIndex(raw, "wave", "")
	if err != nil {
		return nil, err
	}
	// delimited outputs come back as text
	for _, name := range []string{"start_time", "end_time"} {
		if col, ok := beliefs.Column(name); ok && col.Kind != table.KindTime {
			parsed, err := cleaners.TimeColumn(name, col, parseStoredTime)
			if err != nil {
				return nil, err
			}
			if err := beliefs.SetColumn(parsed); err != nil {
				return nil, err
			}
		}
	}

	keep := interval.DiscardMask(beliefs, "start_time", "end_time", "choice_", completionQuantile)
	kept := beliefs.Filter(func(row int) bool { return keep[row] })

	cols, err := interval.DefaultLayout.DecodeOptions(kept, BeliefOptions, sink)
	if err != nil {
		return nil, err
	}
	decoded, err := table.New(cols...)
	if err != nil {
		return nil, err
	}
	if err := decoded.SetIndex(kept.Index().Names, kept.Index().Keys); err != nil {
		return nil, err
	}

	eligible := interval.EligibleRespondents(decoded, decoded.Names(), minCompleteWaves)
	return decoded.Filter(func(row int) bool { return eligible[row] }).ResetIndex(), nil
}

func parseStoredTime(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		return table.Parse(table.KindTime, x)
	}
	if table.IsAbsent(v) {
		return nil, nil
	}
	return cleaners.ParseClock(v)
}
