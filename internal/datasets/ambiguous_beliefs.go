package datasets

import (
	"fmt"
	"strconv"

	"surveycli/internal/cleaners"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/interval"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

// AmbiguousBeliefs is the stock-market beliefs study: seven events, each
// compared against a lottery at thirteen winning probabilities
const AmbiguousBeliefs = "ambiguous_beliefs"

// BeliefOptions name the seven events in questionnaire order. The raw
// question "keuze_<i>_<j>" asks about option i at threshold j.
var BeliefOptions = []string{"e0", "e1", "e2", "e3", "e1c", "e2c", "e3c"}

var waveYear = map[string]int64{
	"1": 2018, "2": 2018,
	"3": 2019, "4": 2019,
	"5": 2020, "6": 2020,
	"7": 2021,
}

var checkCategories = []string{"Passed", "Failed"}

// attention checks: raw column, replacement of the Dutch yes/no answers
var attentionChecks = []struct {
	name, raw string
	answers   map[string]string
}{
	{"attention_check_1", "check_aex", map[string]string{"ja": "Passed", "nee": "Failed"}},
	{"attention_check_2_rad", "check_rad", map[string]string{"ja": "Failed", "nee": "Passed"}},
	{"attention_check_3_rad", "check_rad2", map[string]string{"ja": "Failed", "nee": "Passed"}},
	{"attention_check_4_fb", "check_aex2", map[string]string{"ja": "Passed", "nee": "Failed"}},
}

var choiceAnswers = map[string]string{"optie 1": "AEX", "optie 2": "Lottery"}

func ambiguousBeliefsSpec() *operations.DatasetSpec {
	return &operations.DatasetSpec{
		Name:        AmbiguousBeliefs,
		Description: "beliefs about stock market returns elicited with matching lotteries",
		IndexName:   "wave",
		Transform:   cleanAmbiguousBeliefs,
		Discover:    discoverPeriodic(AmbiguousBeliefs, files.StudyWavePattern, files.WavePeriod),
	}
}

func cleanAmbiguousBeliefs(raw *table.Table, src operations.Source, sink findings.Sink) (*table.Table, error) {
	year, ok := waveYear[src.Period]
	if !ok {
		return nil, apperrors.NewInvalidPeriodError(src.Period, fmt.Errorf("unknown wave"))
	}
	wave, err := strconv.ParseInt(src.Period, 10, 64)
	if err != nil {
		return nil, apperrors.NewInvalidPeriodError(src.Period, err)
	}

	b := newBuilder(raw, sink)
	b.respondent()
	b.constant("wave", table.KindInt, wave)
	b.constant("year", table.KindInt, year)
	for _, check := range attentionChecks {
		if col, ok := b.column(check.raw); ok {
			b.add(cleaners.Replace(col, check.answers, checkCategories).Rename(check.name), nil)
		}
	}
	for i, option := range BeliefOptions {
		for j, p := range interval.Thresholds {
			rawName := fmt.Sprintf("keuze_%d_%d", i+1, j+1)
			if col, ok := b.column(rawName); ok {
				name := interval.DefaultLayout.ChoiceColumn(option, p)
				b.add(cleaners.Replace(col, choiceAnswers, []string{"AEX", "Lottery"}).Rename(name), nil)
			}
		}
	}
	b.timestamp("end_time", "TijdE", cleaners.ParseClock)
	b.timestamp("start_time", "TijdB", cleaners.ParseClock)
	b.timestamp("data_completion", "DatumE", cleaners.ParseDate)
	return b.table()
}

func (b *builder) timestamp(name, rawName string, parse func(any) (any, error)) {
	if col, ok := b.column(rawName); ok {
		b.add(cleaners.TimeColumn(name, col, parse))
	}
}
