package datasets

import (
	"surveycli/internal/cleaners"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

// EconomicSituationAssets is the yearly assets module ("ca" files)
const EconomicSituationAssets = "economic_situation_assets"

var assetsCodes = cleaners.CodeMap{
	"has_banking_assets": cleaners.Switched("004", "001", 2010),
	"has_risky_assets":   cleaners.Const("006"),
	"value_risky_assets": cleaners.Const("016"),
}

func assetsSpec() *operations.DatasetSpec {
	return &operations.DatasetSpec{
		Name:        EconomicSituationAssets,
		Description: "household banking and risky asset holdings",
		IndexName:   "year",
		Codes:       assetsCodes,
		Transform:   cleanAssets,
		Discover:    discoverPeriodic(EconomicSituationAssets, files.WaveYearPattern, files.YearPeriod),
	}
}

func cleanAssets(raw *table.Table, src operations.Source, sink findings.Sink) (*table.Table, error) {
	prefix, err := wavePrefix(src)
	if err != nil {
		return nil, err
	}
	b := newBuilder(raw, sink)
	b.respondent()
	b.recode("has_banking_assets", b.code(assetsCodes, prefix, "has_banking_assets", src.Period), yesNo, false)
	b.recode("has_risky_assets", b.code(assetsCodes, prefix, "has_risky_assets", src.Period), yesNo, false)
	b.float("value_risky_assets", b.code(assetsCodes, prefix, "value_risky_assets", src.Period),
		amountSentinels.Floats, false)
	return b.table()
}
