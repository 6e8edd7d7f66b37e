package datasets

import (
	"surveycli/internal/cleaners"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

// EconomicSituationIncome is the yearly income module ("ci" files)
const EconomicSituationIncome = "economic_situation_income"

// appliances asked about, by raw code. Later waves dropped some of them.
var appliances = []struct {
	name, code string
}{
	{"camcorder", "279"},
	{"car", "348"},
	{"cd_dvd_writer", "276"},
	{"cd_player", "273"},
	{"computer", "282"},
	{"deep_fryer", "291"},
	{"digital_camera", "284"},
	{"digital_tv", "270"},
	{"dishwasher", "288"},
	{"dvd_player", "274"},
	{"dvd_recorder", "275"},
	{"fixed_line_phone", "266"},
	{"freezer", "289"},
	{"games_console", "285"},
	{"gps", "286"},
	{"home_cinema", "272"},
	{"microwave", "290"},
	{"mp3_player", "277"},
	{"mp4_player", "278"},
	{"pda_with_inet", "281"},
	{"pda_without_inet", "280"},
	{"phone", "349"},
	{"phone_w_inet", "268"},
	{"phone_wo_inet", "267"},
	{"printer", "283"},
	{"satellite_dish", "271"},
	{"widescreen_tv", "269"},
	{"wash_dryer", "287"},
}

var incomeCodes = func() cleaners.CodeMap {
	m := cleaners.CodeMap{
		"age":                                cleaners.Const("002"),
		"alimony_children_amt":               cleaners.Const("208"),
		"alimony_partner_amt":                cleaners.Const("206"),
		"appliances_reason_nophone":          cleaners.Const("265"),
		"arrears_total_amount_other_bills":   cleaners.Const("300"),
		"arrears_total_amount_rent_mortgage": cleaners.Switched("298", "381", 2019),
		"arrears_total_amount_utilities":     cleaners.Const("299"),
		"benefit_anw_gross_amt":              cleaners.Const("111"),
		"benefit_anw_gross_amt_categ":        cleaners.Switched("112", "368", 2014),
		"benefit_anw_net_amt":                cleaners.Const("113"),
		"benefit_iow_gross_amt":              cleaners.Const("334"),
		"benefit_iow_gross_amt_categ":        cleaners.Switched("335", "371", 2014),
		"chance_to_lose_job":                 cleaners.Switched("256", "379", 2019),
	}
	for _, a := range appliances {
		m["appliances_has_"+a.name] = cleaners.Const(a.code)
	}
	return m
}()

// Raw labels are lower-cased before lookup, which turns the cp1252
// apostrophe 0x92 into U+FFFD.
var applianceAnswers = cleaners.Mapping{
	Labels: map[string]string{
		"yes":                 "Yes",
		"no (not affordable)": "No",
		"no (not necessary)":  "No",
		"no (other reason)":   "No",
		"no (don't need it)":  "No",
		"no (can't afford)":   "No",
		"don't know":          cleaners.NA,
		"don\ufffdt know":     cleaners.NA,
		"don\ufffd\t know":    cleaners.NA,
		"nan":                 cleaners.NA,
	},
	Categories: []string{"Yes", "No"},
}

var noPhoneReasons = cleaners.Mapping{
	Labels: map[string]string{
		"don't need it":   "Don't need it",
		"can't afford it": "Can't afford",
		"98":              cleaners.NA,
		"98.0":            cleaners.NA,
		"99":              cleaners.NA,
		"99.0":            cleaners.NA,
		"nan":             cleaners.NA,
	},
	Categories: []string{"Don't need it", "Can't afford"},
}

var benefitBrackets = cleaners.Mapping{
	Labels: map[string]string{
		"i don't know":          cleaners.NA,
		"i don\ufffdt know":     cleaners.NA,
		"i prefer not to say":   cleaners.NA,
		"nan":                   cleaners.NA,
		"less than 1,000 euros": "< 1,000",
		"1,000-3,000 euros":     "1,000-3,000",
		"3,000-6,000 euros":     "3,000-6,000",
		"6,000-12,000 euros":    "6,000-12,000",
		"12,000-30,000 euros":   "12,000-30,000",
		"less than 4,000 euros": "< 4,000",
		"4,000-8,000 euros":     "4,000-8,000",
		"8,000-12,000 euros":    "8,000-12,000",
		"12,000-16,000 euros":   "12,000-16,000",
		"16,000-20,000 euros":   "16,000-20,000",
	},
	Categories: []string{
		"< 1,000", "1,000-3,000", "3,000-6,000", "6,000-12,000", "12,000-30,000",
		"< 4,000", "4,000-8,000", "8,000-12,000", "12,000-16,000", "16,000-20,000",
	},
}

var jobLossSentinels = cleaners.SentinelSet{
	Floats: []float64{9999999999, 9999999998, 998, 999},
	Labels: []string{
		"NaN",
		"n/a since I am voluntarily quitting my job",
		"n/a since I don\x92t have a job",
	},
}

func incomeSpec() *operations.DatasetSpec {
	return &operations.DatasetSpec{
		Name:        EconomicSituationIncome,
		Description: "personal income, benefits, arrears and durable goods",
		IndexName:   "year",
		Codes:       incomeCodes,
		Transform:   cleanIncome,
		Discover:    discoverPeriodic(EconomicSituationIncome, files.WaveYearPattern, files.YearPeriod),
	}
}

func cleanIncome(raw *table.Table, src operations.Source, sink findings.Sink) (*table.Table, error) {
	prefix, err := wavePrefix(src)
	if err != nil {
		return nil, err
	}
	b := newBuilder(raw, sink)
	col := func(variable string) string {
		return b.code(incomeCodes, prefix, variable, src.Period)
	}

	b.respondent()
	b.integer("age", col("age"))
	b.amount("alimony_children_amt", col("alimony_children_amt"), amountSentinels, false)
	b.amount("alimony_partner_amt", col("alimony_partner_amt"), amountSentinels, false)

	for _, a := range appliances {
		name := "appliances_has_" + a.name
		b.recodeOptional(name, col(name), applianceAnswers, false)
	}
	b.recodeOptional("appliances_reason_nophone", col("appliances_reason_nophone"), noPhoneReasons, false)

	for _, arrear := range []string{"other_bills", "rent_mortgage", "utilities"} {
		name := "arrears_total_amount_" + arrear
		b.amount(name, col(name), amountSentinels, false)
	}

	b.amount("benefit_anw_gross_amt", col("benefit_anw_gross_amt"), cleaners.SentinelSet{
		Floats: amountSentinels.Floats,
		Labels: []string{"I don't know"},
	}, false)
	b.recode("benefit_anw_gross_amt_categ", col("benefit_anw_gross_amt_categ"), benefitBrackets, false)
	b.amount("benefit_anw_net_amt", col("benefit_anw_net_amt"), amountSentinels, true)
	b.float("benefit_iow_gross_amt", col("benefit_iow_gross_amt"), amountSentinels.Floats, true)
	b.recodeOptional("benefit_iow_gross_amt_categ", col("benefit_iow_gross_amt_categ"), benefitBrackets, true)

	b.amount("chance_to_lose_job", col("chance_to_lose_job"), jobLossSentinels, false)
	return b.table()
}
