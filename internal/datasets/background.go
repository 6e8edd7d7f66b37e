package datasets

import (
	"surveycli/internal/cleaners"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

// MonthlyBackgroundVariables is the monthly household box ("avars" files)
const MonthlyBackgroundVariables = "monthly_background_variables"

var incomeBrackets = cleaners.Mapping{
	Labels: map[string]string{
		"no income":            "No income",
		"eur 500 or less":      "Less than 500 euros",
		"eur 501 to eur 1000":  "501-1000 euros",
		"eur 1001 to eur 1500": "1001-1500 euros",
		"eur 1501 to eur 2000": "1501-2000 euros",
		"eur 2001 to eur 2500": "2001-2500 euros",
		"eur 2501 to eur 3000": "2501-3000 euros",
		"eur 3001 to eur 3500": "3001-3500 euros",
		"eur 3501 to eur 4000": "3501-4000 euros",
		"eur 4001 to eur 4500": "4001-4500 euros",
		"eur 4501 to eur 5000": "4501-5000 euros",
		"eur 5001 to eur 7500": "5001-7500 euros",
		"more than eur 7500":   "More than 7500 euros",
		"i really don't know":  cleaners.NA,
		"i prefer not to say":  cleaners.NA,
		"nan":                  cleaners.NA,
	},
	Categories: []string{
		"No income", "Less than 500 euros", "501-1000 euros", "1001-1500 euros",
		"1501-2000 euros", "2001-2500 euros", "2501-3000 euros", "3001-3500 euros",
		"3501-4000 euros", "4001-4500 euros", "4501-5000 euros", "5001-7500 euros",
		"More than 7500 euros",
	},
}

var ageBrackets = cleaners.Mapping{
	Labels: map[string]string{
		"15 - 24 years":      "18-24",
		"25 - 34 years":      "25-34",
		"35 - 44 years":      "35-44",
		"45 - 54 years":      "45-54",
		"55 - 64 years":      "55-64",
		"65 years and older": "65+",
		"nan":                cleaners.NA,
	},
	Categories: []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"},
}

var education = cleaners.Mapping{
	Labels: map[string]string{
		"wo (university)": "University",
		"hbo (higher vocational education, us: college)":                                                 "Higher vocational education",
		"mbo (intermediate vocational education, us: junior college)":                                    "Intermediate vocational education",
		"havo/vwo (higher secondary education/preparatory university education, us: senior high school)": "Higher secondary education",
		"vmbo (intermediate secondary education, us: junior high school)":                                "Intermediate secondary education",
		"primary school":                    "Primary school",
		"other":                             "Other",
		"not (yet) completed any education": "Other",
		"not yet started any education":     "Other",
		"nan":                               cleaners.NA,
	},
	Categories: []string{
		"Primary school", "Intermediate secondary education", "Higher secondary education",
		"Intermediate vocational education", "Higher vocational education", "University", "Other",
	},
}

var civilStatus = cleaners.Mapping{
	Labels: map[string]string{
		"married":            "Married",
		"separated":          "Separated",
		"divorced":           "Divorced",
		"widow or widower":   "Widowed",
		"never been married": "Never married",
		"nan":                cleaners.NA,
	},
}

var domesticSituation = cleaners.Mapping{
	Labels: map[string]string{
		"(un)married co-habitation, with child(ren)":    "Co-habitation, with child(ren)",
		"(un)married co-habitation, without child(ren)": "Co-habitation, without child(ren)",
		"single, with child(ren)":                       "Single, with child(ren)",
		"single":                                        "Single",
		"other":                                         "Other",
		"nan":                                           cleaners.NA,
	},
}

var dwelling = cleaners.Mapping{
	Labels: map[string]string{
		"self-owned dwelling": "Self-owned",
		"rental dwelling":     "Rental",
		"cost-free dwelling":  "Cost-free",
		"nan":                 cleaners.NA,
	},
}

var gender = cleaners.Mapping{
	Labels: map[string]string{
		"male":   "Male",
		"female": "Female",
		"nan":    cleaners.NA,
	},
	Categories: []string{"Male", "Female"},
}

var householdPosition = cleaners.Mapping{
	Labels: map[string]string{
		"household head":           "Household head",
		"wedded partner":           "Wedded partner",
		"unwedded partner":         "Unwedded partner",
		"parent (in law)":          "Parent (in law)",
		"child living at home":     "Child living at home",
		"housemate":                "Housemate",
		"family member or boarder": "Family member or boarder",
		"unknown (missing)":        cleaners.NA,
		"nan":                      cleaners.NA,
	},
}

var occupation = cleaners.Mapping{
	Labels: map[string]string{
		"paid employment":                                                     "Employed",
		"works or assists in family business":                                 "Works in family business",
		"autonomous professional, freelancer, or self-employed":               "Self-employed",
		"job seeker following job loss":                                       "Job seeker (following job loss)",
		"first-time job seeker":                                               "Job seeker (first-time)",
		"exempted from job seeking following job loss":                        "Exempted from job seeking (following job loss)",
		"attends school or is studying":                                       "Student",
		"takes care of the housekeeping":                                      "Housekeeping",
		"is pensioner ([voluntary] early retirement, old age pension scheme)": "Pensioner",
		"has (partial) work disability":                                       "Work disability",
		"performs unpaid work while retaining unemployment benefits":          "Performs unpaid work while retaining unemployment benefits",
		"performs voluntary work":                                             "Voluntary work",
		"does something else":                                                 "Other occupation",
		"is too young to have an occupation":                                  "Too young to have an occupation",
		"nan":                                                                 cleaners.NA,
	},
}

var origin = cleaners.Mapping{
	Labels: map[string]string{
		"dutch background": "Dutch",
		"first generation foreign, western background":                       "First generation foreign, Western",
		"first generation foreign, non-western background":                   "First generation foreign, non-western",
		"second generation foreign, western background":                      "Second generation foreign, Western",
		"second generation foreign, non-western background":                  "Second generation foreign, non-western",
		"origin unknown or part of the information unknown (missing values)": cleaners.NA,
		"nan": cleaners.NA,
	},
}

var children = cleaners.Mapping{
	Labels: map[string]string{
		"none":                  "No children",
		"one child":             "One child",
		"two children":          "Two children",
		"three children":        "Three children",
		"four children":         "Four children",
		"five children":         "Five children",
		"six children":          "Six children",
		"seven children":        "Seven children",
		"eight children":        "Eight children",
		"nine children or more": "More than nine children",
		"nan":                   cleaners.NA,
	},
	Categories: []string{
		"No children", "One child", "Two children", "Three children", "Four children",
		"Five children", "Six children", "Seven children", "Eight children", "More than nine children",
	},
}

var householdSize = cleaners.Mapping{
	Labels: map[string]string{
		"one person":           "One person",
		"two persons":          "Two persons",
		"three persons":        "Three persons",
		"four persons":         "Four persons",
		"five persons":         "Five persons",
		"six persons":          "Six persons",
		"seven persons":        "Seven persons",
		"eight persons":        "Eight persons",
		"nine persons or more": "More than nine persons",
		"nan":                  cleaners.NA,
	},
	Categories: []string{
		"One person", "Two persons", "Three persons", "Four persons", "Five persons",
		"Six persons", "Seven persons", "Eight persons", "More than nine persons",
	},
}

var personalIncomeSentinels = cleaners.SentinelSet{
	Labels: []string{"I don't know", "Unknown (missing)", "Prefer not to say", "I dont know"},
}

func backgroundSpec() *operations.DatasetSpec {
	return &operations.DatasetSpec{
		Name:        MonthlyBackgroundVariables,
		Description: "monthly household composition, income and education",
		IndexName:   "month",
		Transform:   cleanBackground,
		Discover:    discoverPeriodic(MonthlyBackgroundVariables, files.MonthlyPattern, files.MonthPeriod),
	}
}

func cleanBackground(raw *table.Table, _ operations.Source, sink findings.Sink) (*table.Table, error) {
	b := newBuilder(raw, sink)
	b.respondent()
	b.integer("age", "leeftijd")
	b.recode("age_cbs", "lftdcat", ageBrackets, true)
	b.integer("birth_year", "gebjaar")
	b.recode("civil_status", "burgstat", civilStatus, false)
	b.recode("hh_member_participation", "doetmee", yesNo, false)
	b.recode("dom_situation", "woonvorm", domesticSituation, false)
	b.recode("dwelling_type", "woning", dwelling, false)
	b.recode("education_cbs", "oplcat", education, false)
	b.recode("education_highest_diploma", "oplmet", education, false)
	b.recode("education_irrespective_diploma", "oplzon", education, false)
	b.recode("gender", "geslacht", gender, false)
	b.indicator("female", "gender", func(v any) bool { return v == "Female" })

	b.recode("gross_income_cat", "brutocat", incomeBrackets, true)
	b.float("gross_income_hh", "brutohh_f", nil, true)
	b.float("gross_income_imputed_personal", "brutoink_f", nil, true)
	b.amount("gross_income_incl_cat", "brutoink", personalIncomeSentinels, false)

	b.recode("hh_children", "aantalki", children, true)
	b.integer("hh_head_age", "lftdhhh")
	b.integer("hh_id", "nohouse_encr")
	b.recode("hh_members", "aantalhh", householdSize, true)
	b.recode("hh_position", "positie", householdPosition, false)
	b.recodeOptional("hh_sim_computer", "simpc", yesNo, false)
	b.recode("hh_head_lives_partner", "partner", yesNo, false)
	b.passthrough("urban_level_location", "sted")
	b.passthrough("location_urban", "sted")

	b.recode("net_income_cat", "nettocat", incomeBrackets, true)
	b.float("net_income_hh", "nettohh_f", nil, true)
	b.indicator("has_pos_net_income", "net_income_hh", func(v any) bool {
		f, ok := table.Float(v)
		return ok && f > 0
	})
	b.float("net_income_imputed_personal", "nettoink_f", nil, true)
	b.amount("net_income_incl_cat", "nettoink", personalIncomeSentinels, false)
	b.amount("net_income_personal", "netinc", personalIncomeSentinels, true)

	b.recode("occupation", "belbezig", occupation, false)
	b.recodeOptional("origin", "herkomstgroep", origin, false)
	return b.table()
}

// indicator emits a 0/1 column derived from an already cleaned column
func (b *builder) indicator(name, from string, pred func(any) bool) {
	if b.err != nil {
		return
	}
	var src *table.Column
	for _, c := range b.cols {
		if c.Name == from {
			src = c
		}
	}
	if src == nil {
		b.add(nil, apperrors.NewNotFoundError("cleaned column "+from))
		return
	}
	col := table.NewColumn(name, table.KindInt, src.Len())
	for i, v := range src.Values {
		col.Values[i] = int64(0)
		if pred(v) {
			col.Values[i] = int64(1)
		}
	}
	col.Width, col.Unsigned = 8, true
	b.add(col, nil)
}
