// Package config loads the surveyclean configuration.
//
// Values are layered in increasing precedence:
//
//  1. Default()
//  2. a YAML file (survey.yaml or configs/survey.yaml, or --config)
//  3. SURVEY_* environment variables, e.g. SURVEY_PIPELINE_WORKERS=8
//
// Panels are only configurable from the file:
//
//	panels:
//	  - name: beliefs_and_assets
//	    time_index: period
//	    drop_incomplete: true
//	    datasets:
//	      - name: ambiguous_beliefs
//	        variables: [ALL]
//	      - name: economic_situation_assets
//	        variables: [has_risky_assets, value_risky_assets]
//
// The loaded configuration is validated with struct tags; failures are
// reported as CONFIG errors naming the offending YAML keys.
package config
