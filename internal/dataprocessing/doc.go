// Package dataprocessing inspects raw and cleaned survey tables.
//
// The Profiler describes every column of a table: its kind, how many
// values are missing, how many distinct values it holds, and how often
// the survey's "don't know" style answers and numeric sentinels occur.
// The counts are what a data dictionary author needs to decide which
// sentinel set and label mapping a variable requires.
//
// Generate a profile and write it as YAML:
//
//	profiler := dataprocessing.NewProfiler(logger, dataprocessing.DefaultProfilerConfig())
//	report := profiler.Generate(ctx, "economic_situation_income", tbl)
//	if err := profiler.WriteYAML(ctx, "logs/income.profile.yaml", report); err != nil {
//		return err
//	}
//
// BuildMapping turns a variable dictionary sheet into per-file raw codes.
package dataprocessing
