// Package operations cleans survey datasets.
//
// A dataset is registered once as a DatasetSpec: the name of its period
// index, a transform turning one raw file into a normalized fragment, and a
// discovery function listing its period-tagged source files.
//
// Driver.Clean runs a single dataset:
//
//	driver := operations.NewDriver(registry, operations.LoaderFunc(files.Load), logger)
//	res, err := driver.Clean(ctx, "economic_situation_assets", sources)
//
// Sources are processed in period order, then path order. Every fragment is
// indexed by (personal_id, period); fragments are then squashed so the first
// non-missing value per column wins. The only error leaving Clean is a
// DATASET_CLEANING error naming the dataset.
//
// Manager runs many datasets on a bounded worker pool. Datasets that depend
// on another dataset's cleaned output wait for it and are skipped when it
// fails; unrelated datasets always run to completion.
package operations
