// Package datasets declares the survey modules the cleaner knows about.
//
// Each module is a operations.DatasetSpec: how its raw files are found,
// which raw codes feed which variable in which period, and the transform
// that turns one raw wave into normalized columns. Register adds all of
// them to a registry:
//
//	reg := operations.NewRegistry()
//	if err := datasets.Register(reg); err != nil {
//		return err
//	}
//
// Label mappings and sentinel sets are plain Go literals next to the
// transform that uses them.
package datasets
