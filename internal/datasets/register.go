package datasets

import (
	"fmt"

	"surveycli/internal/operations"
)

// All returns the specs of every known dataset, dependencies first
func All() []*operations.DatasetSpec {
	return []*operations.DatasetSpec{
		ambiguousBeliefsSpec(),
		assetsSpec(),
		incomeSpec(),
		backgroundSpec(),
		matchingSpec(),
	}
}

// Register adds every known dataset to reg
func Register(reg *operations.Registry) error {
	for _, spec := range All() {
		if err := reg.Register(spec); err != nil {
			return fmt.Errorf("failed to register %s: %w", spec.Name, err)
		}
	}
	return nil
}
