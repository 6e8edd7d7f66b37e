package operations

import (
	"fmt"
	"sort"
	"strings"

	apperrors "surveycli/internal/errors"
)

// ErrorList collects the dataset failures of one run
type ErrorList struct {
	Errors []error
}

// Error implements the error interface
func (e *ErrorList) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	names := e.Datasets()
	return fmt.Sprintf("%d datasets failed: %s", len(e.Errors), strings.Join(names, ", "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (e *ErrorList) Unwrap() []error {
	return e.Errors
}

// Add adds an error to the list
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (e *ErrorList) HasErrors() bool {
	return len(e.Errors) > 0
}

// Datasets returns the sorted names of the failed datasets
func (e *ErrorList) Datasets() []string {
	names := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		if name, ok := apperrors.DatasetOf(err); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ByDataset returns the error for a dataset, if it failed
func (e *ErrorList) ByDataset(name string) error {
	for _, err := range e.Errors {
		if n, ok := apperrors.DatasetOf(err); ok && n == name {
			return err
		}
	}
	return nil
}
