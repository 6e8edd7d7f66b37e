// Package shared holds helpers used by the tests of several packages.
// It must not contain survey domain logic.
package shared
