package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths
type Paths struct {
	DataDir   string
	OutputDir string
	LogsDir   string
}

// Resolve turns the configured directories into absolute paths. Relative
// entries are taken from base, or the working directory when base is empty.
func (p PathsConfig) Resolve(base string) (*Paths, error) {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	abs := func(dir string) string {
		if dir == "" || filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}
	return &Paths{
		DataDir:   abs(p.DataDir),
		OutputDir: abs(p.OutputDir),
		LogsDir:   abs(p.LogsDir),
	}, nil
}

// EnsureDirectories creates the output and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// OutputFile returns the path a cleaned dataset is written to
func (p *Paths) OutputFile(dataset, format string) string {
	return filepath.Join(p.OutputDir, dataset+"."+format)
}

// DatasetDir returns the directory holding a dataset's raw files
func (p *Paths) DatasetDir(dataset string) string {
	return filepath.Join(p.DataDir, dataset)
}
