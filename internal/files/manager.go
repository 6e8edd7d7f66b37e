package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"surveycli/internal/config"
)

// Manager resolves pipeline paths and replaces output files safely
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.Resolve(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	m.logger.Debug("file_exists_check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))
	return exists
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.Resolve(path)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return os.MkdirAll(fullPath, 0755)
	}
	return nil
}

// WriteAtomic calls write with a temporary path next to path and renames
// the result into place, so readers never observe a partial file.
func (m *Manager) WriteAtomic(path string, write func(tmp string) error) error {
	fullPath := m.Resolve(path)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// keep the extension so format dispatch still works on the temp file
	tmp := filepath.Join(dir, ".tmp-"+filepath.Base(fullPath))
	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", fullPath, err)
	}

	m.logger.Info("file_written", slog.String("path", fullPath))
	return nil
}

// Resolve resolves a path relative to the appropriate base directory.
// "cleaned/" and "logs/" prefixes select the output and log directories;
// anything else is taken from the data directory.
func (m *Manager) Resolve(path string) string {
	if filepath.IsAbs(path) || m.paths == nil {
		return path
	}
	switch {
	case strings.HasPrefix(path, "cleaned/"):
		return filepath.Join(m.paths.OutputDir, strings.TrimPrefix(path, "cleaned/"))
	case strings.HasPrefix(path, "logs/"):
		return filepath.Join(m.paths.LogsDir, strings.TrimPrefix(path, "logs/"))
	default:
		return filepath.Join(m.paths.DataDir, path)
	}
}
