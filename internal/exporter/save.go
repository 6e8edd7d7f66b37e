package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/files"
	"surveycli/internal/findings"
	"surveycli/internal/operations"
	"surveycli/internal/table"
)

// Options controls how tables are written
type Options struct {
	// BOMPrefix prefixes delimited files with a UTF-8 byte order mark
	BOMPrefix bool
	// Findings writes a <dataset>.findings.yaml report next to each output
	Findings bool
}

// Exporter writes tables in the format their path names
type Exporter struct {
	files  *files.Manager
	opts   Options
	logger *slog.Logger
}

// New creates an exporter writing through fm
func New(fm *files.Manager, opts Options, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if fm == nil {
		fm = files.NewManager(nil, logger)
	}
	return &Exporter{files: fm, opts: opts, logger: logger}
}

// Save writes t to path. The format comes from the extension; the file is
// replaced atomically.
func (e *Exporter) Save(t *table.Table, path string) error {
	format, err := files.FormatOf(path)
	if err != nil {
		return err
	}
	if format == files.FormatDTA {
		return apperrors.NewUnsupportedFormatError(path)
	}
	err = e.files.WriteAtomic(path, func(tmp string) error {
		switch format {
		case files.FormatCSV:
			return writeCSV(t, tmp, e.opts.BOMPrefix)
		case files.FormatXLSX:
			return writeXLSX(t, tmp)
		case files.FormatParquet:
			return writeParquet(t, tmp)
		case files.FormatGob:
			return writeGob(t, tmp)
		}
		return apperrors.NewUnsupportedFormatError(path)
	})
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}

	e.logger.Debug("table_saved",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))
	return nil
}

// SaveFindings writes items as YAML to path
func (e *Exporter) SaveFindings(items []findings.Finding, path string) error {
	out, err := yaml.Marshal(struct {
		Counts   map[findings.Kind]int `yaml:"counts"`
		Findings []findings.Finding    `yaml:"findings"`
	}{findings.CountByKind(items), items})
	if err != nil {
		return fmt.Errorf("failed to encode findings: %w", err)
	}
	err = e.files.WriteAtomic(path, func(tmp string) error {
		return os.WriteFile(tmp, out, 0644)
	})
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}
	return nil
}

// SaveFunc returns an operations.SaveFunc that writes each cleaned dataset
// to outputDir as <dataset>.<format>.
func (e *Exporter) SaveFunc(outputDir, format string) operations.SaveFunc {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	return func(ctx context.Context, res *operations.Result) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		path := filepath.Join(outputDir, res.Dataset+"."+format)
		if err := e.Save(res.Table, path); err != nil {
			return "", err
		}
		if e.opts.Findings && len(res.Findings) > 0 {
			report := filepath.Join(outputDir, res.Dataset+".findings.yaml")
			if err := e.SaveFindings(res.Findings, report); err != nil {
				return "", err
			}
		}
		return path, nil
	}
}
