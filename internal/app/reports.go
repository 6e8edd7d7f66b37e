package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"surveycli/internal/dataprocessing"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/files"
	"surveycli/internal/operations"
	"surveycli/internal/panel"
	"surveycli/internal/table"
)

// LoadCleaned reads the cleaned output of dataset with its index restored
func (a *Application) LoadCleaned(dataset string) (*table.Table, error) {
	path := a.CleanedPath(dataset)
	if !a.Files.FileExists(path) {
		return nil, apperrors.NewMissingSourceFileError(path)
	}
	return operations.LoadIndexed(operations.LoaderFunc(files.Load), path)
}

// BuildPanel assembles a configured panel from cleaned outputs and saves it
// as <output_dir>/<panel>.<format>
func (a *Application) BuildPanel(ctx context.Context, name string) (string, error) {
	cfg, ok := a.Config.Panel(name)
	if !ok {
		return "", apperrors.NewConfigError(fmt.Sprintf("unknown panel %q", name), nil)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t, err := panel.Build(cfg, a.LoadCleaned)
	if err != nil {
		return "", fmt.Errorf("panel %s: %w", name, err)
	}
	path := a.Paths.OutputFile(name, a.Config.Pipeline.OutputFormat)
	if err := a.Exporter.Save(t, path); err != nil {
		return "", err
	}
	a.Logger.InfoContext(ctx, "panel_built",
		slog.String("panel", name),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()),
		slog.String("output", path))
	return path, nil
}

// BuildPanels builds the named panels, or every configured panel
func (a *Application) BuildPanels(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		for _, p := range a.Config.Panels {
			names = append(names, p.Name)
		}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		path, err := a.BuildPanel(ctx, n)
		if err != nil {
			return out, err
		}
		out = append(out, path)
	}
	return out, nil
}

// Profile describes a cleaned dataset, or any table file when target is
// not a registered dataset, and writes the report as YAML
func (a *Application) Profile(ctx context.Context, target string, cfg dataprocessing.ProfilerConfig) (string, error) {
	var (
		t    *table.Table
		name string
		err  error
	)
	if a.Registry.Has(target) {
		name = target
		t, err = a.LoadCleaned(target)
	} else {
		name = strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
		t, err = files.Load(target)
	}
	if err != nil {
		return "", err
	}

	profiler := dataprocessing.NewProfiler(a.Logger, cfg)
	report := profiler.Generate(ctx, name, t)
	path := a.reportPath(name + ".profile.yaml")
	if err := profiler.WriteYAML(ctx, path, report); err != nil {
		return "", err
	}
	return path, nil
}

// Mapping reads a variable dictionary sheet and writes the per-file raw
// codes of every named variable as YAML. An empty out writes next to the
// logs.
func (a *Application) Mapping(ctx context.Context, dictionary, out string) (string, dataprocessing.Mapping, error) {
	t, err := files.Load(dictionary)
	if err != nil {
		return "", nil, err
	}
	mapping, err := dataprocessing.BuildMapping(t)
	if err != nil {
		return "", nil, err
	}
	if out == "" {
		out = a.reportPath(strings.TrimSuffix(filepath.Base(dictionary), filepath.Ext(dictionary)) + ".mapping.yaml")
	} else if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}
	body, err := yaml.Marshal(mapping)
	if err != nil {
		return "", nil, apperrors.NewStorageError("failed to encode mapping", err)
	}
	err = a.Files.WriteAtomic(out, func(tmp string) error {
		return os.WriteFile(tmp, body, 0644)
	})
	if err != nil {
		return "", nil, apperrors.NewStorageError("failed to write mapping", err)
	}
	a.Logger.InfoContext(ctx, "mapping_written",
		slog.String("dictionary", dictionary),
		slog.Int("variables", len(mapping)),
		slog.String("output", out))
	return out, mapping, nil
}

// DatasetInfo describes one registered dataset
type DatasetInfo struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Index       string   `yaml:"index" json:"index"`
	DependsOn   []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Output      string   `yaml:"output" json:"output"`
}

// Datasets lists the registered datasets in run order
func (a *Application) Datasets() ([]DatasetInfo, error) {
	levels, err := a.Registry.Levels(a.Registry.ListIDs())
	if err != nil {
		return nil, err
	}
	var out []DatasetInfo
	for _, level := range levels {
		for _, name := range level {
			spec, err := a.Registry.Get(name)
			if err != nil {
				return nil, err
			}
			out = append(out, DatasetInfo{
				Name:        spec.Name,
				Description: spec.Description,
				Index:       spec.IndexName,
				DependsOn:   spec.DependsOn,
				Output:      a.CleanedPath(spec.Name),
			})
		}
	}
	return out, nil
}
