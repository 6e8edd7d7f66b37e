package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"surveycli/internal/config"
	"surveycli/internal/datasets"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/exporter"
	"surveycli/internal/files"
	"surveycli/internal/infrastructure"
	"surveycli/internal/operations"
	handlers "surveycli/internal/transport/http"
)

// Application is the wired pipeline
type Application struct {
	Config   *config.Config
	Paths    *config.Paths
	Logger   *slog.Logger
	OTel     *infrastructure.OTelProviders
	Registry *operations.Registry
	Driver   *operations.Driver
	Manager  *operations.Manager
	Files    *files.Manager
	Exporter *exporter.Exporter

	status *handlers.Server
}

// New wires an application from cfg. Relative paths resolve against the
// working directory.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := cfg.Paths.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return nil, err
	}

	registry := operations.NewRegistry()
	if err := datasets.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register datasets: %w", err)
	}

	fm := files.NewManager(paths, logger)
	exp := exporter.New(fm, exporter.Options{Findings: true}, logger)
	driver := operations.NewDriver(registry, operations.LoaderFunc(files.Load), logger)
	manager := operations.NewManager(driver, operations.ManagerOptions{
		Workers:  cfg.Pipeline.Workers,
		FailFast: cfg.Pipeline.FailFast,
		Dirs: operations.Dirs{
			DataDir:      paths.DataDir,
			OutputDir:    paths.OutputDir,
			OutputFormat: cfg.Pipeline.OutputFormat,
		},
		Save: exp.SaveFunc(paths.OutputDir, cfg.Pipeline.OutputFormat),
	}, tracer, logger)

	logger.Info("application initialized",
		slog.String("version", config.AppVersion),
		slog.String("data_dir", paths.DataDir),
		slog.String("output_dir", paths.OutputDir),
		slog.Int("datasets", registry.Count()))

	return &Application{
		Config:   cfg,
		Paths:    paths,
		Logger:   logger,
		OTel:     providers,
		Registry: registry,
		Driver:   driver,
		Manager:  manager,
		Files:    fm,
		Exporter: exp,
	}, nil
}

// Clean runs the named datasets, or the configured ones, or all of them.
// Unknown names are a configuration error.
func (a *Application) Clean(ctx context.Context, names []string) (*operations.RunState, error) {
	if len(names) == 0 {
		names = a.Config.Pipeline.Datasets
	}
	for _, n := range names {
		if !a.Registry.Has(n) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("unknown dataset %q (known: %s)",
				n, strings.Join(a.Registry.ListIDs(), ", ")), nil)
		}
	}
	return a.Manager.Run(ctx, names)
}

// CleanedPath is where the cleaned output of dataset is written
func (a *Application) CleanedPath(dataset string) string {
	return a.Paths.OutputFile(dataset, a.Config.Pipeline.OutputFormat)
}

// StartStatusServer serves run status on the configured metrics address.
// It returns "" when no address is configured.
func (a *Application) StartStatusServer(ctx context.Context) (string, error) {
	addr := a.Config.Telemetry.MetricsAddr
	if addr == "" {
		return "", nil
	}
	router := handlers.NewRouter(a.Manager, handlers.RouterOptions{
		Version: config.AppVersion,
		Metrics: a.OTel.PrometheusHTTP,
	}, a.Logger)
	a.status = handlers.NewServer(addr, router, a.Logger)
	return a.status.Start(ctx)
}

// Shutdown stops the status server and flushes telemetry
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error
	if a.status != nil {
		if err := a.status.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("status server shutdown: %w", err))
		}
	}
	if a.OTel != nil {
		if err := a.OTel.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reportPath places a report next to the logs, or the cleaned output when
// no log directory is configured
func (a *Application) reportPath(name string) string {
	dir := a.Paths.LogsDir
	if dir == "" {
		dir = a.Paths.OutputDir
	}
	return filepath.Join(dir, name)
}
