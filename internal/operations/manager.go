package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/infrastructure"
)

// ManagerOptions configures a Manager
type ManagerOptions struct {
	// Workers bounds how many datasets are cleaned at once
	Workers int
	// FailFast cancels the run at the first failed dataset
	FailFast bool
	Dirs     Dirs
	// Save persists each cleaned dataset before its dependents start
	Save SaveFunc
}

// Manager runs many datasets with dataset-level failure isolation
type Manager struct {
	driver *Driver
	opts   ManagerOptions
	tracer *OperationTracer
	logger *slog.Logger

	mu     sync.RWMutex
	latest *RunState
}

// NewManager creates a manager. A nil tracer records nothing.
func NewManager(driver *Driver, opts ManagerOptions, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if tracer == nil {
		tracer = NoopTracer()
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Manager{
		driver: driver,
		opts:   opts,
		tracer: tracer,
		logger: infrastructure.WithComponent(logger, "manager"),
	}
}

// Latest returns the most recent run, or nil before the first one
func (m *Manager) Latest() *RunState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Run cleans the named datasets, or every registered dataset when names is
// empty. The returned state is always non-nil once the datasets are known;
// the error is an *ErrorList when any dataset failed.
func (m *Manager) Run(ctx context.Context, names []string) (*RunState, error) {
	registry := m.driver.Registry()
	if len(names) == 0 {
		names = registry.ListIDs()
	}
	levels, err := registry.Levels(names)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot plan run", err)
	}

	ctx, runID := infrastructure.EnsureRunID(ctx)
	var planned []string
	for _, level := range levels {
		planned = append(planned, level...)
	}
	state := NewRunState(runID, planned)
	m.mu.Lock()
	m.latest = state
	m.mu.Unlock()

	ctx, span := m.tracer.TraceRun(ctx, runID, planned)
	m.logRunStart(ctx, planned, len(levels))

	failures := &ErrorList{}
	var failMu sync.Mutex

	for _, level := range levels {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.opts.Workers)
		for _, name := range level {
			g.Go(func() error {
				if err := m.runDataset(gctx, state, name); err != nil {
					failMu.Lock()
					failures.Add(err)
					failMu.Unlock()
					if m.opts.FailFast {
						return err
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil || ctx.Err() != nil {
			break
		}
	}

	for _, name := range planned {
		if ds := state.Dataset(name); ds.CurrentStatus() == DatasetStatusPending {
			ds.Skip("run stopped before dataset started")
		}
	}

	status := RunStatusCompleted
	switch {
	case ctx.Err() != nil:
		status = RunStatusCancelled
	case failures.HasErrors():
		status = RunStatusPartial
	default:
		for _, name := range planned {
			if state.Dataset(name).CurrentStatus() != DatasetStatusCompleted {
				status = RunStatusPartial
			}
		}
	}
	state.Finish(status)

	duration := time.Since(state.StartTime)
	m.tracer.RecordRunCompletion(ctx, span, runID, duration, status)
	m.logRunComplete(ctx, status, duration)

	if failures.HasErrors() {
		return state, failures
	}
	if err := ctx.Err(); err != nil {
		return state, err
	}
	return state, nil
}

// runDataset discovers, cleans and saves one dataset. Errors are
// DATASET_CLEANING errors; a dataset whose dependency did not complete is
// skipped without error.
func (m *Manager) runDataset(ctx context.Context, state *RunState, name string) error {
	ds := state.Dataset(name)
	spec, err := m.driver.Registry().Get(name)
	if err != nil {
		ds.Fail(err)
		return apperrors.NewDatasetCleaningError(name, err)
	}
	ctx = infrastructure.WithDataset(ctx, name)

	for _, dep := range spec.DependsOn {
		d := state.Dataset(dep)
		if d == nil {
			continue
		}
		if st := d.CurrentStatus(); st != DatasetStatusCompleted {
			ds.Skip(fmt.Sprintf("dependency %s is %s", dep, st))
			m.logDatasetSkipped(ctx, dep, st)
			return nil
		}
	}

	ds.Start()
	if spec.Discover == nil {
		err := apperrors.NewDatasetCleaningError(name, fmt.Errorf("no source discovery registered"))
		ds.Fail(err)
		return err
	}
	sources, err := spec.Discover(m.opts.Dirs)
	if err != nil {
		err = apperrors.NewDatasetCleaningError(name, fmt.Errorf("discover sources: %w", err))
		ds.Fail(err)
		return err
	}

	dctx, span := m.tracer.TraceDataset(ctx, state.ID, name, len(sources))
	start := time.Now()
	res, err := m.driver.Clean(dctx, name, sources)
	var output string
	if err == nil && m.opts.Save != nil {
		if output, err = m.opts.Save(dctx, res); err != nil {
			err = apperrors.NewDatasetCleaningError(name, fmt.Errorf("save: %w", err))
		}
	}
	m.tracer.RecordDatasetCompletion(dctx, span, name, res, time.Since(start), err)

	if err != nil {
		ds.Fail(err)
		return err
	}
	ds.Complete(res, output)
	m.logDatasetComplete(ctx, res, output)
	return nil
}
