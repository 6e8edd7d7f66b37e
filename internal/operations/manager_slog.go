package operations

import (
	"context"
	"log/slog"
	"time"
)

func (m *Manager) logRunStart(ctx context.Context, datasets []string, levels int) {
	m.logger.InfoContext(ctx, "run_start",
		slog.Any("datasets", datasets),
		slog.Int("levels", levels),
		slog.Int("workers", m.opts.Workers))
}

func (m *Manager) logRunComplete(ctx context.Context, status RunStatus, duration time.Duration) {
	level := slog.LevelInfo
	if status != RunStatusCompleted {
		level = slog.LevelWarn
	}
	m.logger.Log(ctx, level, "run_complete",
		slog.String("status", string(status)),
		slog.Duration("duration", duration))
}

func (m *Manager) logDatasetSkipped(ctx context.Context, dependency string, status DatasetStatus) {
	m.logger.WarnContext(ctx, "dataset_skipped",
		slog.String("dependency", dependency),
		slog.String("dependency_status", string(status)))
}

func (m *Manager) logDatasetComplete(ctx context.Context, res *Result, output string) {
	m.logger.InfoContext(ctx, "dataset_saved",
		slog.Int("rows", res.Table.NumRows()),
		slog.String("output", output))
}
