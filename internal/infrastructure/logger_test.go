package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/config"
)

func decodeLine(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &entry))
	return entry
}

func TestNewLogger_InjectsContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info"}, &buf)

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithDataset(ctx, "economic_situation_assets")
	ctx = WithTraceID(ctx, "trace-1")
	logger.InfoContext(ctx, "dataset_cleaned", "rows", 12)

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "dataset_cleaned", entry["msg"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "economic_situation_assets", entry["dataset"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.EqualValues(t, 12, entry["rows"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "warn"}, &buf)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.With("component", "driver").Warn("shown")
	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "driver", entry["component"])
}

func TestInitializeLogger_File(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: logFile})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	entry := decodeLine(t, content)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestEnsureRunID(t *testing.T) {
	ctx, id := EnsureRunID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetRunID(ctx))

	same, again := EnsureRunID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, ctx, same)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("Warning").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}
