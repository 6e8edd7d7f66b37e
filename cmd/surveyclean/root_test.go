package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/infrastructure"
)

func setup(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	data := filepath.Join(root, "data", "economic_situation_assets")
	require.NoError(t, os.MkdirAll(data, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "ca08a_1.0p_EN.csv"),
		[]byte("nomem_encr,ca08a004,ca08a006,ca08a016\n800001,yes,no,1500\n"), 0644))

	cfg := `logging:
  level: error
  format: json
  output: file
  file_path: ` + filepath.Join(root, "logs", "surveyclean.log") + `
paths:
  data_dir: ` + filepath.Join(root, "data") + `
  output_dir: ` + filepath.Join(root, "cleaned") + `
  logs_dir: ` + filepath.Join(root, "logs") + `
pipeline:
  workers: 1
  output_format: csv
panels:
  - name: assets_panel
    time_index: period
    datasets:
      - name: economic_situation_assets
        variables: [ALL]
`
	path := filepath.Join(root, "survey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	t.Cleanup(infrastructure.ResetLoggerForTesting)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDatasetsCommand(t *testing.T) {
	cfg := setup(t)
	out, err := execute(t, "datasets", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "name: ambiguous_beliefs")
	assert.Contains(t, out, "depends_on:")
}

func TestRunCommand(t *testing.T) {
	cfg := setup(t)
	root := filepath.Dir(cfg)

	out, err := execute(t, "run", "-c", cfg)
	// datasets without raw files fail, the assets dataset still cleans
	require.Error(t, err)
	assert.Contains(t, out, "economic_situation_assets")
	assert.FileExists(t, filepath.Join(root, "cleaned", "economic_situation_assets.csv"))

	out, err = execute(t, "panel", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "cleaned", "assets_panel.csv"))

	out, err = execute(t, "profile", "-c", cfg, "economic_situation_assets")
	require.NoError(t, err)
	assert.Contains(t, out, "economic_situation_assets.profile.yaml")
}

func TestCleanCommand_UnknownDataset(t *testing.T) {
	cfg := setup(t)
	_, err := execute(t, "clean", "-c", cfg, "housing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
}

func TestProfileCommand_RequiresTarget(t *testing.T) {
	_, err := execute(t, "profile")
	assert.Error(t, err)
}
