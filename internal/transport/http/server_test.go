package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/operations"
)

type fakeRuns struct {
	run *operations.RunState
}

func (f *fakeRuns) Latest() *operations.RunState { return f.run }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(run *operations.RunState, metrics http.Handler) http.Handler {
	return NewRouter(&fakeRuns{run: run}, RouterOptions{Version: "v-test", Metrics: metrics}, quietLogger())
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := get(t, newTestRouter(nil, nil), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "v-test", body.Version)
}

func TestRequestID_Propagated(t *testing.T) {
	h := newTestRouter(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRuns(t *testing.T) {
	run := operations.NewRunState("run-1", []string{"economic_situation_assets", "ambiguous_beliefs"})
	run.Dataset("ambiguous_beliefs").Start()

	tests := []struct {
		name       string
		run        *operations.RunState
		path       string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "no run yet",
			path:       "/runs/latest",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				var resp struct {
					Success bool `json:"success"`
					Error   struct {
						ErrorCode string `json:"error_code"`
						Message   string `json:"message"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.False(t, resp.Success)
				assert.Equal(t, "NOT_FOUND", resp.Error.ErrorCode)
				assert.Equal(t, "run not found", resp.Error.Message)
			},
		},
		{
			name:       "latest summary sorted by dataset",
			run:        run,
			path:       "/runs/latest",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var sum operations.RunSummary
				require.NoError(t, json.Unmarshal(body, &sum))
				assert.Equal(t, "run-1", sum.ID)
				assert.Equal(t, operations.RunStatusRunning, sum.Status)
				require.Len(t, sum.Datasets, 2)
				assert.Equal(t, "ambiguous_beliefs", sum.Datasets[0].Name)
				assert.Equal(t, operations.DatasetStatusActive, sum.Datasets[0].Status)
				assert.Equal(t, operations.DatasetStatusPending, sum.Datasets[1].Status)
			},
		},
		{
			name:       "one dataset",
			run:        run,
			path:       "/runs/latest/datasets/economic_situation_assets",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var ds operations.DatasetSummary
				require.NoError(t, json.Unmarshal(body, &ds))
				assert.Equal(t, "economic_situation_assets", ds.Name)
			},
		},
		{
			name:       "unknown dataset",
			run:        run,
			path:       "/runs/latest/datasets/monthly_background_variables",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestRouter(tt.run, nil), tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, rec.Body.Bytes())
			}
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, newTestRouter(nil, nil), "/metrics").Code)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "survey_runs_total 1\n")
	})
	rec := get(t, newTestRouter(nil, metrics), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "survey_runs_total")
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(&fakeRuns{}, RouterOptions{RateLimit: 0.001, Burst: 1}, quietLogger())
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRecoverer(t *testing.T) {
	h := RequestID(Recoverer(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestServer_StartShutdown(t *testing.T) {
	srv := NewServer("127.0.0.1:0", newTestRouter(nil, nil), quietLogger())
	addr, err := srv.Start(context.Background())
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
}
