package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/operations"
)

// RunSource exposes the most recent cleaning run
type RunSource interface {
	Latest() *operations.RunState
}

// RunsHandler serves run summaries
type RunsHandler struct {
	runs   RunSource
	logger *slog.Logger
}

// NewRunsHandler creates a runs handler
func NewRunsHandler(runs RunSource, logger *slog.Logger) *RunsHandler {
	if runs == nil {
		panic("runs cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RunsHandler{
		runs:   runs,
		logger: logger.With(slog.String("handler", "runs")),
	}
}

// GetLatest handles GET /runs/latest
func (h *RunsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	run := h.runs.Latest()
	if run == nil {
		h.renderError(w, r, apperrors.NewNotFoundError("run"))
		return
	}
	render.JSON(w, r, run.Summary())
}

// GetLatestDataset handles GET /runs/latest/datasets/{dataset}
func (h *RunsHandler) GetLatestDataset(w http.ResponseWriter, r *http.Request) {
	run := h.runs.Latest()
	if run == nil {
		h.renderError(w, r, apperrors.NewNotFoundError("run"))
		return
	}
	name := chi.URLParam(r, "dataset")
	state := run.Dataset(name)
	if state == nil {
		h.renderError(w, r, apperrors.NewNotFoundError(fmt.Sprintf("dataset %s in run %s", name, run.ID)))
		return
	}
	render.JSON(w, r, state.Summary())
}

func (h *RunsHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apperrors.ToAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
	}
	if rerr := render.Render(w, r, apperrors.NewErrorResponse(apiErr)); rerr != nil {
		apperrors.WriteError(w, apiErr)
	}
}
