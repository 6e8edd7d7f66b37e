package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

var statusByType = map[ErrorType]int{
	ErrTypeNotFound:          http.StatusNotFound,
	ErrTypeMissingSourceFile: http.StatusNotFound,
	ErrTypeConfig:            http.StatusBadRequest,
	ErrTypeInvalidTimeIndex:  http.StatusBadRequest,
	ErrTypeInvalidPeriod:     http.StatusBadRequest,
}

// ToAPIError maps an application error onto an HTTP error response
func ToAPIError(err error) *APIError {
	var api *APIError
	if stderrors.As(err, &api) {
		return api
	}
	var app *AppError
	if stderrors.As(err, &app) {
		status, ok := statusByType[app.Type]
		if !ok {
			status = http.StatusInternalServerError
		}
		return NewWithDetails(status, string(app.Type), app.Message, app.Context)
	}
	return New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err.Error())
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(NewErrorResponse(err))
}
