// Package http serves the status of cleaning runs while a long run is in
// progress. Routes:
//
//	GET /healthz                         liveness and version
//	GET /metrics                         Prometheus scrape endpoint
//	GET /runs/latest                     summary of the most recent run
//	GET /runs/latest/datasets/{dataset}  one dataset of that run
//
// Handlers render JSON through chi/render. Errors are mapped from the
// application error types with errors.ToAPIError.
package http
