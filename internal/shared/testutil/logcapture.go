// Package testutil captures slog output so tests can assert on the events
// a component logs.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// LogRecord is one captured record with its attributes flattened
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type recordStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogRecorder is a slog.Handler that keeps every record in memory
type LogRecorder struct {
	store *recordStore
	attrs []slog.Attr
	t     *testing.T
}

// NewTestLogger returns a logger writing to a fresh recorder. Records are
// echoed to t.Log so they show up for failing tests.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogRecorder) {
	h := &LogRecorder{store: &recordStore{}, t: t}
	return slog.New(h), h
}

// Enabled captures every level
func (h *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle stores r together with the attributes added via With
func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs returns a handler sharing the store
func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &out
}

// WithGroup ignores groups; captured keys stay flat
func (h *LogRecorder) WithGroup(string) slog.Handler { return h }

// Records returns a copy of the captured records
func (h *LogRecorder) Records() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]LogRecord(nil), h.store.records...)
}

// Find returns the first record with message msg
func (h *LogRecorder) Find(msg string) (LogRecord, bool) {
	for _, r := range h.Records() {
		if r.Message == msg {
			return r, true
		}
	}
	return LogRecord{}, false
}

// Count returns how many records carry message msg
func (h *LogRecorder) Count(msg string) int {
	n := 0
	for _, r := range h.Records() {
		if r.Message == msg {
			n++
		}
	}
	return n
}
