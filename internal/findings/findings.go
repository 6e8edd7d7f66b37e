// Package findings collects non-fatal data-quality observations raised
// while normalizing a dataset. They are returned next to the cleaned table
// so callers decide whether to log, persist or ignore them.
package findings

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Kind classifies a finding
type Kind string

const (
	UnmappedCategory   Kind = "unmapped_category"
	DegenerateInterval Kind = "degenerate_interval"
	SchemaDrift        Kind = "schema_drift"
	UnparsedValue      Kind = "unparsed_value"
)

// Finding is one recoverable observation
type Finding struct {
	Kind    Kind     `json:"kind" yaml:"kind"`
	Dataset string   `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Source  string   `json:"source,omitempty" yaml:"source,omitempty"`
	Column  string   `json:"column,omitempty" yaml:"column,omitempty"`
	Message string   `json:"message" yaml:"message"`
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`
	Rows    int      `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// String renders the finding on one line
func (f Finding) String() string {
	var b strings.Builder
	b.WriteString(string(f.Kind))
	if f.Dataset != "" {
		b.WriteString(" dataset=" + f.Dataset)
	}
	if f.Source != "" {
		b.WriteString(" source=" + f.Source)
	}
	if f.Column != "" {
		b.WriteString(" column=" + f.Column)
	}
	b.WriteString(": " + f.Message)
	if len(f.Values) > 0 {
		b.WriteString(fmt.Sprintf(" %v", f.Values))
	}
	return b.String()
}

// LogValue implements slog.LogValuer
func (f Finding) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", string(f.Kind)),
		slog.String("message", f.Message),
	}
	if f.Dataset != "" {
		attrs = append(attrs, slog.String("dataset", f.Dataset))
	}
	if f.Source != "" {
		attrs = append(attrs, slog.String("source", f.Source))
	}
	if f.Column != "" {
		attrs = append(attrs, slog.String("column", f.Column))
	}
	if len(f.Values) > 0 {
		attrs = append(attrs, slog.Any("values", f.Values))
	}
	if f.Rows > 0 {
		attrs = append(attrs, slog.Int("rows", f.Rows))
	}
	return slog.GroupValue(attrs...)
}

// Sink receives findings
type Sink interface {
	Add(Finding)
}

// Discard is a Sink that drops everything
var Discard Sink = discard{}

type discard struct{}

func (discard) Add(Finding) {}

// Collector is a concurrency-safe Sink that keeps findings in arrival order
type Collector struct {
	mu    sync.Mutex
	items []Finding
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a finding
func (c *Collector) Add(f Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, f)
}

// All returns a copy of the collected findings
func (c *Collector) All() []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Finding(nil), c.items...)
}

// Len returns the number of collected findings
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Scoped wraps a sink and stamps dataset and source on every finding
type Scoped struct {
	Sink    Sink
	Dataset string
	Source  string
}

// Add fills in missing scope fields and forwards the finding
func (s Scoped) Add(f Finding) {
	if f.Dataset == "" {
		f.Dataset = s.Dataset
	}
	if f.Source == "" {
		f.Source = s.Source
	}
	s.Sink.Add(f)
}

// CountByKind tallies findings per kind
func CountByKind(items []Finding) map[Kind]int {
	out := make(map[Kind]int)
	for _, f := range items {
		out[f.Kind]++
	}
	return out
}

// SortedValues returns the keys of set in sorted order; used to make
// finding payloads deterministic.
func SortedValues(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
