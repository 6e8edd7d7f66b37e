package operations

import (
	"sort"
	"sync"
	"time"

	"surveycli/internal/findings"
)

// DatasetStatus represents the current status of a dataset within a run
type DatasetStatus string

const (
	DatasetStatusPending   DatasetStatus = "pending"
	DatasetStatusActive    DatasetStatus = "active"
	DatasetStatusCompleted DatasetStatus = "completed"
	DatasetStatusFailed    DatasetStatus = "failed"
	DatasetStatusSkipped   DatasetStatus = "skipped"
)

// DatasetState is the runtime state of one dataset
type DatasetState struct {
	mu        sync.RWMutex
	Name      string
	Status    DatasetStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Error     error
	Output    string
	Result    *Result
}

// NewDatasetState creates a pending dataset state
func NewDatasetState(name string) *DatasetState {
	return &DatasetState{Name: name, Status: DatasetStatusPending}
}

// Start marks the dataset as active
func (s *DatasetState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = DatasetStatusActive
}

// Complete marks the dataset as cleaned
func (s *DatasetState) Complete(res *Result, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = DatasetStatusCompleted
	s.Result = res
	s.Output = output
}

// Fail marks the dataset as failed with the given error
func (s *DatasetState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = DatasetStatusFailed
	s.Error = err
}

// Skip marks the dataset as skipped with the given reason
func (s *DatasetState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = DatasetStatusSkipped
	s.Message = reason
}

// CurrentStatus returns the status under lock
func (s *DatasetState) CurrentStatus() DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns how long the dataset took, or has taken so far
func (s *DatasetState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// DatasetSummary is the serializable view of a DatasetState
type DatasetSummary struct {
	Name     string                `json:"name" yaml:"name"`
	Status   DatasetStatus         `json:"status" yaml:"status"`
	Duration string                `json:"duration,omitempty" yaml:"duration,omitempty"`
	Rows     int                   `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns  int                   `json:"columns,omitempty" yaml:"columns,omitempty"`
	Findings map[findings.Kind]int `json:"findings,omitempty" yaml:"findings,omitempty"`
	Output   string                `json:"output,omitempty" yaml:"output,omitempty"`
	Message  string                `json:"message,omitempty" yaml:"message,omitempty"`
	Error    string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary snapshots the state
func (s *DatasetState) Summary() DatasetSummary {
	d := s.Duration()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := DatasetSummary{
		Name:    s.Name,
		Status:  s.Status,
		Output:  s.Output,
		Message: s.Message,
	}
	if d > 0 {
		sum.Duration = d.Round(time.Millisecond).String()
	}
	if s.Result != nil {
		sum.Rows = s.Result.Table.NumRows()
		sum.Columns = s.Result.Table.NumColumns()
		if len(s.Result.Findings) > 0 {
			sum.Findings = findings.CountByKind(s.Result.Findings)
		}
	}
	if s.Error != nil {
		sum.Error = s.Error.Error()
	}
	return sum
}

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	// RunStatusPartial means at least one dataset failed or was skipped
	RunStatusPartial   RunStatus = "partial"
	RunStatusCancelled RunStatus = "cancelled"
)

// RunState tracks one Manager.Run invocation
type RunState struct {
	mu        sync.RWMutex
	ID        string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time
	datasets  map[string]*DatasetState
}

// NewRunState creates a running state for the given datasets
func NewRunState(id string, names []string) *RunState {
	r := &RunState{
		ID:        id,
		Status:    RunStatusRunning,
		StartTime: time.Now(),
		datasets:  make(map[string]*DatasetState, len(names)),
	}
	for _, n := range names {
		r.datasets[n] = NewDatasetState(n)
	}
	return r
}

// Dataset returns the state of one dataset
func (r *RunState) Dataset(name string) *DatasetState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.datasets[name]
}

// Finish records the final status
func (r *RunState) Finish(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.EndTime = &now
	r.Status = status
}

// Results returns the cleaned datasets of the run by name
func (r *RunState) Results() map[string]*Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Result)
	for name, s := range r.datasets {
		s.mu.RLock()
		if s.Result != nil {
			out[name] = s.Result
		}
		s.mu.RUnlock()
	}
	return out
}

// RunSummary is the serializable view of a RunState
type RunSummary struct {
	ID        string           `json:"id" yaml:"id"`
	Status    RunStatus        `json:"status" yaml:"status"`
	StartTime time.Time        `json:"start_time" yaml:"start_time"`
	EndTime   *time.Time       `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Datasets  []DatasetSummary `json:"datasets" yaml:"datasets"`
}

// Summary snapshots the run with datasets sorted by name
func (r *RunState) Summary() RunSummary {
	r.mu.RLock()
	sum := RunSummary{ID: r.ID, Status: r.Status, StartTime: r.StartTime, EndTime: r.EndTime}
	states := make([]*DatasetState, 0, len(r.datasets))
	for _, s := range r.datasets {
		states = append(states, s)
	}
	r.mu.RUnlock()

	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	for _, s := range states {
		sum.Datasets = append(sum.Datasets, s.Summary())
	}
	return sum
}
