package operations

import (
	"fmt"
	"sync"
)

// Registry holds the dataset specs known to the pipeline. It is populated
// at startup and read concurrently afterwards.
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*DatasetSpec
	order    []string // registration order
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		datasets: make(map[string]*DatasetSpec),
		order:    make([]string, 0),
	}
}

// Register adds a dataset spec
func (r *Registry) Register(spec *DatasetSpec) error {
	if spec == nil {
		return fmt.Errorf("cannot register nil dataset")
	}
	if spec.Name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}
	if spec.Transform == nil {
		return fmt.Errorf("dataset %s has no transform", spec.Name)
	}
	if spec.IndexName == "" {
		return fmt.Errorf("dataset %s has no index name", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.datasets[spec.Name]; exists {
		return fmt.Errorf("dataset %s already registered", spec.Name)
	}
	r.datasets[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// Get retrieves a dataset spec by name
func (r *Registry) Get(name string) (*DatasetSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, exists := r.datasets[name]
	if !exists {
		return nil, fmt.Errorf("dataset %s not registered", name)
	}
	return spec, nil
}

// Has checks if a dataset is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.datasets[name]
	return exists
}

// List returns all specs in registration order
func (r *Registry) List() []*DatasetSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]*DatasetSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.datasets[name])
	}
	return specs
}

// ListIDs returns all dataset names in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of registered datasets
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.datasets)
}

// Levels groups the named datasets so that every dataset comes after the
// selected datasets it depends on. Datasets within a level are independent.
// Dependencies outside the selection are assumed to be cleaned already.
func (r *Registry) Levels(names []string) ([][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := r.datasets[name]; !ok {
			return nil, fmt.Errorf("dataset %s not registered", name)
		}
		if !selected[name] {
			selected[name] = true
			unique = append(unique, name)
		}
	}
	names = unique

	inDegree := make(map[string]int, len(names))
	dependents := make(map[string][]string)
	for _, name := range names {
		inDegree[name] += 0
		for _, dep := range r.datasets[name].DependsOn {
			if _, ok := r.datasets[dep]; !ok {
				return nil, fmt.Errorf("dataset %s depends on unknown dataset %s", name, dep)
			}
			if selected[dep] {
				inDegree[name]++
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	// Kahn's algorithm, one level at a time, in registration order
	var levels [][]string
	done := 0
	for done < len(names) {
		var level []string
		for _, name := range r.order {
			if d, ok := inDegree[name]; ok && d == 0 {
				level = append(level, name)
			}
		}
		if len(level) == 0 {
			return nil, fmt.Errorf("dependency cycle detected among %v", names)
		}
		for _, name := range level {
			delete(inDegree, name)
			for _, dependent := range dependents[name] {
				inDegree[dependent]--
			}
		}
		done += len(level)
		levels = append(levels, level)
	}
	return levels, nil
}
