package pipeline

import (
	"fmt"
	"sync"
)

// Registry holds the pipeline stages in execution order
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
	order  []string
}

// NewRegistry creates an empty stage registry
func NewRegistry() *Registry {
	return &Registry{
		stages: make(map[string]Stage),
		order:  make([]string, 0),
	}
}

// Register appends a stage. Stages run in registration order.
func (r *Registry) Register(stage Stage) error {
	if stage == nil {
		return fmt.Errorf("cannot register nil stage")
	}

	id := stage.ID()
	if id == "" {
		return fmt.Errorf("stage ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stages[id]; exists {
		return fmt.Errorf("stage with ID %s already registered", id)
	}

	r.stages[id] = stage
	r.order = append(r.order, id)
	return nil
}

// MustRegister registers stages and panics on error. For wiring at startup.
func (r *Registry) MustRegister(stages ...Stage) *Registry {
	for _, s := range stages {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// List returns all registered stages in registration order
func (r *Registry) List() []Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stages := make([]Stage, 0, len(r.order))
	for _, id := range r.order {
		stages = append(stages, r.stages[id])
	}
	return stages
}

// ListIDs returns all registered stage IDs in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of registered stages
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stages)
}
