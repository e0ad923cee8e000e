package pipeline

import (
	"context"
	"sync"
	"time"

	"vaxclean/pkg/contracts/domain"
)

// State is threaded through every stage of a run
type State struct {
	Table   *domain.VaccinationTable
	Summary *domain.CleaningSummary
}

// NewState creates a state for a run reading source
func NewState(source string) *State {
	return &State{
		Table:   &domain.VaccinationTable{Source: source},
		Summary: domain.NewCleaningSummary(source),
	}
}

// Stage represents a single stage in the cleaning pipeline
type Stage interface {
	// ID returns the unique identifier for this stage
	ID() string

	// Name returns the human-readable name for this stage
	Name() string

	// Validate checks if the stage can be executed with the current state
	Validate(state *State) error

	// Execute runs the stage, mutating state.Table in place
	Execute(ctx context.Context, state *State) error
}

// StageStatus represents the current status of a stage
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// StageState represents the runtime state of a stage
type StageState struct {
	mu        sync.RWMutex
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	RowsIn    int         `json:"rows_in"`
	RowsOut   int         `json:"rows_out"`
	Error     error       `json:"-"`
}

// NewStageState creates a new stage state with default values
func NewStageState(id, name string) *StageState {
	return &StageState{
		ID:     id,
		Name:   name,
		Status: StageStatusPending,
	}
}

// Start marks the stage as active and sets the start time
func (s *StageState) Start(rowsIn int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StageStatusActive
	s.RowsIn = rowsIn
}

// Complete marks the stage as completed and sets the end time
func (s *StageState) Complete(rowsOut int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusCompleted
	s.RowsOut = rowsOut
}

// Fail marks the stage as failed with the given error
func (s *StageState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusFailed
	s.Error = err
}

// GetStatus returns the current status
func (s *StageState) GetStatus() StageStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns the duration of the stage execution
func (s *StageState) Duration() time.Duration {
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

// BaseStage provides common functionality for Stage implementations
type BaseStage struct {
	id   string
	name string
}

// NewBaseStage creates a new base stage
func NewBaseStage(id, name string) BaseStage {
	return BaseStage{id: id, name: name}
}

// ID returns the stage ID
func (b *BaseStage) ID() string {
	return b.id
}

// Name returns the stage name
func (b *BaseStage) Name() string {
	return b.name
}

// Validate requires a table to be present
func (b *BaseStage) Validate(state *State) error {
	if state == nil || state.Table == nil {
		return NewStageError(b.id, "no table to process", nil)
	}
	return nil
}
