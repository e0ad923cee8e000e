package pipeline

import (
	"fmt"
)

// StageError reports which stage failed
type StageError struct {
	StageID string
	Message string
	Cause   error
}

// NewStageError creates a stage error
func NewStageError(stageID, message string, cause error) *StageError {
	return &StageError{StageID: stageID, Message: message, Cause: cause}
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stage %s: %s: %v", e.StageID, e.Message, e.Cause)
	}
	return fmt.Sprintf("stage %s: %s", e.StageID, e.Message)
}

// Unwrap returns the underlying cause
func (e *StageError) Unwrap() error {
	return e.Cause
}
