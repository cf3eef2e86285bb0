// Package operations composes the pipeline stages (parse, clean, align,
// export) into a sequential run over a shared state. Each step fully
// owns the table for the duration of its call; there is no streaming or
// partial-result emission.
package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"adapter/internal/aligner"
	"adapter/internal/cleaner"
	"adapter/internal/config"
	apperrors "adapter/internal/errors"
	"adapter/internal/table"
)

// Step is a single pipeline stage.
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the shared run state
	Execute(ctx context.Context, state *State) error
}

// StepStatus represents the current status of a step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState records the runtime outcome of one step.
type StepState struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Message   string     `json:"message,omitempty"`
	Err       error      `json:"-"`
}

// Duration returns how long the step ran.
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

func (s *StepState) start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

func (s *StepState) complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

func (s *StepState) fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err
}

func (s *StepState) skip(reason string) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// State is the shared run state the steps operate on. The table is owned
// by the run; each step transforms it in place or replaces it before the
// next step begins.
type State struct {
	RunID  string
	Config config.PipelineConfig

	Table *table.Table

	CleanStats  cleaner.Stats
	AlignResult aligner.Result
	Diagnostics []apperrors.Diagnostic

	Steps []*StepState
}

// NewState creates a run state with a fresh run ID.
func NewState(cfg config.PipelineConfig) *State {
	return &State{
		RunID:  uuid.New().String(),
		Config: cfg,
	}
}

// stepState finds or creates the state record for a step.
func (s *State) stepState(step Step) *StepState {
	for _, st := range s.Steps {
		if st.ID == step.ID() {
			return st
		}
	}
	st := &StepState{ID: step.ID(), Name: step.Name(), Status: StepStatusPending}
	s.Steps = append(s.Steps, st)
	return st
}
