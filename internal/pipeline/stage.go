package pipeline

import (
	"time"
)

// Stage identifiers, in execution order
const (
	StageLoad      = "load"
	StageNormalize = "normalize"
	StageFilter    = "filter"
	StageJoin      = "join"
	StageDerive    = "derive"
	StageAggregate = "aggregate"
	StageExport    = "export"
)

// stageNames maps each stage to its display name, in execution order
var stageNames = []struct{ id, name string }{
	{StageLoad, "Load extracts"},
	{StageNormalize, "Normalize dates"},
	{StageFilter, "Filter delivered orders"},
	{StageJoin, "Build fact table"},
	{StageDerive, "Derive item revenue"},
	{StageAggregate, "Compute KPIs"},
	{StageExport, "Export outputs"},
}

// StageStatus represents the current status of a stage
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// StageState represents the runtime state of a stage
type StageState struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Rows      int         `json:"rows"`
	Message   string      `json:"message,omitempty"`
	Error     error       `json:"-"`
}

// NewStageState creates a pending stage state
func NewStageState(id, name string) *StageState {
	return &StageState{
		ID:     id,
		Name:   name,
		Status: StageStatusPending,
		Rows:   -1,
	}
}

// Start marks the stage as active and sets the start time
func (s *StageState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StageStatusActive
}

// Complete marks the stage as completed with the row count it produced.
// rows is -1 for stages that do not produce a table.
func (s *StageState) Complete(rows int) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusCompleted
	s.Rows = rows
}

// CompleteWithErrors marks the stage as completed while keeping the
// non-fatal errors it raised
func (s *StageState) CompleteWithErrors(rows int, err error) {
	s.Complete(rows)
	s.Error = err
	if err != nil {
		s.Message = err.Error()
	}
}

// Fail marks the stage as failed with the given error
func (s *StageState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusFailed
	s.Error = err
	if err != nil {
		s.Message = err.Error()
	}
}

// Skip marks the stage as skipped with the given reason
func (s *StageState) Skip(reason string) {
	s.Status = StageStatusSkipped
	s.Message = reason
}

// Duration returns the duration of the stage execution
func (s *StageState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// newStageStates returns every stage in execution order, all pending
func newStageStates() []*StageState {
	states := make([]*StageState, 0, len(stageNames))
	for _, s := range stageNames {
		states = append(states, NewStageState(s.id, s.name))
	}
	return states
}
