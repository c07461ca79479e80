package models

import (
	"time"

	"github.com/google/uuid"
)

// Load outcomes
const (
	LoadSucceeded = "succeeded"
	LoadFailed    = "failed"
)

// LoadRecord is one workbook load attempt
type LoadRecord struct {
	ID            string    `json:"id" db:"id"`
	Source        string    `json:"source" db:"source"`
	Trigger       string    `json:"trigger" db:"trigger_name"` // startup, api, schedule, watch, cli
	Outcome       string    `json:"outcome" db:"outcome"`
	Message       string    `json:"message" db:"message"`
	SheetsScanned int       `json:"sheets_scanned" db:"sheets_scanned"`
	DeptRows      int       `json:"dept_rows" db:"dept_rows"`
	TimelineRows  int       `json:"timeline_rows" db:"timeline_rows"`
	Departments   int       `json:"departments" db:"departments"`
	StartedAt     time.Time `json:"started_at" db:"started_at"`
	FinishedAt    time.Time `json:"finished_at" db:"finished_at"`
	Snapshot      string    `json:"snapshot,omitempty" db:"snapshot"` // JSON, successful loads only
}

// NewLoadRecord creates a record with a time-ordered id
func NewLoadRecord(source, trigger string, startedAt time.Time) *LoadRecord {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &LoadRecord{
		ID:        id.String(),
		Source:    source,
		Trigger:   trigger,
		StartedAt: startedAt,
	}
}

// Succeeded reports whether the load produced a snapshot
func (r *LoadRecord) Succeeded() bool {
	return r.Outcome == LoadSucceeded
}

// Duration is how long the load took
func (r *LoadRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
