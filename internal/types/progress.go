package types

import (
	"fmt"
	"strings"
	"time"
)

// Status is the solve status of a single workbook problem.
type Status string

const (
	StatusUnsolved Status = "unsolved"
	StatusSolved   Status = "solved"
	StatusFailed   Status = "failed"
)

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusUnsolved:
		return StatusUnsolved, nil
	case StatusSolved:
		return StatusSolved, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("unknown status %q (want unsolved, solved or failed)", s)
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUnsolved, StatusSolved, StatusFailed:
		return true
	default:
		return false
	}
}

// CountsAsAttempt reports whether moving into this status records an attempt.
func (s Status) CountsAsAttempt() bool {
	return s == StatusSolved || s == StatusFailed
}

// ProblemProgress is the recorded state of one problem in a workbook.
type ProblemProgress struct {
	Status          Status
	AttemptCount    int
	LastAttemptedAt *time.Time
}

// WorkbookProgress is the persisted progress record of one workbook.
// Entries in Problems are never removed individually; only a reset clears them.
type WorkbookProgress struct {
	WorkbookID int
	Problems   map[int]*ProblemProgress
	UpdatedAt  time.Time
}

// NewWorkbookProgress returns an empty progress record for a workbook.
func NewWorkbookProgress(workbookID int, now time.Time) *WorkbookProgress {
	return &WorkbookProgress{
		WorkbookID: workbookID,
		Problems:   make(map[int]*ProblemProgress),
		UpdatedAt:  now,
	}
}

// StatusOf returns the recorded status of a problem, or StatusUnsolved when
// nothing has been recorded yet.
func (p *WorkbookProgress) StatusOf(problemID int) Status {
	if p == nil {
		return StatusUnsolved
	}
	entry, ok := p.Problems[problemID]
	if !ok || entry == nil || entry.Status == "" {
		return StatusUnsolved
	}
	return entry.Status
}
