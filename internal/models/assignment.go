package models

import (
	"strings"
	"time"
)

// AssignmentStatus values come from the backend; unknown values fall back to
// StatusPending during normalization.
type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusSubmitted  AssignmentStatus = "submitted"
	StatusGraded     AssignmentStatus = "graded"
	StatusCompleted  AssignmentStatus = "completed"
	StatusOverdue    AssignmentStatus = "overdue"
)

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Assignment is the descriptor a session is opened with. It is supplied by the
// host view and immutable for the duration of a session.
type Assignment struct {
	ID           uint         `json:"id" validate:"required"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Instructions string       `json:"instructions"`
	DueDate      *time.Time   `json:"due_date"`
	Points       int          `json:"points"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

// AssignmentSummary is one normalized row of the assignment list. The backend
// emits several aliased shapes for these fields; normalization happens once at
// the client boundary so nothing downstream branches on field presence.
type AssignmentSummary struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	Course        string           `json:"course"`
	Description   string           `json:"description"`
	DueDate       string           `json:"due_date"`
	SubmittedDate string           `json:"submitted_date,omitempty"`
	Status        AssignmentStatus `json:"status"`
	Grade         *float64         `json:"grade"`
	MaxGrade      float64          `json:"max_grade"`
	Feedback      string           `json:"feedback,omitempty"`
	Attachments   []string         `json:"attachments"`
	Type          string           `json:"type"`
}

// StatusLabel is the display text for the status badge.
func (a AssignmentSummary) StatusLabel() string {
	switch a.Status {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusSubmitted:
		return "Submitted"
	case StatusGraded:
		return "Graded"
	case StatusCompleted:
		return "Completed"
	case StatusOverdue:
		return "Overdue"
	}
	return "Unknown"
}

// OverdueDays returns how many whole days past due the assignment is, or 0 for
// assignments that are not overdue, have no parseable due date, or are already
// submitted or graded.
func (a AssignmentSummary) OverdueDays(now time.Time) int {
	if a.Status == StatusSubmitted || a.Status == StatusGraded || a.Status == StatusCompleted {
		return 0
	}
	due, ok := a.ParsedDueDate()
	if !ok || now.Before(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

// ParsedDueDate parses the backend's due date string, accepting RFC3339 and
// the date-only form some list routes emit.
func (a AssignmentSummary) ParsedDueDate() (time.Time, bool) {
	s := strings.TrimSpace(a.DueDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GradePercent returns the grade as a percentage of MaxGrade, or 0 when the
// assignment is ungraded.
func (a AssignmentSummary) GradePercent() float64 {
	if a.Grade == nil || a.MaxGrade <= 0 {
		return 0
	}
	return *a.Grade / a.MaxGrade * 100
}
