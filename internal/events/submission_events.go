package events

import (
	"time"

	"github.com/campushub/student-portal/internal/models"
)

// EventType identifies session lifecycle events on the wire.
type EventType string

const (
	// EventSubmissionCompleted is emitted exactly once per successful
	// submission, whether explicit or timer-forced.
	EventSubmissionCompleted EventType = "session.submission_completed"
)

// SubmissionEvent crosses the session/host boundary. It is the only message
// the session controller sends its host: the host reacts by tearing down the
// mounted session and refreshing its assignment list.
type SubmissionEvent struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	UserID        string            `json:"user_id"`
	AssignmentID  uint              `json:"assignment_id"`
	Title         string            `json:"assignment_title"`
	Submission    models.Submission `json:"submission"`
	AutoSubmitted bool              `json:"auto_submitted"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
