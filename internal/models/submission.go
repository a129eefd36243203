package models

// SubmissionPayload is the body posted to the backend when a session submits.
// Answers is included only when the session's question set is non-empty; the
// no-answers endpoint receives the payload without the key at all.
type SubmissionPayload struct {
	Content       string   `json:"content"`
	AttemptNumber int      `json:"attempt_number"`
	Answers       []Answer `json:"answers,omitempty"`
}

// Submission is the record the backend returns for an accepted submission.
type Submission struct {
	ID           uint     `json:"id"`
	AssignmentID uint     `json:"assignment_id"`
	Content      string   `json:"content"`
	Status       string   `json:"status"`
	SubmittedAt  string   `json:"submitted_at"`
	Grade        *float64 `json:"grade,omitempty"`
}
