package session

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed        = errors.New("session is closed")
	ErrNotStarted           = errors.New("session has not been started")
	ErrAlreadySubmitted     = errors.New("session already submitted")
	ErrSubmissionInFlight   = errors.New("a submission is already in flight")
	ErrConfirmationRequired = errors.New("explicit confirmation required before submission")
)

// UnansweredError blocks an explicit submission while questions remain
// unanswered. It is normal control flow, not a fault.
type UnansweredError struct {
	Count int
}

func (e *UnansweredError) Error() string {
	return fmt.Sprintf("%d question(s) remaining", e.Count)
}

// IsUnanswered checks whether err is a validation block.
func IsUnanswered(err error) bool {
	var ue *UnansweredError
	return errors.As(err, &ue)
}
