package notify

import (
	"sync"

	"github.com/campushub/student-portal/internal/utils"
)

// Severity of a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Notifier delivers toast-style notifications to the user. Delivery is a
// presentation concern; the triggering conditions are part of the session
// contract, so the session and portal layers only ever talk to this interface.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
}

type logNotifier struct {
	logger utils.Logger
}

// NewLogNotifier returns a Notifier that records notifications in the
// structured log. The HTTP layer surfaces the same messages in responses.
func NewLogNotifier(logger utils.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Success(msg string) {
	n.logger.Info("User notification", "severity", SeveritySuccess, "message", msg)
}

func (n *logNotifier) Error(msg string) {
	n.logger.Warn("User notification", "severity", SeverityError, "message", msg)
}

func (n *logNotifier) Warning(msg string) {
	n.logger.Warn("User notification", "severity", SeverityWarning, "message", msg)
}

// Notification is one recorded toast, used by the Recorder.
type Notification struct {
	Severity Severity
	Message  string
}

// Recorder is a Notifier that keeps every notification in memory, for tests
// and for replaying pending toasts to the UI.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{notifications: make([]Notification, 0)}
}

func (r *Recorder) Success(msg string) { r.record(SeveritySuccess, msg) }
func (r *Recorder) Error(msg string)   { r.record(SeverityError, msg) }
func (r *Recorder) Warning(msg string) { r.record(SeverityWarning, msg) }

func (r *Recorder) record(sev Severity, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Severity: sev, Message: msg})
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Clear drops all recorded notifications.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = r.notifications[:0]
}
