package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/campushub/student-portal/internal/backend"
	"github.com/campushub/student-portal/internal/events"
	"github.com/campushub/student-portal/internal/models"
	"github.com/campushub/student-portal/internal/notify"
	"github.com/campushub/student-portal/internal/utils"
)

// Status is the session lifecycle state. Terminal is reached only through an
// accepted submission; a failed submission returns the session to Started.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusStarted    Status = "started"
	StatusSubmitting Status = "submitting"
	StatusTerminal   Status = "submitted"
)

// RemainingSeconds is the pure countdown computation: whole seconds between
// now and due, clamped at zero. A nil due date means no countdown at all; the
// second return value reports whether one exists.
func RemainingSeconds(now time.Time, due *time.Time) (int, bool) {
	if due == nil {
		return 0, false
	}
	diff := int(due.Sub(now) / time.Second)
	if diff < 0 {
		diff = 0
	}
	return diff, true
}

// FormatRemaining renders a second count as HH:MM:SS for the countdown display.
func FormatRemaining(seconds int) string {
	if seconds <= 0 {
		return "00:00:00"
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Deps are the collaborators a session needs. Clock is swappable for tests
// and defaults to time.Now.
type Deps struct {
	Backend   backend.Client
	Notifier  notify.Notifier
	Publisher events.Publisher
	Logger    utils.Logger
	UserID    string
	Clock     func() time.Time
}

// Session runs one timed attempt at one assignment, from presentation to
// submission. All state is owned by this instance; mutation happens under one
// mutex so UI events, timer ticks and network responses serialize cleanly.
type Session struct {
	mu sync.Mutex

	assignment models.Assignment
	questions  []models.Question
	answers    map[uint]*models.Answer

	additionalContent string
	status            Status
	remaining         int
	hasDeadline       bool
	submitting        bool
	autoFired         bool
	closed            bool
	submission        *models.Submission

	// stopTimer is non-nil exactly while a countdown goroutine is running.
	stopTimer chan struct{}

	backend   backend.Client
	notifier  notify.Notifier
	publisher events.Publisher
	logger    utils.Logger
	userID    string
	clock     func() time.Time
}

// New creates a fresh session for one presentation of an assignment. Call
// Load before exposing it to the user.
func New(assignment models.Assignment, deps Deps) *Session {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Session{
		assignment: assignment,
		answers:    make(map[uint]*models.Answer),
		status:     StatusNotStarted,
		backend:    deps.Backend,
		notifier:   deps.Notifier,
		publisher:  deps.Publisher,
		logger:     deps.Logger,
		userID:     deps.UserID,
		clock:      clock,
	}
	s.remaining, s.hasDeadline = RemainingSeconds(clock(), assignment.DueDate)
	return s
}

// Load fetches the question set and seeds one empty answer per question. A
// backend 404 means an open-ended assignment: the session proceeds with zero
// questions and no user-visible error. Any other failure degrades the same
// way but surfaces a notification.
func (s *Session) Load(ctx context.Context) {
	questions, err := s.backend.Questions(ctx, s.assignment.ID)
	if err != nil {
		questions = nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.questions = questions
	s.answers = make(map[uint]*models.Answer, len(questions))
	for _, q := range questions {
		s.answers[q.ID] = &models.Answer{QuestionID: q.ID}
	}
	s.mu.Unlock()

	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		s.logger.LogError(err, "Failed to load assignment questions",
			"assignment_id", s.assignment.ID)
		s.notifier.Error("Failed to load assignment questions")
	}
}

// Start transitions NotStarted to Started exactly once and activates the
// countdown when a due date exists. Repeat calls are no-ops.
func (s *Session) Start() {
	s.mu.Lock()
	if s.closed || s.status != StatusNotStarted {
		s.mu.Unlock()
		return
	}
	s.status = StatusStarted
	if s.hasDeadline && s.remaining > 0 {
		s.startTimerLocked()
	}
	questionCount := len(s.questions)
	s.mu.Unlock()

	s.notifier.Success("Assignment started! Good luck!")
	s.logger.Info("Assignment session started",
		"assignment_id", s.assignment.ID,
		"user_id", s.userID,
		"questions", questionCount)
}

// SetAnswer overwrites one field of the matching answer entry. Unknown
// question ids and terminal sessions are silent no-ops.
func (s *Session) SetAnswer(questionID uint, field models.AnswerField, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.status == StatusTerminal {
		return
	}
	ans, ok := s.answers[questionID]
	if !ok {
		return
	}
	switch field {
	case models.AnswerFieldText:
		ans.AnswerText = value
	case models.AnswerFieldOption:
		ans.SelectedOption = value
	}
}

// SetAdditionalContent replaces the free-text supplementary response.
func (s *Session) SetAdditionalContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.status == StatusTerminal {
		return
	}
	s.additionalContent = content
}

// Validate returns the unanswered questions in original order. Choice kinds
// need a selected option; text kinds need non-blank answer text. An empty
// question set always validates.
func (s *Session) Validate() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unansweredLocked()
}

func (s *Session) unansweredLocked() []models.Question {
	unanswered := make([]models.Question, 0)
	for _, q := range s.questions {
		ans, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		if q.Kind.IsChoice() {
			if ans.SelectedOption == "" {
				unanswered = append(unanswered, q)
			}
		} else if strings.TrimSpace(ans.AnswerText) == "" {
			unanswered = append(unanswered, q)
		}
	}
	return unanswered
}

// Submit runs the explicit submission path: validation gate, confirmation
// gate, single in-flight guard, then the backend post. On success the session
// is terminal and the submission event is published; on failure it returns to
// Started so the user can retry.
func (s *Session) Submit(ctx context.Context, confirmed bool) error {
	return s.submit(ctx, confirmed, false)
}

// Tick advances the countdown by one second. It is called once per second by
// the timer goroutine while the countdown runs. When the counter reaches zero
// it fires auto-submission exactly once. The return value reports whether the
// timer should keep ticking.
func (s *Session) Tick() bool {
	s.mu.Lock()
	if s.closed || !s.hasDeadline || s.status == StatusNotStarted || s.status == StatusTerminal {
		s.mu.Unlock()
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.mu.Unlock()
		return true
	}
	if s.autoFired {
		s.mu.Unlock()
		return false
	}
	s.autoFired = true
	s.stopTimerLocked()
	s.mu.Unlock()

	s.autoSubmit()
	return false
}

// autoSubmit is the expired-countdown path: no confirmation, no validation,
// same payload and error handling as Submit.
func (s *Session) autoSubmit() {
	s.notifier.Warning("Time is up! Auto-submitting assignment...")
	if err := s.submit(context.Background(), true, true); err != nil {
		s.logger.LogError(err, "Auto-submission failed",
			"assignment_id", s.assignment.ID,
			"user_id", s.userID)
	}
}

func (s *Session) submit(ctx context.Context, confirmed, auto bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.status == StatusTerminal {
		s.mu.Unlock()
		return ErrAlreadySubmitted
	}
	if !auto && s.status == StatusNotStarted {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if !auto && len(s.questions) > 0 {
		if unanswered := s.unansweredLocked(); len(unanswered) > 0 {
			count := len(unanswered)
			s.mu.Unlock()
			s.notifier.Error(fmt.Sprintf("Please answer all questions. %d question(s) remaining.", count))
			return &UnansweredError{Count: count}
		}
	}
	if !auto && !confirmed {
		s.mu.Unlock()
		return ErrConfirmationRequired
	}

	s.submitting = true
	s.status = StatusSubmitting
	payload := s.payloadLocked()
	hasQuestions := len(s.questions) > 0
	assignmentID := s.assignment.ID
	s.mu.Unlock()

	var sub *models.Submission
	var err error
	if hasQuestions {
		sub, err = s.backend.SubmitWithAnswers(ctx, assignmentID, payload)
	} else {
		sub, err = s.backend.Submit(ctx, assignmentID, payload)
	}

	s.mu.Lock()
	if s.closed {
		// The session was torn down while the request was in flight; the
		// response must not mutate anything or reach the user.
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.submitting = false
	if err != nil {
		s.status = StatusStarted
		s.mu.Unlock()
		s.logger.LogError(err, "Assignment submission failed",
			"assignment_id", assignmentID,
			"user_id", s.userID,
			"auto", auto)
		s.notifier.Error("Failed to submit assignment. Please try again.")
		return fmt.Errorf("failed to submit assignment %d: %w", assignmentID, err)
	}
	s.status = StatusTerminal
	s.submission = sub
	s.stopTimerLocked()
	s.mu.Unlock()

	s.notifier.Success("Assignment submitted successfully!")
	s.logger.Info("Assignment submitted",
		"assignment_id", assignmentID,
		"user_id", s.userID,
		"submission_id", sub.ID,
		"auto", auto)

	event := events.NewSubmissionEvent(s.userID, assignmentID, s.assignment.Title, auto)
	event.Submission = *sub
	if err := s.publisher.PublishSubmissionCompleted(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish submission event",
			"assignment_id", assignmentID)
	}
	return nil
}

func (s *Session) payloadLocked() models.SubmissionPayload {
	payload := models.SubmissionPayload{
		Content:       s.additionalContent,
		AttemptNumber: 1,
	}
	if len(s.questions) > 0 {
		payload.Answers = make([]models.Answer, 0, len(s.questions))
		for _, q := range s.questions {
			if ans, ok := s.answers[q.ID]; ok {
				payload.Answers = append(payload.Answers, *ans)
			}
		}
	}
	return payload
}

// Close tears the session down: the countdown is cancelled and any in-flight
// network response becomes a no-op. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
}

func (s *Session) startTimerLocked() {
	s.stopTimerLocked()
	stop := make(chan struct{})
	s.stopTimer = stop
	go s.runTimer(stop)
}

func (s *Session) stopTimerLocked() {
	if s.stopTimer != nil {
		close(s.stopTimer)
		s.stopTimer = nil
	}
}

func (s *Session) runTimer(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !s.Tick() {
				return
			}
		case <-stop:
			return
		}
	}
}

// View is an immutable snapshot of session state for rendering.
type View struct {
	Assignment        models.Assignment  `json:"assignment"`
	Questions         []models.Question  `json:"questions"`
	Answers           []models.Answer    `json:"answers"`
	AdditionalContent string             `json:"additional_content"`
	Status            Status             `json:"status"`
	HasCountdown      bool               `json:"has_countdown"`
	RemainingSeconds  int                `json:"remaining_seconds"`
	RemainingDisplay  string             `json:"remaining_display"`
	Submitting        bool               `json:"submitting"`
	Submission        *models.Submission `json:"submission,omitempty"`
}

// View snapshots the current state. Answers follow question order.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make([]models.Answer, 0, len(s.questions))
	for _, q := range s.questions {
		if ans, ok := s.answers[q.ID]; ok {
			answers = append(answers, *ans)
		}
	}

	return View{
		Assignment:        s.assignment,
		Questions:         append([]models.Question(nil), s.questions...),
		Answers:           answers,
		AdditionalContent: s.additionalContent,
		Status:            s.status,
		HasCountdown:      s.hasDeadline,
		RemainingSeconds:  s.remaining,
		RemainingDisplay:  FormatRemaining(s.remaining),
		Submitting:        s.submitting,
		Submission:        s.submission,
	}
}

// CurrentStatus returns the lifecycle state.
func (s *Session) CurrentStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Assignment returns the descriptor this session was opened with.
func (s *Session) Assignment() models.Assignment {
	return s.assignment
}
