package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campushub/student-portal/internal/backend"
	"github.com/campushub/student-portal/internal/cache"
	"github.com/campushub/student-portal/internal/events"
	"github.com/campushub/student-portal/internal/models"
	"github.com/campushub/student-portal/internal/notify"
	"github.com/campushub/student-portal/internal/session"
	"github.com/campushub/student-portal/internal/utils"
)

const listCacheTTL = 2 * time.Minute

// ErrNoActiveSession is returned by session-scoped operations when the user
// has nothing mounted.
var ErrNoActiveSession = errors.New("no active assignment session")

// Stats are the display-only aggregates the list header shows.
type Stats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Submitted    int     `json:"submitted"`
	Graded       int     `json:"graded"`
	Overdue      int     `json:"overdue"`
	AverageGrade float64 `json:"average_grade"`
}

// Service is the host view: it owns the assignment list and mounts at most
// one assignment session per user at a time.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session.Session

	backend   backend.Client
	cache     cache.Service
	notifier  notify.Notifier
	publisher events.Publisher
	bus       *events.Bus
	validator *utils.Validator
	logger    utils.Logger
	clock     func() time.Time
}

type Config struct {
	Backend   backend.Client
	Cache     cache.Service
	Notifier  notify.Notifier
	Publisher events.Publisher
	Bus       *events.Bus
	Validator *utils.Validator
	Logger    utils.Logger
	Clock     func() time.Time
}

func NewService(cfg Config) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		sessions:  make(map[string]*session.Session),
		backend:   cfg.Backend,
		cache:     cfg.Cache,
		notifier:  cfg.Notifier,
		publisher: cfg.Publisher,
		bus:       cfg.Bus,
		validator: cfg.Validator,
		logger:    cfg.Logger,
		clock:     clock,
	}
}

// LoadAssignments returns the normalized assignment list for a user. Backend
// failure surfaces a notification and yields an empty list; it never fails
// the caller.
func (s *Service) LoadAssignments(ctx context.Context, userID string) []models.AssignmentSummary {
	key := listCacheKey(userID)

	var cached []models.AssignmentSummary
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Assignment list cache read failed", "user_id", userID, "error", err)
	}

	list, err := s.backend.Assignments(ctx)
	if err != nil {
		s.logger.LogError(err, "Failed to load assignments", "user_id", userID)
		s.notifier.Error("Error loading assignments")
		return []models.AssignmentSummary{}
	}

	if err := s.cache.Set(ctx, key, list, listCacheTTL); err != nil {
		s.logger.Warn("Assignment list cache write failed", "user_id", userID, "error", err)
	}
	return list
}

// ComputeStats derives the list header aggregates. The grade average covers
// graded assignments only, as a percentage of each assignment's max grade.
func (s *Service) ComputeStats(list []models.AssignmentSummary) Stats {
	stats := Stats{Total: len(list)}
	var gradedSum float64
	var gradedCount int
	now := s.clock()

	for _, a := range list {
		switch a.Status {
		case models.StatusPending, models.StatusInProgress:
			stats.Pending++
		case models.StatusSubmitted:
			stats.Submitted++
		case models.StatusGraded, models.StatusCompleted:
			stats.Graded++
		case models.StatusOverdue:
			stats.Overdue++
		}
		if a.Status != models.StatusOverdue && a.OverdueDays(now) > 0 {
			stats.Overdue++
		}
		if a.Grade != nil {
			gradedSum += a.GradePercent()
			gradedCount++
		}
	}
	if gradedCount > 0 {
		stats.AverageGrade = gradedSum / float64(gradedCount)
	}
	return stats
}

// Open mounts a session for the given assignment. If the user already has a
// session mounted it is torn down first, so exactly one is live per user.
func (s *Service) Open(ctx context.Context, userID string, assignment models.Assignment) (*session.Session, error) {
	if err := s.validator.Validate(&assignment); err != nil {
		return nil, fmt.Errorf("invalid assignment descriptor: %w", err)
	}

	sess := session.New(assignment, session.Deps{
		Backend:   s.backend,
		Notifier:  s.notifier,
		Publisher: s.publisher,
		Logger:    s.logger,
		UserID:    userID,
		Clock:     s.clock,
	})

	s.mu.Lock()
	if prev, ok := s.sessions[userID]; ok {
		prev.Close()
	}
	s.sessions[userID] = sess
	s.mu.Unlock()

	sess.Load(ctx)

	s.logger.Info("Assignment session opened",
		"assignment_id", assignment.ID,
		"user_id", userID)
	return sess, nil
}

// Close unmounts the user's session. Safe to call when nothing is mounted.
func (s *Service) Close(userID string) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()

	if ok {
		sess.Close()
		s.logger.Info("Assignment session closed", "user_id", userID)
	}
}

// Session returns the user's mounted session, if any.
func (s *Service) Session(userID string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return sess, nil
}

// Run consumes submission-completed events until ctx is cancelled. Each event
// unmounts the finished session and refreshes the user's cached list, which
// is the host's whole reaction to a completed submission.
func (s *Service) Run(ctx context.Context) error {
	eventsCh, err := s.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to submission events: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-eventsCh:
			if !ok {
				return nil
			}
			s.onSubmissionComplete(ctx, event)
		}
	}
}

func (s *Service) onSubmissionComplete(ctx context.Context, event *events.SubmissionEvent) {
	s.logger.Info("Submission completed",
		"event_id", event.ID,
		"assignment_id", event.AssignmentID,
		"user_id", event.UserID,
		"auto", event.AutoSubmitted)

	s.Close(event.UserID)

	if err := s.cache.Delete(ctx, listCacheKey(event.UserID)); err != nil {
		s.logger.Warn("Failed to invalidate assignment list cache",
			"user_id", event.UserID,
			"error", err)
	}
	// Warm the cache again so the next render sees the refreshed list.
	s.LoadAssignments(ctx, event.UserID)
}

func listCacheKey(userID string) string {
	return "portal:assignments:" + userID
}
