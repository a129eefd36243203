package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/student-portal/internal/cache"
	"github.com/campushub/student-portal/internal/models"
	"github.com/campushub/student-portal/internal/utils"
)

const questionsCacheTTL = 5 * time.Minute

// cachedClient caches question sets per assignment. Question sets change
// rarely while students work, so a short TTL keeps repeated session opens from
// re-fetching. Failures, including 404s, are never cached; submits and the
// assignment list pass straight through (the list is cached per user upstream).
type cachedClient struct {
	Client
	cache  cache.Service
	logger utils.Logger
}

func NewCachedClient(inner Client, cacheService cache.Service, logger utils.Logger) Client {
	return &cachedClient{Client: inner, cache: cacheService, logger: logger}
}

func (c *cachedClient) Questions(ctx context.Context, assignmentID uint) ([]models.Question, error) {
	key := questionsCacheKey(assignmentID)

	var cached []models.Question
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("Question cache read failed", "assignment_id", assignmentID, "error", err)
	}

	questions, err := c.Client.Questions(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, questions, questionsCacheTTL); err != nil {
		c.logger.Warn("Question cache write failed", "assignment_id", assignmentID, "error", err)
	}
	return questions, nil
}

func questionsCacheKey(assignmentID uint) string {
	return fmt.Sprintf("portal:questions:%d", assignmentID)
}
