package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/campushub/student-portal/internal/models"
	"github.com/campushub/student-portal/internal/utils"
)

var (
	// ErrNotFound maps a backend 404 to a sentinel the session layer can treat
	// as "no questions" instead of a failure.
	ErrNotFound = errors.New("resource not found")

	// ErrRejected means the backend answered but did not accept the request
	// (success=false or a non-2xx status).
	ErrRejected = errors.New("request rejected by backend")
)

// Client is the portal's view of the LMS backend. The portal never talks to a
// database; everything goes through these four calls.
type Client interface {
	Questions(ctx context.Context, assignmentID uint) ([]models.Question, error)
	Submit(ctx context.Context, assignmentID uint, payload models.SubmissionPayload) (*models.Submission, error)
	SubmitWithAnswers(ctx context.Context, assignmentID uint, payload models.SubmissionPayload) (*models.Submission, error)
	Assignments(ctx context.Context) ([]models.AssignmentSummary, error)
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
	logger  utils.Logger
}

func NewClient(baseURL, token string, hc *http.Client, logger utils.Logger) Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpClient{
		baseURL: baseURL,
		token:   token,
		http:    hc,
		logger:  logger,
	}
}

// Questions fetches the question list for an assignment. A 404 from the
// backend is returned as ErrNotFound; callers treat that as an open-ended
// assignment, not an error condition.
func (c *httpClient) Questions(ctx context.Context, assignmentID uint) ([]models.Question, error) {
	var resp struct {
		Success   bool              `json:"success"`
		Questions []models.Question `json:"questions"`
	}

	path := fmt.Sprintf("/api/assignments/%d/questions", assignmentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, nil
	}
	return resp.Questions, nil
}

// Submit posts a submission without answers (open-ended assignments).
func (c *httpClient) Submit(ctx context.Context, assignmentID uint, payload models.SubmissionPayload) (*models.Submission, error) {
	payload.Answers = nil
	path := fmt.Sprintf("/api/assignments/%d/submit", assignmentID)
	return c.postSubmission(ctx, path, payload)
}

// SubmitWithAnswers posts a submission including the answer list. Used only
// when the session's question set is non-empty.
func (c *httpClient) SubmitWithAnswers(ctx context.Context, assignmentID uint, payload models.SubmissionPayload) (*models.Submission, error) {
	path := fmt.Sprintf("/api/assignments/%d/submit-with-answers", assignmentID)
	return c.postSubmission(ctx, path, payload)
}

func (c *httpClient) postSubmission(ctx context.Context, path string, payload models.SubmissionPayload) (*models.Submission, error) {
	var resp struct {
		Success    bool               `json:"success"`
		Submission *models.Submission `json:"submission"`
	}

	if err := c.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Submission == nil {
		return nil, ErrRejected
	}
	return resp.Submission, nil
}

// Assignments fetches the raw assignment list and normalizes it into the
// canonical summary shape.
func (c *httpClient) Assignments(ctx context.Context) ([]models.AssignmentSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/assignments", nil, &raw); err != nil {
		return nil, err
	}
	return NormalizeAssignments(raw), nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		c.logger.Warn("Backend returned error status",
			"method", method,
			"path", path,
			"status_code", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
