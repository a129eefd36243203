package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/student-portal/internal/models"
	"github.com/campushub/student-portal/internal/portal"
	"github.com/campushub/student-portal/internal/session"
	"github.com/campushub/student-portal/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	portal    *portal.Service
	validator *utils.Validator
}

func NewSessionHandler(portalService *portal.Service, validator *utils.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		portal:      portalService,
		validator:   validator,
	}
}

// ===== REQUEST STRUCTURES =====

type SetAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Field      string `json:"field" validate:"required,answer_field"`
	Value      string `json:"value"`
}

type SetContentRequest struct {
	Content string `json:"content"`
}

type SubmitRequest struct {
	Confirmed bool `json:"confirmed"`
}

// OpenSession mounts a new assignment session for the current user.
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var assignment models.Assignment
	if err := c.ShouldBindJSON(&assignment); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	sess, err := h.portal.Open(c.Request.Context(), userID(c), assignment)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Could not open assignment session", err)
		return
	}

	c.JSON(http.StatusCreated, sess.View())
}

// CloseSession unmounts the current session; a no-op when none is mounted.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	h.portal.Close(userID(c))
	c.JSON(http.StatusOK, SuccessResponse{Message: "Session closed"})
}

// GetSession returns the current session snapshot.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

// StartSession flips the started flag and activates the countdown.
func (h *SessionHandler) StartSession(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		return
	}
	sess.Start()
	c.JSON(http.StatusOK, sess.View())
}

// SetAnswer records one answer field mutation.
func (h *SessionHandler) SetAnswer(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		return
	}

	var req SetAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid answer field",
			Details: err.Error(),
		})
		return
	}

	sess.SetAnswer(req.QuestionID, models.AnswerField(req.Field), req.Value)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer recorded"})
}

// SetContent replaces the additional free-text content.
func (h *SessionHandler) SetContent(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		return
	}

	var req SetContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	sess.SetAdditionalContent(req.Content)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Content updated"})
}

// Submit runs the explicit submission path.
func (h *SessionHandler) Submit(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := sess.Submit(c.Request.Context(), req.Confirmed); err != nil {
		h.handleSubmitError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (h *SessionHandler) handleSubmitError(c *gin.Context, err error) {
	var unanswered *session.UnansweredError
	switch {
	case errors.As(err, &unanswered):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Please answer all questions before submitting",
			Details: unanswered.Error(),
			Code:    "unanswered_questions",
		})
	case errors.Is(err, session.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, ErrorResponse{
			Message: "Submission must be confirmed",
			Code:    "confirmation_required",
		})
	case errors.Is(err, session.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A submission is already in progress",
			Code:    "submission_in_flight",
		})
	case errors.Is(err, session.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Assignment already submitted",
			Code:    "already_submitted",
		})
	case errors.Is(err, session.ErrNotStarted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session has not been started",
			Code:    "not_started",
		})
	default:
		h.RespondWithError(c, http.StatusBadGateway, "Failed to submit assignment", err)
	}
}

func (h *SessionHandler) currentSession(c *gin.Context) (*session.Session, error) {
	sess, err := h.portal.Session(userID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No active assignment session",
			Code:    "no_active_session",
		})
		return nil, err
	}
	return sess, nil
}
