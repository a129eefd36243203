package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/student-portal/internal/models"
	"github.com/campushub/student-portal/internal/portal"
	"github.com/campushub/student-portal/internal/utils"
)

type AssignmentHandler struct {
	BaseHandler
	portal *portal.Service
}

func NewAssignmentHandler(portalService *portal.Service, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler: NewBaseHandler(logger),
		portal:      portalService,
	}
}

// assignmentRow is one list row with its display-derived fields attached.
type assignmentRow struct {
	models.AssignmentSummary
	StatusLabel  string  `json:"status_label"`
	OverdueDays  int     `json:"overdue_days"`
	GradePercent float64 `json:"grade_percent"`
}

// ListAssignments returns the user's normalized assignment list plus derived
// display fields and header stats. Degrades to an empty list on backend
// failure rather than erroring.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	list := h.portal.LoadAssignments(c.Request.Context(), userID(c))
	stats := h.portal.ComputeStats(list)

	now := time.Now()
	rows := make([]assignmentRow, 0, len(list))
	for _, a := range list {
		rows = append(rows, assignmentRow{
			AssignmentSummary: a,
			StatusLabel:       a.StatusLabel(),
			OverdueDays:       a.OverdueDays(now),
			GradePercent:      a.GradePercent(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": rows,
		"stats":       stats,
	})
}
