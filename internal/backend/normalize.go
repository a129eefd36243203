package backend

import (
	"encoding/json"

	"github.com/campushub/student-portal/internal/models"
)

// rawAssignment mirrors the loosely-typed list row the backend emits. Several
// fields arrive under more than one name depending on which route produced
// them; normalization collapses the aliases here, once.
type rawAssignment struct {
	ID           uint     `json:"id"`
	AssignmentID uint     `json:"assignment_id"`
	Title        string   `json:"title"`
	Name         string   `json:"name"`
	CourseTitle  string   `json:"course_title"`
	Course       string   `json:"course"`
	CourseName   string   `json:"course_name"`
	Description  string   `json:"description"`
	Details      string   `json:"details"`
	DueDate      string   `json:"due_date"`
	DueDateAlt   string   `json:"dueDate"`
	Submitted    string   `json:"submitted_date"`
	SubmittedAlt string   `json:"submittedDate"`
	Status       string   `json:"status"`
	Grade        *float64 `json:"grade"`
	MaxGrade     float64  `json:"max_grade"`
	MaxGradeAlt  float64  `json:"maxGrade"`
	Feedback     string   `json:"feedback"`
	Attachments  []string `json:"attachments"`
	Type         string   `json:"type"`
	TypeAlt      string   `json:"assignment_type"`
}

// NormalizeAssignments accepts either {success, assignments: [...]} or a bare
// array and maps every row to the canonical summary, defaulting absent fields.
func NormalizeAssignments(data json.RawMessage) []models.AssignmentSummary {
	var rows []rawAssignment

	var envelope struct {
		Success     bool            `json:"success"`
		Assignments []rawAssignment `json:"assignments"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Success && envelope.Assignments != nil {
		rows = envelope.Assignments
	} else if err := json.Unmarshal(data, &rows); err != nil {
		return []models.AssignmentSummary{}
	}

	summaries := make([]models.AssignmentSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, normalizeAssignment(r))
	}
	return summaries
}

func normalizeAssignment(r rawAssignment) models.AssignmentSummary {
	s := models.AssignmentSummary{
		ID:            firstUint(r.ID, r.AssignmentID),
		Title:         firstString(r.Title, r.Name),
		Course:        firstString(r.CourseTitle, r.Course, r.CourseName),
		Description:   firstString(r.Description, r.Details),
		DueDate:       firstString(r.DueDate, r.DueDateAlt),
		SubmittedDate: firstString(r.Submitted, r.SubmittedAlt),
		Status:        models.AssignmentStatus(r.Status),
		Grade:         r.Grade,
		MaxGrade:      firstFloat(r.MaxGrade, r.MaxGradeAlt),
		Feedback:      r.Feedback,
		Attachments:   r.Attachments,
		Type:          firstString(r.Type, r.TypeAlt),
	}

	if s.Title == "" {
		s.Title = "Untitled"
	}
	if s.Status == "" {
		s.Status = models.StatusPending
	}
	if s.MaxGrade == 0 {
		s.MaxGrade = 100
	}
	if s.Attachments == nil {
		s.Attachments = []string{}
	}
	if s.Type == "" {
		s.Type = "assignment"
	}
	return s
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstUint(values ...uint) uint {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstFloat(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
