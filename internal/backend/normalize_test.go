package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/student-portal/internal/models"
)

func TestNormalizeAssignmentsAliases(t *testing.T) {
	raw := json.RawMessage(`[
		{"assignment_id": 3, "name": "Aliased", "course_name": "CS101", "dueDate": "2025-03-20", "maxGrade": 50, "assignment_type": "quiz"},
		{"id": 4, "title": "Canonical", "course_title": "CS102", "due_date": "2025-03-21", "max_grade": 80, "type": "project"}
	]`)

	list := NormalizeAssignments(raw)
	require.Len(t, list, 2)

	assert.Equal(t, uint(3), list[0].ID)
	assert.Equal(t, "Aliased", list[0].Title)
	assert.Equal(t, "CS101", list[0].Course)
	assert.Equal(t, "2025-03-20", list[0].DueDate)
	assert.Equal(t, float64(50), list[0].MaxGrade)
	assert.Equal(t, "quiz", list[0].Type)

	assert.Equal(t, uint(4), list[1].ID)
	assert.Equal(t, "Canonical", list[1].Title)
	assert.Equal(t, "CS102", list[1].Course)
}

func TestNormalizeAssignmentsDefaults(t *testing.T) {
	list := NormalizeAssignments(json.RawMessage(`[{"id": 9}]`))
	require.Len(t, list, 1)

	assert.Equal(t, "Untitled", list[0].Title)
	assert.Equal(t, models.StatusPending, list[0].Status)
	assert.Equal(t, float64(100), list[0].MaxGrade)
	assert.Equal(t, []string{}, list[0].Attachments)
	assert.Equal(t, "assignment", list[0].Type)
}

func TestNormalizeAssignmentsCanonicalWinsOverAlias(t *testing.T) {
	raw := json.RawMessage(`[{"id": 5, "title": "Primary", "name": "Secondary", "course_title": "Primary course", "course": "Secondary course"}]`)

	list := NormalizeAssignments(raw)
	require.Len(t, list, 1)
	assert.Equal(t, "Primary", list[0].Title)
	assert.Equal(t, "Primary course", list[0].Course)
}

func TestNormalizeAssignmentsUnrecognizedShape(t *testing.T) {
	assert.Empty(t, NormalizeAssignments(json.RawMessage(`{"something": "else"}`)))
	assert.Empty(t, NormalizeAssignments(json.RawMessage(`"nonsense"`)))
	assert.Empty(t, NormalizeAssignments(json.RawMessage(`{"success": true, "assignments": null}`)))
}
