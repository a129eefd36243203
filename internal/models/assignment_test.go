package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status AssignmentStatus
		label  string
	}{
		{StatusPending, "Pending"},
		{StatusInProgress, "In Progress"},
		{StatusSubmitted, "Submitted"},
		{StatusGraded, "Graded"},
		{StatusCompleted, "Completed"},
		{StatusOverdue, "Overdue"},
		{AssignmentStatus("weird"), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, AssignmentSummary{Status: tt.status}.StatusLabel())
	}
}

func TestParsedDueDate(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		a := AssignmentSummary{DueDate: "2025-03-10T15:00:00Z"}
		due, ok := a.ParsedDueDate()
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), due)
	})

	t.Run("datetime", func(t *testing.T) {
		a := AssignmentSummary{DueDate: "2025-03-10 15:00:00"}
		_, ok := a.ParsedDueDate()
		assert.True(t, ok)
	})

	t.Run("date only", func(t *testing.T) {
		a := AssignmentSummary{DueDate: " 2025-03-10 "}
		due, ok := a.ParsedDueDate()
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), due)
	})

	t.Run("empty and garbage", func(t *testing.T) {
		_, ok := AssignmentSummary{}.ParsedDueDate()
		assert.False(t, ok)
		_, ok = AssignmentSummary{DueDate: "next tuesday"}.ParsedDueDate()
		assert.False(t, ok)
	})
}

func TestOverdueDays(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("days past due", func(t *testing.T) {
		a := AssignmentSummary{Status: StatusPending, DueDate: "2025-03-07"}
		assert.Equal(t, 3, a.OverdueDays(now))
	})

	t.Run("future due date", func(t *testing.T) {
		a := AssignmentSummary{Status: StatusPending, DueDate: "2025-03-12"}
		assert.Equal(t, 0, a.OverdueDays(now))
	})

	t.Run("submitted work is never overdue", func(t *testing.T) {
		for _, status := range []AssignmentStatus{StatusSubmitted, StatusGraded, StatusCompleted} {
			a := AssignmentSummary{Status: status, DueDate: "2025-03-01"}
			assert.Equal(t, 0, a.OverdueDays(now))
		}
	})

	t.Run("unparseable due date", func(t *testing.T) {
		a := AssignmentSummary{Status: StatusPending, DueDate: "???"}
		assert.Equal(t, 0, a.OverdueDays(now))
	})
}

func TestGradePercent(t *testing.T) {
	grade := 40.0

	assert.Equal(t, 80.0, AssignmentSummary{Grade: &grade, MaxGrade: 50}.GradePercent())
	assert.Equal(t, 0.0, AssignmentSummary{MaxGrade: 50}.GradePercent())
	assert.Equal(t, 0.0, AssignmentSummary{Grade: &grade}.GradePercent(), "zero max grade must not divide")
}

func TestQuestionKind(t *testing.T) {
	assert.True(t, MultipleChoice.Valid())
	assert.True(t, Essay.Valid())
	assert.False(t, QuestionKind("riddle").Valid())

	assert.True(t, MultipleChoice.IsChoice())
	assert.True(t, TrueFalse.IsChoice())
	assert.False(t, Text.IsChoice())
	assert.False(t, Essay.IsChoice())
}
