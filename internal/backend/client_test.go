package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/student-portal/internal/models"
	"github.com/campushub/student-portal/internal/utils"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", server.Client(), utils.NewDevelopmentLogger())
}

func TestQuestionsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/assignments/7/questions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"questions": []map[string]interface{}{
				{"id": 1, "question_text": "pick", "question_type": "multiple_choice", "points": 5, "options": []string{"A", "B"}},
				{"id": 2, "question_text": "write", "question_type": "essay", "points": 10},
			},
		})
	})

	questions, err := client.Questions(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, models.MultipleChoice, questions[0].Kind)
	assert.Equal(t, []string{"A", "B"}, questions[0].Options)
	assert.Equal(t, models.Essay, questions[1].Kind)
}

func TestQuestionsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	questions, err := client.Questions(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, questions)
}

func TestQuestionsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Questions(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSubmitStripsAnswers(t *testing.T) {
	var body map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assignments/7/submit", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"submission": map[string]interface{}{"id": 42, "assignment_id": 7, "status": "submitted"},
		})
	})

	sub, err := client.Submit(context.Background(), 7, models.SubmissionPayload{
		Content:       "hello",
		AttemptNumber: 1,
		Answers:       []models.Answer{{QuestionID: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), sub.ID)

	assert.Equal(t, "hello", body["content"])
	assert.Equal(t, float64(1), body["attempt_number"])
	assert.NotContains(t, body, "answers", "the no-answers route never carries an answers key")
}

func TestSubmitWithAnswersCarriesAnswers(t *testing.T) {
	var body map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assignments/7/submit-with-answers", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"submission": map[string]interface{}{"id": 43, "assignment_id": 7},
		})
	})

	_, err := client.SubmitWithAnswers(context.Background(), 7, models.SubmissionPayload{
		AttemptNumber: 1,
		Answers:       []models.Answer{{QuestionID: 1, SelectedOption: "A"}},
	})
	require.NoError(t, err)

	answers, ok := body["answers"].([]interface{})
	require.True(t, ok)
	require.Len(t, answers, 1)
	first := answers[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["question_id"])
	assert.Equal(t, "A", first["selected_option"])
}

func TestSubmitRejectedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	})

	_, err := client.Submit(context.Background(), 7, models.SubmissionPayload{AttemptNumber: 1})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestAssignmentsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assignments", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"assignments": []map[string]interface{}{
				{"id": 1, "title": "Essay one", "status": "pending"},
			},
		})
	})

	list, err := client.Assignments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Essay one", list[0].Title)
}

func TestAssignmentsBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 2, "name": "From alias"},
		})
	})

	list, err := client.Assignments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(2), list[0].ID)
	assert.Equal(t, "From alias", list[0].Title)
}
