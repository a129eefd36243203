package models

// AnswerField names the two mutable fields of an Answer. Which one is relevant
// depends on the question's kind.
type AnswerField string

const (
	AnswerFieldText   AnswerField = "answer_text"
	AnswerFieldOption AnswerField = "selected_option"
)

// Answer holds a student's response to one question. Exactly one Answer exists
// per question for the life of a session; both fields start empty.
type Answer struct {
	QuestionID     uint   `json:"question_id"`
	AnswerText     string `json:"answer_text"`
	SelectedOption string `json:"selected_option"`
}
