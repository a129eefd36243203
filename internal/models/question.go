package models

// QuestionKind is the question type the backend emits. Choice kinds are
// answered through SelectedOption, the rest through AnswerText.
type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple_choice"
	TrueFalse      QuestionKind = "true_false"
	Text           QuestionKind = "text"
	Essay          QuestionKind = "essay"
)

func (k QuestionKind) Valid() bool {
	switch k {
	case MultipleChoice, TrueFalse, Text, Essay:
		return true
	}
	return false
}

// IsChoice reports whether answers select from fixed options.
func (k QuestionKind) IsChoice() bool {
	return k == MultipleChoice || k == TrueFalse
}

// Question is one question of an assignment's question set, in presentation
// order as delivered by the backend.
type Question struct {
	ID      uint         `json:"id"`
	Text    string       `json:"question_text"`
	Kind    QuestionKind `json:"question_type" validate:"omitempty,question_kind"`
	Points  int          `json:"points"`
	Options []string     `json:"options,omitempty"`
}
