package services

// AnswerRecord is one accepted response. Records are appended to a session's
// history and never mutated.
type AnswerRecord struct {
	QuestionID int    `json:"questionId"`
	Points     int    `json:"puntaje"`
	OptionText string `json:"texto,omitempty"`
}

// AnswerInput is an answer as submitted by a caller. Either Option (0-based
// index into the question's options) or Points identifies the choice; Option
// wins when both are set.
type AnswerInput struct {
	QuestionID int  `json:"questionId" validate:"required,min=1"`
	Option     *int `json:"opcion,omitempty"`
	Points     *int `json:"puntaje,omitempty"`
}

// TotalRawScore sums the point values of the answers.
func TotalRawScore(answers []AnswerRecord) int {
	total := 0
	for _, a := range answers {
		total += a.Points
	}
	return total
}
