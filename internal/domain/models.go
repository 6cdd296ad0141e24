package domain

import "time"

// QuestionType distinguishes how an answer is entered and validated.
type QuestionType string

const (
	SingleChoice   QuestionType = "SingleChoice"
	MultipleChoice QuestionType = "MultipleChoice"
	ShortAnswer    QuestionType = "ShortAnswer"
	PhoneNumber    QuestionType = "PhoneNumber"
	LongAnswer     QuestionType = "LongAnswer"
)

// IsChoice reports whether answers for this type are option-id encodings.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice
}

// Option is one selectable answer belonging to a choice question.
type Option struct {
	ID         int64  `json:"optionId"`
	QuestionID int64  `json:"-"`
	Text       string `json:"optionText"`
}

// Question is a catalog entry. OrderNo is the permanent, unique catalog position.
// CorrectAnswer holds a single option id for SingleChoice, a comma-separated
// option-id set for MultipleChoice, and is empty for free-text types.
type Question struct {
	ID            int64
	OrderNo       int
	Text          string
	Type          QuestionType
	CorrectAnswer string
	Options       []Option
}

// Session is one quiz attempt, keyed by an opaque client-supplied token.
type Session struct {
	ID        string
	StartedAt time.Time
}

// Response is a stored answer. At most one exists per (session, question) pair.
type Response struct {
	ID         int64
	SessionID  string
	QuestionID int64
	AnswerText string
}

// GridItem is the flat catalog listing for the admin grid view. CorrectAnswer
// is only exposed for choice types.
type GridItem struct {
	QuestionID    int64   `json:"questionId"`
	OrderNo       int     `json:"orderNo"`
	QuestionText  string  `json:"questionText"`
	QuestionType  string  `json:"questionType"`
	CorrectAnswer *string `json:"correctAnswer"`
}

// QuestionView is a question as served to quiz takers: no correct answer, and
// OrderNo may be an attempt-local sequence rather than the catalog position.
type QuestionView struct {
	QuestionID   int64    `json:"questionId"`
	OrderNo      int      `json:"orderNo"`
	QuestionText string   `json:"questionText"`
	QuestionType string   `json:"questionType"`
	Options      []Option `json:"options,omitempty"`
}

// ResponseView is a stored answer as returned to clients.
type ResponseView struct {
	ResponseID int64  `json:"responseId"`
	QuestionID int64  `json:"questionId"`
	AnswerText string `json:"answerText"`
}

// SummaryItem is one scored question. IsCorrect is nil for ungraded types.
// UserAnswer and CorrectAnswer are resolved to option text for choice types.
type SummaryItem struct {
	QuestionText  string  `json:"questionText"`
	QuestionType  string  `json:"questionType"`
	UserAnswer    *string `json:"userAnswer"`
	CorrectAnswer *string `json:"correctAnswer"`
	IsCorrect     *bool   `json:"isCorrect"`
}

// Stats aggregates a session's scoring outcome.
type Stats struct {
	Total      int     `json:"total"`
	Attempted  int     `json:"attempted"`
	Correct    int     `json:"correct"`
	Percentage float64 `json:"percentage"`
}

// Summary is the scored view of a session.
type Summary struct {
	Items []SummaryItem `json:"questionSummaries"`
	Stats Stats         `json:"stats"`
}
