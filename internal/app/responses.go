package app

import (
	"context"
	"errors"
	"html"
	"strings"

	"quiz-session-service/internal/domain"
)

// SaveResponse records one answer for a session. The raw text is trimmed and
// HTML-escaped before validation and storage so stored answers are safe to
// render in summaries. Validation failures come back as messages with a nil
// error; a non-nil error is a store fault.
//
// The session is created lazily on the first accepted answer; the upsert
// leaves exactly one response row per (session, question) pair.
func (s *QuizService) SaveResponse(ctx context.Context, sessionID string, questionID int64, answerText string) (int64, []string, error) {
	sanitized := html.EscapeString(strings.TrimSpace(answerText))

	q, err := s.findQuestion(ctx, questionID)
	if errors.Is(err, domain.ErrQuestionNotFound) {
		return 0, []string{"Question not found."}, nil
	}
	if err != nil {
		return 0, nil, err
	}

	if errs := Validate(q, sanitized); len(errs) > 0 {
		return 0, errs, nil
	}

	if err := s.ensureSession(ctx, sessionID); err != nil {
		return 0, nil, err
	}

	responseID, err := s.responses.UpsertResponse(ctx, sessionID, questionID, sanitized)
	if err != nil {
		return 0, nil, err
	}

	s.publishSummary(ctx, sessionID)
	return responseID, nil, nil
}

// ResponsesBySession returns every stored answer for a session.
func (s *QuizService) ResponsesBySession(ctx context.Context, sessionID string) ([]domain.ResponseView, error) {
	responses, err := s.responses.ListResponses(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ResponseView, 0, len(responses))
	for _, r := range responses {
		views = append(views, domain.ResponseView{
			ResponseID: r.ID,
			QuestionID: r.QuestionID,
			AnswerText: r.AnswerText,
		})
	}
	return views, nil
}

func (s *QuizService) ensureSession(ctx context.Context, sessionID string) error {
	exists, err := s.sessions.SessionExists(ctx, sessionID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.sessions.CreateSession(ctx, sessionID, s.now().UTC())
}

func (s *QuizService) findQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	questions, err := s.catalog.ListQuestions(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	for _, q := range questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}
