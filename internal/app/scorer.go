package app

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"quiz-session-service/internal/domain"
)

// BuildSummary scores a session. Only answered questions are included (each
// attempt sees a random subset, so unanswered catalog entries are not
// meaningful), ordered by catalog orderNo. Choice answers are graded and
// resolved to option text; free-text types stay ungraded with IsCorrect nil.
// An unknown session yields empty items and zero stats.
func (s *QuizService) BuildSummary(ctx context.Context, sessionID string) (domain.Summary, error) {
	questions, err := s.catalog.ListQuestions(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	responses, err := s.responses.ListResponses(ctx, sessionID)
	if err != nil {
		return domain.Summary{}, err
	}

	answerByQuestion := make(map[int64]string, len(responses))
	for _, r := range responses {
		answerByQuestion[r.QuestionID] = r.AnswerText
	}

	// ListQuestions is orderNo-ascending already; filtering preserves that.
	items := make([]domain.SummaryItem, 0, len(answerByQuestion))
	attempted, correct := 0, 0
	total := 0

	for _, q := range questions {
		userAnswer, ok := answerByQuestion[q.ID]
		if !ok {
			continue
		}
		total++

		hasAnswer := strings.TrimSpace(userAnswer) != ""
		if hasAnswer {
			attempted++
		}

		var isCorrect *bool
		switch q.Type {
		case domain.SingleChoice:
			if hasAnswer && q.CorrectAnswer != "" {
				v := strings.TrimSpace(userAnswer) == strings.TrimSpace(q.CorrectAnswer)
				isCorrect = &v
				if v {
					correct++
				}
			}
		case domain.MultipleChoice:
			if hasAnswer && q.CorrectAnswer != "" {
				v := sameIDSet(userAnswer, q.CorrectAnswer)
				isCorrect = &v
				if v {
					correct++
				}
			}
		}

		items = append(items, domain.SummaryItem{
			QuestionText:  q.Text,
			QuestionType:  string(q.Type),
			UserAnswer:    userDisplay(q, userAnswer, hasAnswer),
			CorrectAnswer: correctDisplay(q),
			IsCorrect:     isCorrect,
		})
	}

	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(correct)/float64(total)*1000) / 10
	}

	return domain.Summary{
		Items: items,
		Stats: domain.Stats{
			Total:      total,
			Attempted:  attempted,
			Correct:    correct,
			Percentage: pct,
		},
	}, nil
}

// sameIDSet compares two comma-separated id lists as unordered sets.
func sameIDSet(a, b string) bool {
	as := splitTrimSorted(a)
	bs := splitTrimSorted(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func splitTrimSorted(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	sort.Strings(out)
	return out
}

// userDisplay resolves a stored choice answer to option text; unresolvable
// ids fall back to the raw id. Free-text answers pass through unchanged.
func userDisplay(q domain.Question, userAnswer string, hasAnswer bool) *string {
	display := userAnswer
	if hasAnswer && q.Type == domain.SingleChoice {
		display = optionText(q, strings.TrimSpace(userAnswer))
	} else if hasAnswer && q.Type == domain.MultipleChoice {
		display = resolveIDList(q, userAnswer)
	}
	return &display
}

// correctDisplay resolves the correct-answer encoding to option text for
// choice types; free-text types have no correct answer to show.
func correctDisplay(q domain.Question) *string {
	switch q.Type {
	case domain.SingleChoice:
		text := optionText(q, strings.TrimSpace(q.CorrectAnswer))
		return &text
	case domain.MultipleChoice:
		text := resolveIDList(q, q.CorrectAnswer)
		return &text
	default:
		return nil
	}
}

func resolveIDList(q domain.Question, encoded string) string {
	ids := strings.Split(encoded, ",")
	texts := make([]string, 0, len(ids))
	for _, id := range ids {
		texts = append(texts, optionText(q, strings.TrimSpace(id)))
	}
	return strings.Join(texts, ", ")
}

func optionText(q domain.Question, id string) string {
	for _, o := range q.Options {
		if strconv.FormatInt(o.ID, 10) == id {
			return o.Text
		}
	}
	return id
}
