package app

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"quiz-session-service/internal/domain"
)

// DefaultSubsetSize is how many questions one attempt sees.
const DefaultSubsetSize = 5

// CatalogRepository loads the question catalog (options attached, orderNo ascending).
type CatalogRepository interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	GetQuestionByOrder(ctx context.Context, orderNo int) (domain.Question, error)
	CountQuestions(ctx context.Context) (int, error)
}

// SessionRepository tracks quiz attempts. CreateSession must be idempotent:
// a concurrent or repeated create for the same id is not an error.
type SessionRepository interface {
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	CreateSession(ctx context.Context, sessionID string, startedAt time.Time) error
}

// ResponseRepository stores answers with at most one row per (session, question).
// UpsertResponse overwrites the answer text in place when the pair already
// exists, preserving the row identity; the backing store's uniqueness
// constraint is the backstop for concurrent submissions of the same pair.
type ResponseRepository interface {
	GetResponse(ctx context.Context, sessionID string, questionID int64) (domain.Response, error)
	UpsertResponse(ctx context.Context, sessionID string, questionID int64, answerText string) (int64, error)
	ListResponses(ctx context.Context, sessionID string) ([]domain.Response, error)
}

// QuizService contains the quiz session use cases: subset selection, answer
// validation and recording, and summary scoring.
type QuizService struct {
	catalog    CatalogRepository
	sessions   SessionRepository
	responses  ResponseRepository
	subsetSize int
	now        func() time.Time
	feed       *summaryFeed

	// rnd is the shuffle source. Unseeded-per-call on purpose: no two attempts
	// are guaranteed the same subset. Guarded by mu since math/rand sources
	// are not safe for concurrent use.
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizService(catalog CatalogRepository, sessions SessionRepository, responses ResponseRepository) *QuizService {
	return &QuizService{
		catalog:    catalog,
		sessions:   sessions,
		responses:  responses,
		subsetSize: DefaultSubsetSize,
		now:        time.Now,
		feed:       newSummaryFeed(),
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the shuffle source. Test hook for deterministic subsets.
func (s *QuizService) WithRand(r *rand.Rand) *QuizService {
	s.rnd = r
	return s
}

// WithClock replaces the timestamp source. Test hook.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// WithSubsetSize overrides how many questions an attempt sees.
func (s *QuizService) WithSubsetSize(n int) *QuizService {
	if n > 0 {
		s.subsetSize = n
	}
	return s
}

// SelectQuizSet returns a random subset of the catalog for one attempt.
// The subset is re-numbered 1..k attempt-locally, independent of catalog
// order. A catalog smaller than the subset size is returned whole.
func (s *QuizService) SelectQuizSet(ctx context.Context) ([]domain.QuestionView, error) {
	questions, err := s.catalog.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]domain.Question, len(questions))
	copy(list, questions)

	// Fisher-Yates over a snapshot copy.
	s.mu.Lock()
	for i := len(list) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		list[i], list[j] = list[j], list[i]
	}
	s.mu.Unlock()

	if len(list) > s.subsetSize {
		list = list[:s.subsetSize]
	}

	views := make([]domain.QuestionView, 0, len(list))
	for idx, q := range list {
		views = append(views, questionView(q, idx+1))
	}
	return views, nil
}

// ListGrid returns the full catalog for the grid view. The correct-answer
// encoding is exposed only for choice types.
func (s *QuizService) ListGrid(ctx context.Context) ([]domain.GridItem, error) {
	questions, err := s.catalog.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.GridItem, 0, len(questions))
	for _, q := range questions {
		item := domain.GridItem{
			QuestionID:   q.ID,
			OrderNo:      q.OrderNo,
			QuestionText: q.Text,
			QuestionType: string(q.Type),
		}
		if q.Type.IsChoice() {
			answer := q.CorrectAnswer
			item.CorrectAnswer = &answer
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByOrder returns the question at the given catalog position, keeping its
// real orderNo. Absent positions yield domain.ErrQuestionNotFound.
func (s *QuizService) GetByOrder(ctx context.Context, orderNo int) (domain.QuestionView, error) {
	q, err := s.catalog.GetQuestionByOrder(ctx, orderNo)
	if err != nil {
		return domain.QuestionView{}, err
	}
	return questionView(q, q.OrderNo), nil
}

// CountQuestions reports the catalog size.
func (s *QuizService) CountQuestions(ctx context.Context) (int, error) {
	return s.catalog.CountQuestions(ctx)
}

func questionView(q domain.Question, orderNo int) domain.QuestionView {
	var options []domain.Option
	if len(q.Options) > 0 {
		options = make([]domain.Option, len(q.Options))
		copy(options, q.Options)
		sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
	}
	return domain.QuestionView{
		QuestionID:   q.ID,
		OrderNo:      orderNo,
		QuestionText: q.Text,
		QuestionType: string(q.Type),
		Options:      options,
	}
}
