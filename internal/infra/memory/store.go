package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-session-service/internal/domain"
)

// Store is an in-memory implementation of the engine's repository interfaces,
// used for tests and for running without Postgres. The catalog is immutable
// after construction; sessions and responses are guarded by a mutex, with the
// response map key playing the role of the (session, question) unique index.
type Store struct {
	questions []domain.Question

	mu             sync.RWMutex
	sessions       map[string]domain.Session
	responses      map[responseKey]*domain.Response
	nextResponseID int64
}

type responseKey struct {
	sessionID  string
	questionID int64
}

// NewStore seeds a store with the given catalog, normalized to orderNo order
// with options sorted by id.
func NewStore(questions []domain.Question) *Store {
	catalog := make([]domain.Question, len(questions))
	copy(catalog, questions)
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].OrderNo < catalog[j].OrderNo })
	for i := range catalog {
		options := make([]domain.Option, len(catalog[i].Options))
		copy(options, catalog[i].Options)
		sort.Slice(options, func(a, b int) bool { return options[a].ID < options[b].ID })
		catalog[i].Options = options
	}
	return &Store{
		questions: catalog,
		sessions:  make(map[string]domain.Session),
		responses: make(map[responseKey]*domain.Response),
	}
}

func (s *Store) ListQuestions(_ context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *Store) GetQuestionByOrder(_ context.Context, orderNo int) (domain.Question, error) {
	for _, q := range s.questions {
		if q.OrderNo == orderNo {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *Store) CountQuestions(_ context.Context) (int, error) {
	return len(s.questions), nil
}

func (s *Store) SessionExists(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok, nil
}

func (s *Store) CreateSession(_ context.Context, sessionID string, startedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; ok {
		return nil
	}
	s.sessions[sessionID] = domain.Session{ID: sessionID, StartedAt: startedAt}
	return nil
}

func (s *Store) GetResponse(_ context.Context, sessionID string, questionID int64) (domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.responses[responseKey{sessionID, questionID}]; ok {
		return *r, nil
	}
	return domain.Response{}, domain.ErrResponseNotFound
}

func (s *Store) UpsertResponse(_ context.Context, sessionID string, questionID int64, answerText string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := responseKey{sessionID, questionID}
	if existing, ok := s.responses[key]; ok {
		existing.AnswerText = answerText
		return existing.ID, nil
	}

	s.nextResponseID++
	s.responses[key] = &domain.Response{
		ID:         s.nextResponseID,
		SessionID:  sessionID,
		QuestionID: questionID,
		AnswerText: answerText,
	}
	return s.nextResponseID, nil
}

func (s *Store) ListResponses(_ context.Context, sessionID string) ([]domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Response
	for key, r := range s.responses {
		if key.sessionID == sessionID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}
