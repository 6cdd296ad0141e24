package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-session-service/internal/domain"
)

// Store implements the engine's repositories on Postgres. The unique index on
// responses (session_id, question_id) backs the upsert: concurrent submissions
// for the same pair serialize on ON CONFLICT instead of creating duplicates.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, order_no, text, type, COALESCE(correct_answer, '')
		 FROM questions ORDER BY order_no`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	index := make(map[int64]int)
	for rows.Next() {
		var q domain.Question
		var qtype string
		if err := rows.Scan(&q.ID, &q.OrderNo, &q.Text, &qtype, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = domain.QuestionType(qtype)
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	optRows, err := s.pool.Query(ctx,
		`SELECT id, question_id, text FROM question_options ORDER BY question_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o domain.Option
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.Text); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		if i, ok := index[o.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	return questions, nil
}

func (s *Store) GetQuestionByOrder(ctx context.Context, orderNo int) (domain.Question, error) {
	var q domain.Question
	var qtype string
	err := s.pool.QueryRow(ctx,
		`SELECT id, order_no, text, type, COALESCE(correct_answer, '')
		 FROM questions WHERE order_no=$1`, orderNo).
		Scan(&q.ID, &q.OrderNo, &q.Text, &qtype, &q.CorrectAnswer)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question by order: %w", err)
	}
	q.Type = domain.QuestionType(qtype)

	rows, err := s.pool.Query(ctx,
		`SELECT id, question_id, text FROM question_options WHERE question_id=$1 ORDER BY id`, q.ID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text); err != nil {
			return domain.Question{}, fmt.Errorf("scan option: %w", err)
		}
		q.Options = append(q.Options, o)
	}
	if err := rows.Err(); err != nil {
		return domain.Question{}, fmt.Errorf("get question options: %w", err)
	}
	return q, nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (s *Store) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE id=$1)`, sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return exists, nil
}

func (s *Store) CreateSession(ctx context.Context, sessionID string, startedAt time.Time) error {
	// ON CONFLICT DO NOTHING makes concurrent lazy creation idempotent.
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, started_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		sessionID, startedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) GetResponse(ctx context.Context, sessionID string, questionID int64) (domain.Response, error) {
	var r domain.Response
	err := s.pool.QueryRow(ctx,
		`SELECT id, session_id, question_id, answer_text
		 FROM responses WHERE session_id=$1 AND question_id=$2`, sessionID, questionID).
		Scan(&r.ID, &r.SessionID, &r.QuestionID, &r.AnswerText)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Response{}, domain.ErrResponseNotFound
	}
	if err != nil {
		return domain.Response{}, fmt.Errorf("get response: %w", err)
	}
	return r, nil
}

func (s *Store) UpsertResponse(ctx context.Context, sessionID string, questionID int64, answerText string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO responses (session_id, question_id, answer_text)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id, question_id)
		 DO UPDATE SET answer_text = EXCLUDED.answer_text
		 RETURNING id`,
		sessionID, questionID, answerText).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert response: %w", err)
	}
	return id, nil
}

func (s *Store) ListResponses(ctx context.Context, sessionID string) ([]domain.Response, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, question_id, answer_text
		 FROM responses WHERE session_id=$1 ORDER BY question_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []domain.Response
	for rows.Next() {
		var r domain.Response
		if err := rows.Scan(&r.ID, &r.SessionID, &r.QuestionID, &r.AnswerText); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return out, nil
}
