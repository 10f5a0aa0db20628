package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brightstep/induction-portal/internal/quiz"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Save(ctx context.Context, r Response) (Response, error) {
	rescore(&r)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	aj, err := json.Marshal(r.Answers)
	if err != nil {
		return Response{}, err
	}
	passed := 0
	if r.Passed {
		passed = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_responses
		 (id,session_id,quiz_id,quiz_title,answers_json,correct_count,total_count,percentage,passed,elapsed_seconds,submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.ID, r.SessionID, r.QuizID, r.QuizTitle, string(aj),
		r.CorrectCount, r.TotalCount, r.Percentage, passed, r.ElapsedSeconds, r.SubmittedAt.Unix())
	if err != nil {
		return Response{}, err
	}
	return r, nil
}

const responseCols = `id,session_id,quiz_id,quiz_title,answers_json,correct_count,total_count,percentage,passed,elapsed_seconds,submitted_at`

func (s *SQLStore) ListBySession(ctx context.Context, sessionID string) ([]Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responseCols+` FROM quiz_responses WHERE session_id=$1 ORDER BY submitted_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponses(rows)
}

func (s *SQLStore) GetBySessionQuiz(ctx context.Context, sessionID, quizID string) (Response, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+responseCols+` FROM quiz_responses
		 WHERE session_id=$1 AND quiz_id=$2 ORDER BY submitted_at DESC LIMIT 1`, sessionID, quizID)
	r, err := scanResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Response{}, ErrResponseNotFound
	}
	return r, err
}

func (s *SQLStore) Stats(ctx context.Context, quizID string) (QuizStats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT quiz_id, MAX(quiz_title), COUNT(*), COALESCE(SUM(passed),0), COALESCE(AVG(percentage),0)
		 FROM quiz_responses WHERE quiz_id=$1 GROUP BY quiz_id`, quizID)
	var st QuizStats
	if err := row.Scan(&st.QuizID, &st.QuizTitle, &st.Attempts, &st.Passed, &st.AverageScore); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QuizStats{QuizID: quizID}, nil
		}
		return QuizStats{}, err
	}
	return st, nil
}

func (s *SQLStore) ListAll(ctx context.Context, opts ListOpts) ([]Response, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responseCols+` FROM quiz_responses ORDER BY submitted_at DESC LIMIT $1 OFFSET $2`,
		limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponses(rows)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quiz_responses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrResponseNotFound
	}
	return nil
}

func (s *SQLStore) PurgeAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quiz_responses`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResponse(row rowScanner) (Response, error) {
	var r Response
	var ajson string
	var passed int
	var submittedAt int64
	if err := row.Scan(&r.ID, &r.SessionID, &r.QuizID, &r.QuizTitle, &ajson,
		&r.CorrectCount, &r.TotalCount, &r.Percentage, &passed, &r.ElapsedSeconds, &submittedAt); err != nil {
		return Response{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &r.Answers); err != nil {
		r.Answers = []quiz.AnswerRecord{}
	}
	r.Passed = passed != 0
	r.SubmittedAt = time.Unix(submittedAt, 0).UTC()
	return r, nil
}

func collectResponses(rows *sql.Rows) ([]Response, error) {
	var out []Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
