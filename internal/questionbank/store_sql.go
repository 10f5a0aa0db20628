package questionbank

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

func (s *SQLStore) ListActive(ctx context.Context, quizID string) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_json FROM questions WHERE quiz_id=$1 AND active=1 ORDER BY position`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		var qjson string
		if err := rows.Scan(&qjson); err != nil {
			return nil, err
		}
		var q quiz.Question
		if err := json.Unmarshal([]byte(qjson), &q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListAll(ctx context.Context, quizID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,quiz_id,quiz_title,active,created_at,question_json
		 FROM questions WHERE quiz_id=$1 ORDER BY position`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,quiz_title,active,created_at,question_json FROM questions WHERE id=$1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrQuestionNotFound
	}
	return e, err
}

func (s *SQLStore) Create(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Position == 0 {
		var next int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position),0)+1 FROM questions WHERE quiz_id=$1`, e.QuizID).Scan(&next); err != nil {
			return Entry{}, err
		}
		e.Position = next
	}
	e.Active = true
	e.CreatedAt = time.Now().UTC()

	qj, err := json.Marshal(e.Question)
	if err != nil {
		return Entry{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id,quiz_id,quiz_title,position,qtype,active,created_at,question_json)
		 VALUES ($1,$2,$3,$4,$5,1,$6,$7)`,
		e.ID, e.QuizID, e.QuizTitle, e.Position, string(e.Type), e.CreatedAt.Unix(), string(qj))
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *SQLStore) Update(ctx context.Context, e Entry) (Entry, error) {
	cur, err := s.Get(ctx, e.ID)
	if err != nil {
		return Entry{}, err
	}
	if e.QuizID == "" {
		e.QuizID = cur.QuizID
	}
	if e.QuizTitle == "" {
		e.QuizTitle = cur.QuizTitle
	}
	if e.Position == 0 {
		e.Position = cur.Position
	}
	e.Active = cur.Active
	e.CreatedAt = cur.CreatedAt

	qj, err := json.Marshal(e.Question)
	if err != nil {
		return Entry{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE questions SET quiz_id=$1, quiz_title=$2, position=$3, qtype=$4, question_json=$5 WHERE id=$6`,
		e.QuizID, e.QuizTitle, e.Position, string(e.Type), string(qj), e.ID)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *SQLStore) Deactivate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE questions SET active=0 WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (s *SQLStore) Quizzes(ctx context.Context) ([]QuizInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT quiz_id, MAX(quiz_title), COUNT(*) FROM questions
		 WHERE active=1 GROUP BY quiz_id ORDER BY quiz_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuizInfo
	for rows.Next() {
		var qi QuizInfo
		if err := rows.Scan(&qi.ID, &qi.Title, &qi.Questions); err != nil {
			return nil, err
		}
		out = append(out, qi)
	}
	return out, rows.Err()
}

func (s *SQLStore) Quiz(ctx context.Context, quizID string) (QuizInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT quiz_id, MAX(quiz_title), COUNT(*) FROM questions
		 WHERE quiz_id=$1 AND active=1 GROUP BY quiz_id`, quizID)
	var qi QuizInfo
	if err := row.Scan(&qi.ID, &qi.Title, &qi.Questions); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QuizInfo{}, ErrQuizNotFound
		}
		return QuizInfo{}, err
	}
	return qi, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var active int
	var createdAt int64
	var qjson string
	if err := row.Scan(&e.ID, &e.QuizID, &e.QuizTitle, &active, &createdAt, &qjson); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Question); err != nil {
		return Entry{}, err
	}
	e.Active = active != 0
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return e, nil
}
