package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db       *sql.DB
	driver   string // "sqlite" or "postgres"
	required []string
}

// NewSQLStore builds a store deriving progress from the given required
// module ids.
func NewSQLStore(db *sql.DB, driver string, requiredModules []string) *SQLStore {
	return &SQLStore{db: db, driver: driver, required: requiredModules}
}

func (s *SQLStore) Create(ctx context.Context, metadata map[string]string) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  metadata,
	}
	vj, mj, qj, metaj, err := marshalLists(sess)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id,created_at,updated_at,videos_json,modules_json,quizzes_json,percent,metadata_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sess.ID, now.Unix(), now.Unix(), vj, mj, qj, 0, metaj)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

const sessionCols = `id,created_at,updated_at,videos_json,modules_json,quizzes_json,percent,metadata_json`

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM sessions WHERE id=$1`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return sess, err
}

func (s *SQLStore) UpdateMetadata(ctx context.Context, id string, metadata map[string]string) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) {
		if sess.Metadata == nil {
			sess.Metadata = map[string]string{}
		}
		for k, v := range metadata {
			sess.Metadata[k] = v
		}
	})
}

func (s *SQLStore) MarkVideoWatched(ctx context.Context, id, video string) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) {
		sess.VideosWatched, _ = appendUnique(sess.VideosWatched, video)
	})
}

func (s *SQLStore) CompleteModule(ctx context.Context, id, module string) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) {
		sess.ModulesCompleted, _ = appendUnique(sess.ModulesCompleted, module)
	})
}

func (s *SQLStore) RecordQuizCompletion(ctx context.Context, id, quizID string, score int, passed bool) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) {
		sess.Quizzes = recordCompletion(sess.Quizzes, quizID, score, passed, time.Now().UTC())
	})
}

func (s *SQLStore) mutate(ctx context.Context, id string, apply func(*Session)) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	apply(&sess)
	sess.Percent = percent(s.required, sess.ModulesCompleted)
	sess.UpdatedAt = time.Now().UTC()

	vj, mj, qj, metaj, err := marshalLists(sess)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at=$1, videos_json=$2, modules_json=$3, quizzes_json=$4, percent=$5, metadata_json=$6
		 WHERE id=$7`,
		sess.UpdatedAt.Unix(), vj, mj, qj, sess.Percent, metaj, id)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Session, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	from := int64(0)
	if !opts.From.IsZero() {
		from = opts.From.Unix()
	}
	to := time.Now().Unix()
	if !opts.To.IsZero() {
		to = opts.To.Unix()
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM sessions
		 WHERE created_at >= $1 AND created_at <= $2
		 ORDER BY created_at DESC LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	weekAgo := time.Now().AddDate(0, 0, -7).Unix()
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN percent >= 100 THEN 1 ELSE 0 END),0),
		        COALESCE(AVG(percent),0),
		        COALESCE(SUM(CASE WHEN created_at >= $1 THEN 1 ELSE 0 END),0)
		 FROM sessions`, weekAgo)
	if err := row.Scan(&st.Total, &st.Completed, &st.AveragePercent, &st.CreatedLastWeek); err != nil {
		return Stats{}, err
	}
	return st, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLStore) PurgeAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func scanSession(row rowScanner) (Session, error) {
	var sess Session
	var createdAt, updatedAt int64
	var vj, mj, qj, metaj string
	if err := row.Scan(&sess.ID, &createdAt, &updatedAt, &vj, &mj, &qj, &sess.Percent, &metaj); err != nil {
		return Session{}, err
	}
	sess.CreatedAt = time.Unix(createdAt, 0).UTC()
	sess.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	json.Unmarshal([]byte(vj), &sess.VideosWatched)
	json.Unmarshal([]byte(mj), &sess.ModulesCompleted)
	json.Unmarshal([]byte(qj), &sess.Quizzes)
	json.Unmarshal([]byte(metaj), &sess.Metadata)
	return sess, nil
}

func marshalLists(sess Session) (videos, modules, quizzes, metadata string, err error) {
	vj, err := json.Marshal(orEmpty(sess.VideosWatched))
	if err != nil {
		return "", "", "", "", err
	}
	mj, err := json.Marshal(orEmpty(sess.ModulesCompleted))
	if err != nil {
		return "", "", "", "", err
	}
	qs := sess.Quizzes
	if qs == nil {
		qs = []QuizCompletion{}
	}
	qj, err := json.Marshal(qs)
	if err != nil {
		return "", "", "", "", err
	}
	meta := sess.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	metaj, err := json.Marshal(meta)
	if err != nil {
		return "", "", "", "", err
	}
	return string(vj), string(mj), string(qj), string(metaj), nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
