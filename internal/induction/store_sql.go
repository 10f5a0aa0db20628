package induction

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// configKey is the id of the single settings row.
const configKey = "general"

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Get(ctx context.Context) (Config, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT title, video_url, description, updated_at FROM induction_config WHERE id=$1`,
		configKey)
	var c Config
	var updatedAt int64
	err := row.Scan(&c.Title, &c.VideoURL, &c.Description, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	c.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return c, nil
}

func (s *SQLStore) Put(ctx context.Context, c Config) (Config, error) {
	if err := validate(&c); err != nil {
		return Config{}, err
	}
	c.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE induction_config SET title=$1, video_url=$2, description=$3, updated_at=$4 WHERE id=$5`,
		c.Title, c.VideoURL, c.Description, c.UpdatedAt.Unix(), configKey)
	if err != nil {
		return Config{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO induction_config (id, title, video_url, description, updated_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			configKey, c.Title, c.VideoURL, c.Description, c.UpdatedAt.Unix())
		if err != nil {
			return Config{}, err
		}
	}
	return c, nil
}
