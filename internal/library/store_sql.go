package library

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

const docCols = `id,name,link,doc_type,description,position,active,created_at`

func (s *SQLStore) ListActive(ctx context.Context) ([]Document, error) {
	return s.list(ctx, `SELECT `+docCols+` FROM documents WHERE active=1 ORDER BY position`)
}

func (s *SQLStore) ListAll(ctx context.Context) ([]Document, error) {
	return s.list(ctx, `SELECT `+docCols+` FROM documents ORDER BY position`)
}

func (s *SQLStore) list(ctx context.Context, query string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+docCols+` FROM documents WHERE id=$1`, id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrDocumentNotFound
	}
	return d, err
}

func (s *SQLStore) Create(ctx context.Context, d Document) (Document, error) {
	if err := validate(d); err != nil {
		return Document{}, err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	var next int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position),0)+1 FROM documents`).Scan(&next); err != nil {
		return Document{}, err
	}
	d.Position = next
	d.Active = true
	d.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id,name,link,doc_type,description,position,active,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,1,$7)`,
		d.ID, d.Name, d.Link, string(d.Type), d.Description, d.Position, d.CreatedAt.Unix())
	if err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *SQLStore) Update(ctx context.Context, d Document) (Document, error) {
	cur, err := s.Get(ctx, d.ID)
	if err != nil {
		return Document{}, err
	}
	if d.Name == "" {
		d.Name = cur.Name
	}
	if d.Link == "" {
		d.Link = cur.Link
	}
	if d.Type == "" {
		d.Type = cur.Type
	}
	if d.Position == 0 {
		d.Position = cur.Position
	}
	d.CreatedAt = cur.CreatedAt
	if err := validate(d); err != nil {
		return Document{}, err
	}
	active := 0
	if d.Active {
		active = 1
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE documents SET name=$1, link=$2, doc_type=$3, description=$4, position=$5, active=$6 WHERE id=$7`,
		d.Name, d.Link, string(d.Type), d.Description, d.Position, active, d.ID)
	if err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *SQLStore) Reorder(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range ids {
		res, err := tx.ExecContext(ctx, `UPDATE documents SET position=$1 WHERE id=$2`, i+1, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrDocumentNotFound
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (Document, error) {
	var d Document
	var docType string
	var active int
	var createdAt int64
	if err := row.Scan(&d.ID, &d.Name, &d.Link, &docType, &d.Description, &d.Position, &active, &createdAt); err != nil {
		return Document{}, err
	}
	d.Type = DocType(docType)
	d.Active = active != 0
	d.CreatedAt = time.Unix(createdAt, 0).UTC()
	return d, nil
}
