package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already listed")
)

// Admin is one allowlisted administrator account. Emails are stored
// lowercased; lookups are case-insensitive.
type Admin struct {
	Email   string    `json:"email"`
	AddedBy string    `json:"added_by,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

type AdminDirectory interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]Admin, error)
	Add(ctx context.Context, email, addedBy string) (Admin, error)
	Remove(ctx context.Context, email string) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasAllowedDomain reports whether the email belongs to one of the given
// domains. An empty domain list allows any.
func HasAllowedDomain(email string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range domains {
		if domain == strings.ToLower(d) {
			return true
		}
	}
	return false
}

type SQLAdminDirectory struct {
	db *sql.DB
}

func NewSQLAdminDirectory(db *sql.DB) *SQLAdminDirectory {
	return &SQLAdminDirectory{db: db}
}

func (d *SQLAdminDirectory) IsAllowed(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	var one int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM admins WHERE email=$1`, email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *SQLAdminDirectory) List(ctx context.Context) ([]Admin, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT email,added_by,created_at FROM admins ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Admin
	for rows.Next() {
		var a Admin
		var createdAt int64
		if err := rows.Scan(&a.Email, &a.AddedBy, &createdAt); err != nil {
			return nil, err
		}
		a.AddedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (d *SQLAdminDirectory) Add(ctx context.Context, email, addedBy string) (Admin, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return Admin{}, errors.New("invalid email")
	}
	if ok, err := d.IsAllowed(ctx, email); err != nil {
		return Admin{}, err
	} else if ok {
		return Admin{}, ErrAdminExists
	}
	now := time.Now().UTC()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO admins (email,added_by,created_at) VALUES ($1,$2,$3)`,
		email, addedBy, now.Unix())
	if err != nil {
		return Admin{}, err
	}
	return Admin{Email: email, AddedBy: addedBy, AddedAt: now}, nil
}

func (d *SQLAdminDirectory) Remove(ctx context.Context, email string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM admins WHERE email=$1`, normalizeEmail(email))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// MemAdminDirectory is an in-memory AdminDirectory for tests.
type MemAdminDirectory struct {
	mu     sync.RWMutex
	admins map[string]Admin
}

func NewMemAdminDirectory(emails ...string) *MemAdminDirectory {
	d := &MemAdminDirectory{admins: map[string]Admin{}}
	for _, e := range emails {
		e = normalizeEmail(e)
		d.admins[e] = Admin{Email: e, AddedAt: time.Now().UTC()}
	}
	return d
}

func (d *MemAdminDirectory) IsAllowed(_ context.Context, email string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.admins[normalizeEmail(email)]
	return ok, nil
}

func (d *MemAdminDirectory) List(_ context.Context) ([]Admin, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Admin, 0, len(d.admins))
	for _, a := range d.admins {
		out = append(out, a)
	}
	return out, nil
}

func (d *MemAdminDirectory) Add(_ context.Context, email, addedBy string) (Admin, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return Admin{}, errors.New("invalid email")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.admins[email]; ok {
		return Admin{}, ErrAdminExists
	}
	a := Admin{Email: email, AddedBy: addedBy, AddedAt: time.Now().UTC()}
	d.admins[email] = a
	return a, nil
}

func (d *MemAdminDirectory) Remove(_ context.Context, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	email = normalizeEmail(email)
	if _, ok := d.admins[email]; !ok {
		return ErrAdminNotFound
	}
	delete(d.admins, email)
	return nil
}
