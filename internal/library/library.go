package library

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrUnknownType      = errors.New("unknown document type")
)

// DocType classifies a library entry. Link entries point at external
// resources; the rest are downloadable files.
type DocType string

const (
	TypePDF   DocType = "pdf"
	TypeDocx  DocType = "docx"
	TypeXlsx  DocType = "xlsx"
	TypePptx  DocType = "pptx"
	TypeLink  DocType = "link"
	TypeOther DocType = "other"
)

func (t DocType) Valid() bool {
	switch t {
	case TypePDF, TypeDocx, TypeXlsx, TypePptx, TypeLink, TypeOther:
		return true
	}
	return false
}

type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	Type        DocType   `json:"type"`
	Description string    `json:"description,omitempty"`
	Position    int       `json:"position"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store interface {
	// ListActive returns visible documents in position order.
	ListActive(ctx context.Context) ([]Document, error)
	ListAll(ctx context.Context) ([]Document, error)
	Get(ctx context.Context, id string) (Document, error)
	// Create appends the document at the end of the list.
	Create(ctx context.Context, d Document) (Document, error)
	Update(ctx context.Context, d Document) (Document, error)
	Delete(ctx context.Context, id string) error
	// Reorder rewrites positions to match the given id order. Every id
	// must exist; documents not listed keep their position.
	Reorder(ctx context.Context, ids []string) error
}

func validate(d Document) error {
	if d.Name == "" {
		return errors.New("document name is required")
	}
	if d.Link == "" {
		return errors.New("document link is required")
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
	return nil
}
