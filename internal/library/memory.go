package library

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemStore() *MemStore {
	return &MemStore{docs: map[string]Document{}}
}

func (m *MemStore) ListActive(_ context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Document
	for _, d := range m.docs {
		if d.Active {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemStore) ListAll(_ context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Document, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemStore) Get(_ context.Context, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return Document{}, ErrDocumentNotFound
	}
	return d, nil
}

func (m *MemStore) Create(_ context.Context, d Document) (Document, error) {
	if err := validate(d); err != nil {
		return Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	max := 0
	for _, cur := range m.docs {
		if cur.Position > max {
			max = cur.Position
		}
	}
	d.Position = max + 1
	d.Active = true
	d.CreatedAt = time.Now().UTC()
	m.docs[d.ID] = d
	return d, nil
}

func (m *MemStore) Update(_ context.Context, d Document) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.docs[d.ID]
	if !ok {
		return Document{}, ErrDocumentNotFound
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
	m.docs[d.ID] = d
	return d, nil
}

func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *MemStore) Reorder(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if _, ok := m.docs[id]; !ok {
			return ErrDocumentNotFound
		}
	}
	for i, id := range ids {
		d := m.docs[id]
		d.Position = i + 1
		m.docs[id] = d
	}
	return nil
}
