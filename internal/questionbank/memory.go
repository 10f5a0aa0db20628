package questionbank

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightstep/induction-portal/internal/quiz"
)

// MemStore is an in-memory Store for tests and single-process demos.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemStore() *MemStore {
	return &MemStore{entries: map[string]Entry{}}
}

func (m *MemStore) ListActive(_ context.Context, quizID string) ([]quiz.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []quiz.Question
	for _, e := range m.entries {
		if e.QuizID == quizID && e.Active {
			out = append(out, e.Question)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemStore) ListAll(_ context.Context, quizID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Entry
	for _, e := range m.entries {
		if e.QuizID == quizID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemStore) Get(_ context.Context, id string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, ErrQuestionNotFound
	}
	return e, nil
}

func (m *MemStore) Create(_ context.Context, e Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Position == 0 {
		max := 0
		for _, cur := range m.entries {
			if cur.QuizID == e.QuizID && cur.Position > max {
				max = cur.Position
			}
		}
		e.Position = max + 1
	}
	e.Active = true
	e.CreatedAt = time.Now().UTC()
	m.entries[e.ID] = e
	return e, nil
}

func (m *MemStore) Update(_ context.Context, e Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.entries[e.ID]
	if !ok {
		return Entry{}, ErrQuestionNotFound
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
	m.entries[e.ID] = e
	return e, nil
}

func (m *MemStore) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return ErrQuestionNotFound
	}
	e.Active = false
	m.entries[id] = e
	return nil
}

func (m *MemStore) Quizzes(_ context.Context) ([]QuizInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byQuiz := map[string]*QuizInfo{}
	for _, e := range m.entries {
		if !e.Active {
			continue
		}
		qi, ok := byQuiz[e.QuizID]
		if !ok {
			qi = &QuizInfo{ID: e.QuizID, Title: e.QuizTitle}
			byQuiz[e.QuizID] = qi
		}
		qi.Questions++
		if qi.Title == "" {
			qi.Title = e.QuizTitle
		}
	}
	out := make([]QuizInfo, 0, len(byQuiz))
	for _, qi := range byQuiz {
		out = append(out, *qi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) Quiz(ctx context.Context, quizID string) (QuizInfo, error) {
	all, err := m.Quizzes(ctx)
	if err != nil {
		return QuizInfo{}, err
	}
	for _, qi := range all {
		if qi.ID == quizID {
			return qi, nil
		}
	}
	return QuizInfo{}, ErrQuizNotFound
}
