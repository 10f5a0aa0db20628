package results

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu        sync.RWMutex
	responses map[string]Response
}

func NewMemStore() *MemStore {
	return &MemStore{responses: map[string]Response{}}
}

func (m *MemStore) Save(_ context.Context, r Response) (Response, error) {
	rescore(&r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	m.responses[r.ID] = r
	return r, nil
}

func (m *MemStore) ListBySession(_ context.Context, sessionID string) ([]Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Response
	for _, r := range m.responses {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (m *MemStore) GetBySessionQuiz(_ context.Context, sessionID, quizID string) (Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest Response
	found := false
	for _, r := range m.responses {
		if r.SessionID != sessionID || r.QuizID != quizID {
			continue
		}
		if !found || r.SubmittedAt.After(latest.SubmittedAt) {
			latest = r
			found = true
		}
	}
	if !found {
		return Response{}, ErrResponseNotFound
	}
	return latest, nil
}

func (m *MemStore) Stats(_ context.Context, quizID string) (QuizStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := QuizStats{QuizID: quizID}
	sum := 0
	for _, r := range m.responses {
		if r.QuizID != quizID {
			continue
		}
		st.Attempts++
		if r.Passed {
			st.Passed++
		}
		sum += r.Percentage
		if st.QuizTitle == "" {
			st.QuizTitle = r.QuizTitle
		}
	}
	if st.Attempts > 0 {
		st.AverageScore = float64(sum) / float64(st.Attempts)
	}
	return st, nil
}

func (m *MemStore) ListAll(_ context.Context, opts ListOpts) ([]Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]Response, 0, len(m.responses))
	for _, r := range m.responses {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })

	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.responses[id]; !ok {
		return ErrResponseNotFound
	}
	delete(m.responses, id)
	return nil
}

func (m *MemStore) PurgeAll(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.responses)
	m.responses = map[string]Response{}
	return n, nil
}
