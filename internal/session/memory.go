package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	required []string
}

func NewMemStore(requiredModules []string) *MemStore {
	return &MemStore{sessions: map[string]Session{}, required: requiredModules}
}

func (m *MemStore) Create(_ context.Context, metadata map[string]string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  metadata,
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *MemStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemStore) UpdateMetadata(_ context.Context, id string, metadata map[string]string) (Session, error) {
	return m.mutate(id, func(sess *Session) {
		if sess.Metadata == nil {
			sess.Metadata = map[string]string{}
		}
		for k, v := range metadata {
			sess.Metadata[k] = v
		}
	})
}

func (m *MemStore) MarkVideoWatched(_ context.Context, id, video string) (Session, error) {
	return m.mutate(id, func(sess *Session) {
		sess.VideosWatched, _ = appendUnique(sess.VideosWatched, video)
	})
}

func (m *MemStore) CompleteModule(_ context.Context, id, module string) (Session, error) {
	return m.mutate(id, func(sess *Session) {
		sess.ModulesCompleted, _ = appendUnique(sess.ModulesCompleted, module)
	})
}

func (m *MemStore) RecordQuizCompletion(_ context.Context, id, quizID string, score int, passed bool) (Session, error) {
	return m.mutate(id, func(sess *Session) {
		sess.Quizzes = recordCompletion(sess.Quizzes, quizID, score, passed, time.Now().UTC())
	})
}

func (m *MemStore) mutate(id string, apply func(*Session)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	apply(&sess)
	sess.Percent = percent(m.required, sess.ModulesCompleted)
	sess.UpdatedAt = time.Now().UTC()
	m.sessions[id] = sess
	return sess, nil
}

func (m *MemStore) List(_ context.Context, opts ListOpts) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Session
	for _, sess := range m.sessions {
		if !opts.From.IsZero() && sess.CreatedAt.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && sess.CreatedAt.After(opts.To) {
			continue
		}
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var st Stats
	weekAgo := time.Now().AddDate(0, 0, -7)
	sum := 0
	for _, sess := range m.sessions {
		st.Total++
		if sess.Percent >= 100 {
			st.Completed++
		}
		if sess.CreatedAt.After(weekAgo) {
			st.CreatedLastWeek++
		}
		sum += sess.Percent
	}
	if st.Total > 0 {
		st.AveragePercent = float64(sum) / float64(st.Total)
	}
	return st, nil
}

func (m *MemStore) PurgeAll(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.sessions)
	m.sessions = map[string]Session{}
	return n, nil
}
