package results

import (
	"context"
	"encoding/json"
	"log"

	"github.com/brightstep/induction-portal/internal/quiz"
	syncx "github.com/brightstep/induction-portal/internal/sync"
)

// EventAppender is satisfied by syncx.EventRepo.
type EventAppender interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Sink persists completed attempts and records a SubmissionStored event.
// It is the quiz engine's submission target.
type Sink struct {
	store  Store
	events EventAppender
}

func NewSink(store Store, events EventAppender) *Sink {
	return &Sink{store: store, events: events}
}

func (s *Sink) SaveResult(ctx context.Context, sub quiz.Submission) error {
	saved, err := s.store.Save(ctx, Response{
		SessionID:      sub.SessionID,
		QuizID:         sub.QuizID,
		QuizTitle:      sub.QuizTitle,
		Answers:        sub.Answers,
		ElapsedSeconds: sub.ElapsedSeconds,
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		data, _ := json.Marshal(map[string]interface{}{
			"response_id": saved.ID,
			"session_id":  saved.SessionID,
			"quiz_id":     saved.QuizID,
			"percentage":  saved.Percentage,
			"passed":      saved.Passed,
		})
		ev := syncx.Event{Type: "SubmissionStored", Key: saved.ID, DataJSON: string(data)}
		if err := s.events.Append(ctx, ev); err != nil {
			// The response is already stored; the event log is advisory.
			log.Printf("results: event append failed: %v", err)
		}
	}
	return nil
}
