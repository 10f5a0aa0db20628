package results_test

import (
	"context"
	"testing"

	"github.com/brightstep/induction-portal/internal/quiz"
	"github.com/brightstep/induction-portal/internal/results"
	syncx "github.com/brightstep/induction-portal/internal/sync"
)

type memEvents struct {
	events []syncx.Event
}

func (m *memEvents) Append(_ context.Context, e syncx.Event) error {
	m.events = append(m.events, e)
	return nil
}

func TestSinkStoresSubmissionAndAppendsEvent(t *testing.T) {
	ctx := context.Background()
	store := results.NewMemStore()
	events := &memEvents{}
	sink := results.NewSink(store, events)

	sub := quiz.Submission{
		SessionID: "s1",
		QuizID:    "q1",
		QuizTitle: "Quiz One",
		Answers: []quiz.AnswerRecord{
			{Position: 1, Type: quiz.TrueFalse, Correct: true},
			{Position: 2, Type: quiz.TrueFalse, Correct: false},
		},
		ElapsedSeconds: 42,
	}
	if err := sink.SaveResult(ctx, sub); err != nil {
		t.Fatal(err)
	}

	stored, err := store.GetBySessionQuiz(ctx, "s1", "q1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.CorrectCount != 1 || stored.TotalCount != 2 || stored.Percentage != 50 {
		t.Fatalf("stored score = %+v", stored)
	}
	if stored.ElapsedSeconds != 42 {
		t.Fatalf("elapsed = %d", stored.ElapsedSeconds)
	}

	if len(events.events) != 1 {
		t.Fatalf("got %d events, want 1", len(events.events))
	}
	if events.events[0].Type != "SubmissionStored" || events.events[0].Key != stored.ID {
		t.Fatalf("event = %+v", events.events[0])
	}
}
