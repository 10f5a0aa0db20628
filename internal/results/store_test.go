package results_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightstep/induction-portal/internal/quiz"
	"github.com/brightstep/induction-portal/internal/results"
)

func record(correct bool) quiz.AnswerRecord {
	return quiz.AnswerRecord{Type: quiz.TrueFalse, Correct: correct}
}

func response(sessionID, quizID string, correct, total int) results.Response {
	var recs []quiz.AnswerRecord
	for i := 0; i < total; i++ {
		recs = append(recs, record(i < correct))
	}
	return results.Response{
		SessionID: sessionID,
		QuizID:    quizID,
		QuizTitle: "Quiz " + quizID,
		Answers:   recs,
	}
}

func TestSaveRecomputesScoreFields(t *testing.T) {
	ctx := context.Background()
	s := results.NewMemStore()

	// Claimed fields are ignored; the records decide.
	r := response("s1", "q1", 7, 10)
	r.CorrectCount = 10
	r.Percentage = 100
	r.Passed = true

	saved, err := s.Save(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	if saved.CorrectCount != 7 || saved.TotalCount != 10 {
		t.Fatalf("counts = %d/%d, want 7/10", saved.CorrectCount, saved.TotalCount)
	}
	if saved.Percentage != 70 || !saved.Passed {
		t.Fatalf("percentage=%d passed=%v, want 70/true", saved.Percentage, saved.Passed)
	}
	if saved.ID == "" || saved.SubmittedAt.IsZero() {
		t.Fatalf("missing bookkeeping: %+v", saved)
	}

	failing, err := s.Save(ctx, response("s1", "q1", 6, 10))
	if err != nil {
		t.Fatal(err)
	}
	if failing.Passed {
		t.Fatalf("60%% should not pass: %+v", failing)
	}
}

func TestGetBySessionQuizReturnsLatest(t *testing.T) {
	ctx := context.Background()
	s := results.NewMemStore()

	old := response("s1", "q1", 5, 10)
	old.SubmittedAt = time.Now().Add(-time.Hour)
	if _, err := s.Save(ctx, old); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, response("s1", "q1", 9, 10)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, response("s2", "q1", 1, 10)); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBySessionQuiz(ctx, "s1", "q1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CorrectCount != 9 {
		t.Fatalf("latest correct count = %d, want 9", got.CorrectCount)
	}

	if _, err := s.GetBySessionQuiz(ctx, "s1", "unknown"); !errors.Is(err, results.ErrResponseNotFound) {
		t.Fatalf("missing = %v, want ErrResponseNotFound", err)
	}
}

func TestStatsAggregatesPerQuiz(t *testing.T) {
	ctx := context.Background()
	s := results.NewMemStore()
	s.Save(ctx, response("s1", "q1", 10, 10)) // 100, pass
	s.Save(ctx, response("s2", "q1", 7, 10))  // 70, pass
	s.Save(ctx, response("s3", "q1", 4, 10))  // 40, fail
	s.Save(ctx, response("s1", "q2", 10, 10))

	st, err := s.Stats(ctx, "q1")
	if err != nil {
		t.Fatal(err)
	}
	if st.Attempts != 3 || st.Passed != 2 {
		t.Fatalf("attempts=%d passed=%d, want 3/2", st.Attempts, st.Passed)
	}
	if st.AverageScore != 70 {
		t.Fatalf("average = %v, want 70", st.AverageScore)
	}

	empty, err := s.Stats(ctx, "none")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Attempts != 0 || empty.AverageScore != 0 {
		t.Fatalf("empty stats = %+v", empty)
	}
}

func TestListSessionOrderAndListAllPaging(t *testing.T) {
	ctx := context.Background()
	s := results.NewMemStore()
	for i := 0; i < 5; i++ {
		r := response("s1", "q1", i, 5)
		r.SubmittedAt = time.Now().Add(time.Duration(i) * time.Minute)
		if _, err := s.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	bySession, err := s.ListBySession(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(bySession) != 5 {
		t.Fatalf("got %d, want 5", len(bySession))
	}
	for i := 1; i < len(bySession); i++ {
		if bySession[i].SubmittedAt.Before(bySession[i-1].SubmittedAt) {
			t.Fatal("session list should be oldest first")
		}
	}

	page, err := s.ListAll(ctx, results.ListOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	// ListAll is newest first.
	if page[0].SubmittedAt.Before(page[1].SubmittedAt) {
		t.Fatal("admin list should be newest first")
	}
}

func TestDeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	s := results.NewMemStore()
	saved, _ := s.Save(ctx, response("s1", "q1", 1, 2))
	s.Save(ctx, response("s2", "q1", 2, 2))

	if err := s.Delete(ctx, saved.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, saved.ID); !errors.Is(err, results.ErrResponseNotFound) {
		t.Fatalf("double delete = %v, want ErrResponseNotFound", err)
	}

	n, err := s.PurgeAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}
}
