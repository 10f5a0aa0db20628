package quiz_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/brightstep/induction-portal/internal/quiz"
)

type fakeSink struct {
	mu    sync.Mutex
	calls int
	err   error
	last  quiz.Submission
}

func (s *fakeSink) SaveResult(_ context.Context, sub quiz.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = sub
	return s.err
}

func (s *fakeSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func threeQuestionQuiz() []quiz.Question {
	return []quiz.Question{
		{
			ID: "q1", Position: 1, Type: quiz.SingleChoice, Prompt: "one",
			Options: []quiz.Option{{ID: "a", Text: "A", Correct: true}, {ID: "b", Text: "B"}},
		},
		{
			ID: "q2", Position: 2, Type: quiz.SingleChoice, Prompt: "two",
			Options: []quiz.Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B", Correct: true}},
		},
		{
			ID: "q3", Position: 3, Type: quiz.SingleChoice, Prompt: "three",
			Options: []quiz.Option{{ID: "a", Text: "A", Correct: true}, {ID: "b", Text: "B"}},
		},
	}
}

func TestNewAttemptRejectsEmptyQuiz(t *testing.T) {
	_, err := quiz.NewAttempt("quiz-1", "Quiz", "sess", nil, &fakeSink{})
	if !errors.Is(err, quiz.ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
}

func TestAttemptSnapshotsInPositionOrder(t *testing.T) {
	qs := threeQuestionQuiz()
	// Shuffle positions: the loader may return any order.
	shuffled := []quiz.Question{qs[2], qs[0], qs[1]}
	a, err := quiz.NewAttempt("quiz-1", "Quiz", "sess", shuffled, &fakeSink{})
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Current().ID; got != "q1" {
		t.Fatalf("first question = %s, want q1", got)
	}
}

// Answers Q1 correct, Q2 wrong then corrected, Q3 correct. The wrong attempt
// on Q2 must not advance, and the final score is a full pass.
func TestAttemptWrongAnswerBlocksThenCorrectionAdvances(t *testing.T) {
	sink := &fakeSink{}
	a, err := quiz.NewAttempt("quiz-1", "Quiz", "sess", threeQuestionQuiz(), sink)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	mustAnswer(t, a, "q1", quiz.OptionAnswer("a"))
	step, _ := a.VerifyAndAdvance(ctx)
	if !step.Advanced || step.Verification != quiz.Correct {
		t.Fatalf("q1 step = %+v, want advanced correct", step)
	}

	mustAnswer(t, a, "q2", quiz.OptionAnswer("a")) // wrong
	step, _ = a.VerifyAndAdvance(ctx)
	if step.Advanced {
		t.Fatal("wrong answer must not advance")
	}
	if step.Verification != quiz.Incorrect {
		t.Fatalf("verification = %v, want incorrect", step.Verification)
	}
	if a.Index() != 1 {
		t.Fatalf("index = %d, want 1", a.Index())
	}

	mustAnswer(t, a, "q2", quiz.OptionAnswer("b")) // corrected
	if got := a.Verification("q2"); got != quiz.Unverified {
		t.Fatalf("changing the answer must reset verification, got %v", got)
	}
	step, _ = a.VerifyAndAdvance(ctx)
	if !step.Advanced {
		t.Fatal("corrected answer should advance")
	}

	mustAnswer(t, a, "q3", quiz.OptionAnswer("a"))
	step, _ = a.VerifyAndAdvance(ctx)
	if !step.Finished {
		t.Fatal("last question should finish the attempt")
	}
	want := quiz.ScoreResult{CorrectCount: 3, TotalCount: 3, Percentage: 100, Passed: true}
	if *step.Score != want {
		t.Fatalf("score = %+v, want %+v", *step.Score, want)
	}
	if sink.callCount() != 1 {
		t.Fatalf("sink calls = %d, want 1", sink.callCount())
	}
	if a.State() != quiz.StateFinished {
		t.Fatalf("state = %v, want finished", a.State())
	}
}

func TestAttemptIncompleteDoesNotAdvance(t *testing.T) {
	a, _ := quiz.NewAttempt("quiz-1", "Quiz", "sess", threeQuestionQuiz(), &fakeSink{})
	step, _ := a.VerifyAndAdvance(context.Background())
	if step.Advanced {
		t.Fatal("unanswered question must not advance")
	}
	if step.Verification != quiz.Incomplete {
		t.Fatalf("verification = %v, want incomplete", step.Verification)
	}
}

func TestAttemptPreviousStopsAtFirst(t *testing.T) {
	a, _ := quiz.NewAttempt("quiz-1", "Quiz", "sess", threeQuestionQuiz(), &fakeSink{})
	a.Previous()
	if a.Index() != 0 {
		t.Fatalf("index = %d, want 0", a.Index())
	}
	mustAnswer(t, a, "q1", quiz.OptionAnswer("a"))
	if _, err := a.VerifyAndAdvance(context.Background()); err != nil {
		t.Fatal(err)
	}
	a.Previous()
	if a.Index() != 0 {
		t.Fatalf("index after back = %d, want 0", a.Index())
	}
}

func TestUnscoredQuestionsGateOnCompletenessOnly(t *testing.T) {
	qs := []quiz.Question{
		{ID: "q1", Position: 1, Type: quiz.Likert, Prompt: "rate", ScaleMin: 1, ScaleMax: 5},
		{ID: "q2", Position: 2, Type: quiz.FreeText, Prompt: "explain", MinLength: 20},
	}
	sink := &fakeSink{}
	a, _ := quiz.NewAttempt("quiz-1", "Quiz", "sess", qs, sink)
	ctx := context.Background()

	mustAnswer(t, a, "q1", quiz.ScaleAnswer(4))
	step, _ := a.VerifyAndAdvance(ctx)
	if !step.Advanced || step.Verification != quiz.Unverified {
		t.Fatalf("likert step = %+v, want silent advance", step)
	}

	mustAnswer(t, a, "q2", quiz.TextAnswer("too short"))
	step, _ = a.VerifyAndAdvance(ctx)
	if step.Verification != quiz.Incomplete {
		t.Fatalf("short text = %v, want incomplete", step.Verification)
	}

	mustAnswer(t, a, "q2", quiz.TextAnswer("this answer is definitely long enough"))
	step, _ = a.VerifyAndAdvance(ctx)
	if !step.Finished {
		t.Fatal("complete free text on last question should finish")
	}
	// Unscored questions count as correct for scoring purposes.
	if !step.Score.Passed || step.Score.CorrectCount != 2 {
		t.Fatalf("score = %+v, want 2/2 pass", *step.Score)
	}
}

// After Restart, the score of a freshly answered attempt must be independent
// of anything recorded before.
func TestRestartClearsAllState(t *testing.T) {
	sink := &fakeSink{}
	a, _ := quiz.NewAttempt("quiz-1", "Quiz", "sess", threeQuestionQuiz(), sink)
	ctx := context.Background()

	for _, step := range []struct{ id, opt string }{{"q1", "a"}, {"q2", "b"}, {"q3", "a"}} {
		mustAnswer(t, a, step.id, quiz.OptionAnswer(step.opt))
		if _, err := a.VerifyAndAdvance(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if sink.callCount() != 1 {
		t.Fatalf("sink calls = %d, want 1", sink.callCount())
	}

	a.Restart()
	if a.Index() != 0 || a.State() != quiz.StateReady {
		t.Fatalf("restart left index=%d state=%v", a.Index(), a.State())
	}
	got := a.Score()
	if got.CorrectCount != 0 {
		t.Fatalf("score after restart = %+v, want zero correct", got)
	}

	// A second full run submits again: the latch was cleared.
	mustAnswer(t, a, "q1", quiz.OptionAnswer("a"))
	a.VerifyAndAdvance(ctx)
	mustAnswer(t, a, "q2", quiz.OptionAnswer("b"))
	a.VerifyAndAdvance(ctx)
	mustAnswer(t, a, "q3", quiz.OptionAnswer("b")) // wrong this time, still scored
	step, _ := a.VerifyAndAdvance(ctx)
	if step.Finished {
		t.Fatal("wrong scored answer on last question must not finish")
	}
	mustAnswer(t, a, "q3", quiz.OptionAnswer("a"))
	step, _ = a.VerifyAndAdvance(ctx)
	if !step.Finished {
		t.Fatal("expected finish after correction")
	}
	if sink.callCount() != 2 {
		t.Fatalf("sink calls = %d, want 2", sink.callCount())
	}
}

func TestSubmissionFailureStillFinishesWithLocalScore(t *testing.T) {
	sink := &fakeSink{err: errors.New("backend down")}
	a, _ := quiz.NewAttempt("quiz-1", "Quiz", "sess", threeQuestionQuiz(), sink)
	ctx := context.Background()

	for _, step := range []struct{ id, opt string }{{"q1", "a"}, {"q2", "b"}, {"q3", "a"}} {
		mustAnswer(t, a, step.id, quiz.OptionAnswer(step.opt))
		a.VerifyAndAdvance(ctx)
	}
	if a.State() != quiz.StateFinished {
		t.Fatalf("state = %v, want finished despite sink failure", a.State())
	}

	// The latch was released, so one explicit retry reaches the sink again.
	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()
	if err := a.RetrySubmit(ctx); err != nil {
		t.Fatal(err)
	}
	if sink.callCount() != 2 {
		t.Fatalf("sink calls = %d, want 2", sink.callCount())
	}
	// A further retry is a no-op: the latch is set.
	if err := a.RetrySubmit(ctx); err != nil {
		t.Fatal(err)
	}
	if sink.callCount() != 2 {
		t.Fatalf("sink calls after no-op retry = %d, want 2", sink.callCount())
	}
}

func TestSubmissionPayloadResolvesTexts(t *testing.T) {
	sink := &fakeSink{}
	qs := []quiz.Question{
		{
			ID: "q1", Position: 1, Type: quiz.MultiChoice, Prompt: "pick",
			Options: []quiz.Option{
				{ID: "a", Text: "Alpha", Correct: true},
				{ID: "b", Text: "Beta"},
				{ID: "c", Text: "Gamma", Correct: true},
			},
		},
		{ID: "q2", Position: 2, Type: quiz.TrueFalse, Prompt: "tf", CorrectBool: false},
	}
	a, _ := quiz.NewAttempt("quiz-9", "Safety Basics", "sess-7", qs, sink)
	ctx := context.Background()

	mustAnswer(t, a, "q1", quiz.OptionSetAnswer{"a", "c"})
	a.VerifyAndAdvance(ctx)
	mustAnswer(t, a, "q2", quiz.BoolAnswer(false))
	a.VerifyAndAdvance(ctx)

	sub := sink.last
	if sub.QuizID != "quiz-9" || sub.QuizTitle != "Safety Basics" || sub.SessionID != "sess-7" {
		t.Fatalf("submission header = %+v", sub)
	}
	if len(sub.Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(sub.Answers))
	}
	first := sub.Answers[0]
	if first.CorrectAnswer != "Alpha, Gamma" || first.UserAnswer != "Alpha, Gamma" || !first.Correct {
		t.Fatalf("multi record = %+v", first)
	}
	second := sub.Answers[1]
	if second.CorrectAnswer != "False" || second.UserAnswer != "False" || !second.Correct {
		t.Fatalf("true/false record = %+v", second)
	}
}

func TestScorePassBoundaryIsInclusive(t *testing.T) {
	// 7 of 10 correct is exactly 70%: a pass (>=, not >).
	var qs []quiz.Question
	for i := 1; i <= 10; i++ {
		qs = append(qs, quiz.Question{
			ID: fmt.Sprintf("q%d", i), Position: i, Type: quiz.TrueFalse, CorrectBool: true,
		})
	}
	a, _ := quiz.NewAttempt("quiz-1", "Quiz", "sess", qs, &fakeSink{})
	for i := 1; i <= 10; i++ {
		mustAnswer(t, a, fmt.Sprintf("q%d", i), quiz.BoolAnswer(i <= 7))
	}
	got := a.Score()
	want := quiz.ScoreResult{CorrectCount: 7, TotalCount: 10, Percentage: 70, Passed: true}
	if got != want {
		t.Fatalf("score = %+v, want %+v", got, want)
	}

	// One fewer correct answer fails.
	mustAnswer(t, a, "q7", quiz.BoolAnswer(false))
	if got := a.Score(); got.Passed {
		t.Fatalf("6/10 should fail, got %+v", got)
	}
}

func mustAnswer(t *testing.T, a *quiz.Attempt, id string, ans quiz.Answer) {
	t.Helper()
	if err := a.Answer(id, ans); err != nil {
		t.Fatalf("answer %s: %v", id, err)
	}
}
