package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/brightstep/induction-portal/internal/api/http"
	"github.com/brightstep/induction-portal/internal/questionbank"
	"github.com/brightstep/induction-portal/internal/quiz"
	"github.com/brightstep/induction-portal/internal/results"
	"github.com/brightstep/induction-portal/internal/session"
)

type fixture struct {
	router    *chi.Mux
	bank      *questionbank.MemStore
	responses *results.MemStore
	sessions  *session.MemStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bank := questionbank.NewMemStore()
	responses := results.NewMemStore()
	sessions := session.NewMemStore([]string{"welcome"})
	registry := quiz.NewRegistry()
	sink := results.NewSink(responses, nil)

	r := chi.NewRouter()
	r.Get("/quizzes", api.ListQuizzesHandler(bank))
	r.Get("/quizzes/{quizID}/questions", api.ListQuizQuestionsHandler(bank))
	r.Post("/attempts", api.StartAttemptHandler(bank, registry, sink))
	r.Get("/attempts/{attemptID}", api.GetAttemptHandler(registry))
	r.Post("/attempts/{attemptID}/answers", api.AnswerHandler(registry))
	r.Post("/attempts/{attemptID}/next", api.AdvanceAttemptHandler(registry, sessions))
	r.Post("/attempts/{attemptID}/previous", api.PreviousQuestionHandler(registry))
	r.Post("/attempts/{attemptID}/restart", api.RestartAttemptHandler(registry))
	r.Get("/sessions/{sessionID}/responses", api.ListSessionResponsesHandler(responses))

	return &fixture{router: r, bank: bank, responses: responses, sessions: sessions}
}

func (f *fixture) seedQuiz(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	entries := []questionbank.Entry{
		{
			QuizID: "induction", QuizTitle: "Induction",
			Question: quiz.Question{
				Position: 1, Type: quiz.SingleChoice, Prompt: "pick a",
				Options: []quiz.Option{{ID: "a", Text: "A", Correct: true}, {ID: "b", Text: "B"}},
			},
		},
		{
			QuizID: "induction", QuizTitle: "Induction",
			Question: quiz.Question{
				Position: 2, Type: quiz.TrueFalse, Prompt: "true?", CorrectBool: true,
			},
		},
	}
	for _, e := range entries {
		if _, err := f.bank.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec
}

type attemptResp struct {
	AttemptID    string `json:"attempt_id"`
	State        string `json:"state"`
	Index        int    `json:"index"`
	Total        int    `json:"total"`
	Verification string `json:"verification"`
	Question     *struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		Options []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"options"`
	} `json:"question"`
	Score *quiz.ScoreResult `json:"score"`
}

type stepResp struct {
	Step struct {
		Verification string            `json:"verification"`
		Advanced     bool              `json:"advanced"`
		Finished     bool              `json:"finished"`
		Score        *quiz.ScoreResult `json:"score"`
	} `json:"step"`
	Attempt     attemptResp `json:"attempt"`
	SubmitError string      `json:"submit_error"`
}

func TestQuizListingHidesAnswerKeys(t *testing.T) {
	f := newFixture(t)
	f.seedQuiz(t)

	rec := f.do(t, http.MethodGet, "/quizzes/induction/questions", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("correct")) {
		t.Fatalf("answer keys leaked: %s", rec.Body.String())
	}
}

func TestAttemptFlowEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.seedQuiz(t)

	sess, err := f.sessions.Create(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	var a attemptResp
	rec := f.do(t, http.MethodPost, "/attempts",
		map[string]string{"quiz_id": "induction", "session_id": sess.ID}, &a)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	if a.Total != 2 || a.Question == nil || a.Question.Type != "single_choice" {
		t.Fatalf("initial view = %+v", a)
	}
	base := "/attempts/" + a.AttemptID

	// Advancing an unanswered question reports incomplete and stays put.
	var step stepResp
	f.do(t, http.MethodPost, base+"/next", nil, &step)
	if step.Step.Verification != "incomplete" || step.Step.Advanced {
		t.Fatalf("unanswered next = %+v", step.Step)
	}

	// A wrong answer blocks; correcting it advances.
	f.do(t, http.MethodPost, base+"/answers",
		map[string]interface{}{"question_id": a.Question.ID, "value": "b"}, nil)
	f.do(t, http.MethodPost, base+"/next", nil, &step)
	if step.Step.Verification != "incorrect" || step.Step.Advanced {
		t.Fatalf("wrong answer next = %+v", step.Step)
	}
	f.do(t, http.MethodPost, base+"/answers",
		map[string]interface{}{"question_id": a.Question.ID, "value": "a"}, nil)
	f.do(t, http.MethodPost, base+"/next", nil, &step)
	if !step.Step.Advanced || step.Attempt.Index != 1 {
		t.Fatalf("corrected next = %+v", step)
	}

	// Final question completes the attempt and stores the submission.
	q2 := step.Attempt.Question
	if q2 == nil || q2.Type != "true_false" {
		t.Fatalf("second question = %+v", q2)
	}
	f.do(t, http.MethodPost, base+"/answers",
		map[string]interface{}{"question_id": q2.ID, "value": true}, nil)
	f.do(t, http.MethodPost, base+"/next", nil, &step)
	if !step.Step.Finished || step.Step.Score == nil {
		t.Fatalf("final next = %+v", step)
	}
	if step.Step.Score.CorrectCount != 2 || !step.Step.Score.Passed {
		t.Fatalf("score = %+v", step.Step.Score)
	}
	if step.SubmitError != "" {
		t.Fatalf("submit error: %s", step.SubmitError)
	}

	var stored []results.Response
	f.do(t, http.MethodGet, "/sessions/"+sess.ID+"/responses", nil, &stored)
	if len(stored) != 1 || stored[0].QuizID != "induction" {
		t.Fatalf("stored responses = %+v", stored)
	}

	// Completion lands on the session progress record.
	sess, err = f.sessions.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Quizzes) != 1 || !sess.Quizzes[0].Passed {
		t.Fatalf("session quiz completions = %+v", sess.Quizzes)
	}
}

func TestAttemptRestartAllowsSecondSubmission(t *testing.T) {
	f := newFixture(t)
	f.seedQuiz(t)

	var a attemptResp
	f.do(t, http.MethodPost, "/attempts",
		map[string]string{"quiz_id": "induction", "session_id": "sess-2"}, &a)
	base := "/attempts/" + a.AttemptID

	finish := func() {
		var view attemptResp
		f.do(t, http.MethodGet, base, nil, &view)
		f.do(t, http.MethodPost, base+"/answers",
			map[string]interface{}{"question_id": view.Question.ID, "value": "a"}, nil)
		var step stepResp
		f.do(t, http.MethodPost, base+"/next", nil, &step)
		f.do(t, http.MethodPost, base+"/answers",
			map[string]interface{}{"question_id": step.Attempt.Question.ID, "value": true}, nil)
		f.do(t, http.MethodPost, base+"/next", nil, &step)
		if !step.Step.Finished {
			t.Fatalf("expected finish, got %+v", step.Step)
		}
	}

	finish()
	rec := f.do(t, http.MethodPost, base+"/restart", nil, &a)
	if rec.Code != http.StatusOK || a.State != "ready" || a.Index != 0 {
		t.Fatalf("restart view = %+v (%d)", a, rec.Code)
	}
	finish()

	var stored []results.Response
	f.do(t, http.MethodGet, "/sessions/sess-2/responses", nil, &stored)
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored submissions, got %d", len(stored))
	}
}

func TestAnswerRejectsMismatchedValueShape(t *testing.T) {
	f := newFixture(t)
	f.seedQuiz(t)

	var a attemptResp
	f.do(t, http.MethodPost, "/attempts",
		map[string]string{"quiz_id": "induction", "session_id": "sess-3"}, &a)

	rec := f.do(t, http.MethodPost, "/attempts/"+a.AttemptID+"/answers",
		map[string]interface{}{"question_id": a.Question.ID, "value": true}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bool for single_choice status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/attempts/"+a.AttemptID+"/answers",
		map[string]interface{}{"question_id": "nope", "value": "a"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown question status = %d", rec.Code)
	}
}

func TestStartAttemptValidation(t *testing.T) {
	f := newFixture(t)
	f.seedQuiz(t)

	rec := f.do(t, http.MethodPost, "/attempts", map[string]string{"quiz_id": "induction"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing session status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/attempts",
		map[string]string{"quiz_id": "ghost", "session_id": "s"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown quiz status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/attempts/%s", "missing"), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown attempt status = %d", rec.Code)
	}
}
