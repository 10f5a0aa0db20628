package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightstep/induction-portal/internal/questionbank"
	"github.com/brightstep/induction-portal/internal/quiz"
	"github.com/brightstep/induction-portal/internal/session"
)

type attemptView struct {
	AttemptID    string            `json:"attempt_id"`
	QuizID       string            `json:"quiz_id"`
	QuizTitle    string            `json:"quiz_title"`
	State        quiz.State        `json:"state"`
	Index        int               `json:"index"`
	Total        int               `json:"total"`
	Question     *questionView     `json:"question,omitempty"`
	Verification quiz.Verification `json:"verification"`
	Score        *quiz.ScoreResult `json:"score,omitempty"`
}

func viewAttempt(id string, a *quiz.Attempt) attemptView {
	v := attemptView{
		AttemptID: id,
		QuizID:    a.QuizID(),
		QuizTitle: a.QuizTitle(),
		State:     a.State(),
		Index:     a.Index(),
		Total:     a.Len(),
	}
	if v.State == quiz.StateFinished {
		score := a.Score()
		v.Score = &score
		return v
	}
	q := a.Current()
	qv := sanitizeQuestion(q)
	v.Question = &qv
	v.Verification = a.Verification(q.ID)
	return v
}

// POST /attempts {"quiz_id": "...", "session_id": "..."}
func StartAttemptHandler(bank questionbank.Store, reg *quiz.Registry, sink quiz.Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID    string `json:"quiz_id"`
			SessionID string `json:"session_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuizID == "" || req.SessionID == "" {
			http.Error(w, "quiz_id and session_id required", http.StatusBadRequest)
			return
		}

		info, err := bank.Quiz(r.Context(), req.QuizID)
		if err != nil {
			writeError(w, err)
			return
		}
		qs, err := bank.ListActive(r.Context(), req.QuizID)
		if err != nil {
			writeError(w, err)
			return
		}
		a, err := quiz.NewAttempt(req.QuizID, info.Title, req.SessionID, qs, sink)
		if err != nil {
			writeError(w, err)
			return
		}
		id := reg.Add(a)
		writeJSON(w, http.StatusCreated, viewAttempt(id, a))
	}
}

// POST /attempts/{attemptID}/answers {"question_id": "...", "value": ...}
// The value's JSON shape follows the question type: option id string,
// option id array, bool, scale number, or text.
func AnswerHandler(reg *quiz.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		a, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}

		var req struct {
			QuestionID string          `json:"question_id"`
			Value      json.RawMessage `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q, ok := a.Question(req.QuestionID)
		if !ok {
			writeError(w, quiz.ErrQuestionNotFound)
			return
		}
		ans, err := decodeAnswer(q.Type, req.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := a.Answer(req.QuestionID, ans); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewAttempt(id, a))
	}
}

func decodeAnswer(t quiz.QuestionType, raw json.RawMessage) (quiz.Answer, error) {
	switch t {
	case quiz.SingleChoice:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errBadAnswer(t)
		}
		return quiz.OptionAnswer(v), nil
	case quiz.MultiChoice:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errBadAnswer(t)
		}
		return quiz.OptionSetAnswer(v), nil
	case quiz.TrueFalse:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errBadAnswer(t)
		}
		return quiz.BoolAnswer(v), nil
	case quiz.Likert:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errBadAnswer(t)
		}
		return quiz.ScaleAnswer(v), nil
	case quiz.FreeText:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errBadAnswer(t)
		}
		return quiz.TextAnswer(v), nil
	}
	return nil, errBadAnswer(t)
}

type badAnswerError struct{ t quiz.QuestionType }

func (e badAnswerError) Error() string { return "answer value does not match question type " + string(e.t) }

func errBadAnswer(t quiz.QuestionType) error { return badAnswerError{t: t} }

type stepView struct {
	Step    quiz.Step   `json:"step"`
	Attempt attemptView `json:"attempt"`
	// SubmitError is set when the attempt finished but uploading the
	// result failed; the score shown is the locally computed one.
	SubmitError string `json:"submit_error,omitempty"`
}

// POST /attempts/{attemptID}/next
func AdvanceAttemptHandler(reg *quiz.Registry, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		a, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		step, err := a.VerifyAndAdvance(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := stepView{Step: step, Attempt: viewAttempt(id, a)}
		if step.SubmitErr != nil {
			out.SubmitError = step.SubmitErr.Error()
		}
		if step.Finished && step.Score != nil {
			if _, err := sessions.RecordQuizCompletion(r.Context(), a.SessionID(), a.QuizID(),
				step.Score.Percentage, step.Score.Passed); err != nil {
				log.Printf("attempts: record completion for session %s: %v", a.SessionID(), err)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /attempts/{attemptID}/previous
func PreviousQuestionHandler(reg *quiz.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		a, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		a.Previous()
		writeJSON(w, http.StatusOK, viewAttempt(id, a))
	}
}

// POST /attempts/{attemptID}/restart
func RestartAttemptHandler(reg *quiz.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		a, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		a.Restart()
		writeJSON(w, http.StatusOK, viewAttempt(id, a))
	}
}

// POST /attempts/{attemptID}/retry-submit
func RetrySubmitHandler(reg *quiz.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		a, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := a.RetrySubmit(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewAttempt(id, a))
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(reg *quiz.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		a, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewAttempt(id, a))
	}
}
