package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightstep/induction-portal/internal/questionbank"
	"github.com/brightstep/induction-portal/internal/quiz"
)

// optionView and questionView are the employee-facing shapes: answer keys
// and explanations stay server-side.
type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type questionView struct {
	ID          string            `json:"id"`
	Position    int               `json:"position"`
	Type        quiz.QuestionType `json:"type"`
	Prompt      string            `json:"prompt"`
	Options     []optionView      `json:"options,omitempty"`
	ScaleMin    int               `json:"scale_min,omitempty"`
	ScaleMax    int               `json:"scale_max,omitempty"`
	ScaleMinLbl string            `json:"scale_min_label,omitempty"`
	ScaleMaxLbl string            `json:"scale_max_label,omitempty"`
	MinLength   int               `json:"min_length,omitempty"`
}

func sanitizeQuestion(q quiz.Question) questionView {
	v := questionView{
		ID:          q.ID,
		Position:    q.Position,
		Type:        q.Type,
		Prompt:      q.Prompt,
		ScaleMin:    q.ScaleMin,
		ScaleMax:    q.ScaleMax,
		ScaleMinLbl: q.ScaleMinLbl,
		ScaleMaxLbl: q.ScaleMaxLbl,
		MinLength:   q.MinLength,
	}
	for _, op := range q.Options {
		v.Options = append(v.Options, optionView{ID: op.ID, Text: op.Text})
	}
	return v
}

// GET /quizzes
func ListQuizzesHandler(bank questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := bank.Quizzes(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if infos == nil {
			infos = []questionbank.QuizInfo{}
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

// GET /quizzes/{quizID}/questions
func ListQuizQuestionsHandler(bank questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		qs, err := bank.ListActive(r.Context(), quizID)
		if err != nil {
			writeError(w, err)
			return
		}
		views := make([]questionView, 0, len(qs))
		for _, q := range qs {
			views = append(views, sanitizeQuestion(q))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// GET /admin/quizzes/{quizID}/questions (full entries, answer keys included)
func AdminListQuestionsHandler(bank questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		entries, err := bank.ListAll(r.Context(), quizID)
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []questionbank.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// POST /admin/questions
func CreateQuestionHandler(bank questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e questionbank.Entry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if e.QuizID == "" || e.Prompt == "" || e.Type == "" {
			http.Error(w, "quiz_id, type and prompt required", http.StatusBadRequest)
			return
		}
		created, err := bank.Create(r.Context(), e)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// PUT /admin/questions/{questionID}
func UpdateQuestionHandler(bank questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e questionbank.Entry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e.ID = chi.URLParam(r, "questionID")
		updated, err := bank.Update(r.Context(), e)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DELETE /admin/questions/{questionID} (soft delete)
func DeleteQuestionHandler(bank questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := bank.Deactivate(r.Context(), chi.URLParam(r, "questionID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
	}
}

// POST /admin/questions/seed
func SeedQuestionsHandler(bank questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := questionbank.Seed(r.Context(), bank); err != nil {
			writeError(w, err)
			return
		}
		infos, err := bank.Quizzes(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, infos)
	}
}
