package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightstep/induction-portal/internal/results"
)

// GET /sessions/{sessionID}/responses
func ListSessionResponsesHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		list, err := store.ListBySession(r.Context(), sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []results.Response{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /sessions/{sessionID}/responses/{quizID}
func GetSessionQuizResponseHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := store.GetBySessionQuiz(r.Context(),
			chi.URLParam(r, "sessionID"), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /admin/quizzes/{quizID}/stats
func QuizStatsHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Stats(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// GET /admin/responses?limit=&offset=
func ListAllResponsesHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListAll(r.Context(), results.ListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 100),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []results.Response{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// DELETE /admin/responses/{responseID}
func DeleteResponseHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "responseID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// DELETE /admin/responses
func PurgeResponsesHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := store.PurgeAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"purged": n})
	}
}
