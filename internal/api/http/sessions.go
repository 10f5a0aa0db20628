package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightstep/induction-portal/internal/session"
)

// POST /sessions {"metadata": {...}}
func CreateSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Metadata map[string]string `json:"metadata"`
		}
		// An empty body is fine; metadata is optional.
		_ = json.NewDecoder(r.Body).Decode(&req)

		sess, err := store.Create(r.Context(), req.Metadata)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// PATCH /sessions/{sessionID} {"metadata": {...}}
func UpdateSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Metadata map[string]string `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		sess, err := store.UpdateMetadata(r.Context(), chi.URLParam(r, "sessionID"), req.Metadata)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// POST /sessions/{sessionID}/videos {"video": "intro.mp4"}
func MarkVideoWatchedHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Video string `json:"video"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Video == "" {
			http.Error(w, "video required", http.StatusBadRequest)
			return
		}
		sess, err := store.MarkVideoWatched(r.Context(), chi.URLParam(r, "sessionID"), req.Video)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// POST /sessions/{sessionID}/modules {"module": "safety"}
func CompleteModuleHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Module string `json:"module"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Module == "" {
			http.Error(w, "module required", http.StatusBadRequest)
			return
		}
		sess, err := store.CompleteModule(r.Context(), chi.URLParam(r, "sessionID"), req.Module)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// GET /admin/sessions?from=&to=&limit= (dates are RFC 3339 or 2006-01-02)
func ListSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := session.ListOpts{
			Limit: parseIntDefault(r.URL.Query().Get("limit"), 100),
		}
		if v := r.URL.Query().Get("from"); v != "" {
			t, err := parseDate(v)
			if err != nil {
				http.Error(w, "bad from date", http.StatusBadRequest)
				return
			}
			opts.From = t
		}
		if v := r.URL.Query().Get("to"); v != "" {
			t, err := parseDate(v)
			if err != nil {
				http.Error(w, "bad to date", http.StatusBadRequest)
				return
			}
			opts.To = t
		}
		list, err := store.List(r.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []session.Session{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /admin/sessions/stats
func SessionStatsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// DELETE /admin/sessions
func PurgeSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := store.PurgeAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"purged": n})
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
