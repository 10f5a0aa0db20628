package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightstep/induction-portal/internal/auth"
	syncx "github.com/brightstep/induction-portal/internal/sync"
)

// GET /admin/admins
func ListAdminsHandler(dir auth.AdminDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admins, err := dir.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if admins == nil {
			admins = []auth.Admin{}
		}
		writeJSON(w, http.StatusOK, admins)
	}
}

// POST /admin/admins {"email": "..."}
func AddAdminHandler(dir auth.AdminDirectory, allowedDomains []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			http.Error(w, "email required", http.StatusBadRequest)
			return
		}
		if !auth.HasAllowedDomain(req.Email, allowedDomains) {
			http.Error(w, "email domain not allowed", http.StatusBadRequest)
			return
		}
		a, err := dir.Add(r.Context(), req.Email, auth.EmailFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// DELETE /admin/admins/{email}
func RemoveAdminHandler(dir auth.AdminDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if email == auth.EmailFromContext(r.Context()) {
			http.Error(w, "cannot remove yourself", http.StatusBadRequest)
			return
		}
		if err := dir.Remove(r.Context(), email); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}

// GET /admin/events?limit=
func RecentEventsHandler(repo *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := repo.Recent(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 50))
		if err != nil {
			writeError(w, err)
			return
		}
		if events == nil {
			events = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, events)
	}
}
