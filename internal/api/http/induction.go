package http

import (
	"encoding/json"
	"net/http"

	"github.com/brightstep/induction-portal/internal/induction"
)

// GET /config/induction
func GetInductionConfigHandler(store induction.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Get(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// PUT /admin/config/induction
func UpdateInductionConfigHandler(store induction.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c induction.Config
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		saved, err := store.Put(r.Context(), c)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}
