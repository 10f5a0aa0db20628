package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightstep/induction-portal/internal/library"
)

// GET /documents
func ListDocumentsHandler(store library.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := store.ListActive(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if docs == nil {
			docs = []library.Document{}
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

// GET /admin/documents (hidden entries included)
func AdminListDocumentsHandler(store library.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := store.ListAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if docs == nil {
			docs = []library.Document{}
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

// POST /admin/documents
func CreateDocumentHandler(store library.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d library.Document
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		created, err := store.Create(r.Context(), d)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// PUT /admin/documents/{documentID}
func UpdateDocumentHandler(store library.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d library.Document
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		d.ID = chi.URLParam(r, "documentID")
		updated, err := store.Update(r.Context(), d)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DELETE /admin/documents/{documentID}
func DeleteDocumentHandler(store library.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "documentID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// PUT /admin/documents/order {"ids": ["...", "..."]}
func ReorderDocumentsHandler(store library.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
			http.Error(w, "ids required", http.StatusBadRequest)
			return
		}
		if err := store.Reorder(r.Context(), req.IDs); err != nil {
			writeError(w, err)
			return
		}
		docs, err := store.ListAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, docs)
	}
}
