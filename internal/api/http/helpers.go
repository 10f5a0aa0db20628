package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/brightstep/induction-portal/internal/auth"
	"github.com/brightstep/induction-portal/internal/induction"
	"github.com/brightstep/induction-portal/internal/library"
	"github.com/brightstep/induction-portal/internal/questionbank"
	"github.com/brightstep/induction-portal/internal/quiz"
	"github.com/brightstep/induction-portal/internal/results"
	"github.com/brightstep/induction-portal/internal/session"
	"github.com/brightstep/induction-portal/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrAttemptNotFound),
		errors.Is(err, questionbank.ErrQuestionNotFound),
		errors.Is(err, questionbank.ErrQuizNotFound),
		errors.Is(err, results.ErrResponseNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, library.ErrDocumentNotFound),
		errors.Is(err, auth.ErrAdminNotFound),
		errors.Is(err, storage.ErrAssetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, quiz.ErrAttemptFinished),
		errors.Is(err, quiz.ErrAttemptNotFinished),
		errors.Is(err, auth.ErrAdminExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, quiz.ErrQuestionNotFound),
		errors.Is(err, library.ErrUnknownType),
		errors.Is(err, induction.ErrTitleRequired),
		errors.Is(err, induction.ErrDescriptionRequired),
		errors.Is(err, storage.ErrBadExtension),
		errors.Is(err, storage.ErrEmptyAssetName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrAssetTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
