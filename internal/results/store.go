package results

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/brightstep/induction-portal/internal/quiz"
)

var ErrResponseNotFound = errors.New("response not found")

// Response is one stored quiz submission. The score fields are recomputed
// from the answer records at save time; clients cannot assert their own
// score.
type Response struct {
	ID             string              `json:"id"`
	SessionID      string              `json:"session_id"`
	QuizID         string              `json:"quiz_id"`
	QuizTitle      string              `json:"quiz_title"`
	Answers        []quiz.AnswerRecord `json:"answers"`
	CorrectCount   int                 `json:"correct_count"`
	TotalCount     int                 `json:"total_count"`
	Percentage     int                 `json:"percentage"`
	Passed         bool                `json:"passed"`
	ElapsedSeconds int                 `json:"elapsed_seconds"`
	SubmittedAt    time.Time           `json:"submitted_at"`
}

// QuizStats aggregates submissions for one quiz.
type QuizStats struct {
	QuizID       string  `json:"quiz_id"`
	QuizTitle    string  `json:"quiz_title"`
	Attempts     int     `json:"attempts"`
	Passed       int     `json:"passed"`
	AverageScore float64 `json:"average_score"`
}

type ListOpts struct {
	Limit  int
	Offset int
}

type Store interface {
	// Save stores a submission, recomputing the score fields from the
	// answer records first.
	Save(ctx context.Context, r Response) (Response, error)
	ListBySession(ctx context.Context, sessionID string) ([]Response, error)
	// GetBySessionQuiz returns the most recent submission of a quiz within
	// a session.
	GetBySessionQuiz(ctx context.Context, sessionID, quizID string) (Response, error)
	Stats(ctx context.Context, quizID string) (QuizStats, error)
	ListAll(ctx context.Context, opts ListOpts) ([]Response, error)
	Delete(ctx context.Context, id string) error
	PurgeAll(ctx context.Context) (int, error)
}

// rescore derives the authoritative score fields from the answer records.
func rescore(r *Response) {
	correct := 0
	for _, rec := range r.Answers {
		if rec.Correct {
			correct++
		}
	}
	r.CorrectCount = correct
	r.TotalCount = len(r.Answers)
	if r.TotalCount == 0 {
		r.Percentage = 0
		r.Passed = false
		return
	}
	exact := float64(correct) / float64(r.TotalCount) * 100
	r.Percentage = int(math.Round(exact))
	r.Passed = exact >= quiz.PassThreshold
}
