package questionbank

import (
	"context"
	"errors"
	"time"

	"github.com/brightstep/induction-portal/internal/quiz"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuizNotFound     = errors.New("quiz not found")
)

// Entry is a stored question plus its bank-level bookkeeping. Soft deletes
// flip Active to false; deactivated entries stay queryable for admins.
type Entry struct {
	quiz.Question
	QuizID    string    `json:"quiz_id"`
	QuizTitle string    `json:"quiz_title"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// QuizInfo summarizes one quiz known to the bank.
type QuizInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Questions int    `json:"questions"`
}

type Store interface {
	// ListActive returns the servable questions of a quiz in position order.
	ListActive(ctx context.Context, quizID string) ([]quiz.Question, error)
	// ListAll includes deactivated entries, still in position order.
	ListAll(ctx context.Context, quizID string) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	// Create assigns an id and, when Position is zero, the next free
	// position within the quiz.
	Create(ctx context.Context, e Entry) (Entry, error)
	Update(ctx context.Context, e Entry) (Entry, error)
	// Deactivate soft-deletes a question.
	Deactivate(ctx context.Context, id string) error
	// Quizzes lists the distinct quizzes with active question counts.
	Quizzes(ctx context.Context) ([]QuizInfo, error)
	// Quiz returns the summary of a single quiz.
	Quiz(ctx context.Context, quizID string) (QuizInfo, error)
}
