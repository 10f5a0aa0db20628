package session

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// QuizCompletion tracks repeat attempts of one quiz within a session. Only
// the best score is kept; Passed latches once any attempt passes.
type QuizCompletion struct {
	QuizID    string    `json:"quiz_id"`
	Attempts  int       `json:"attempts"`
	BestScore int       `json:"best_score"`
	Passed    bool      `json:"passed"`
	LastAt    time.Time `json:"last_at"`
}

// Session is one anonymous induction run. Percent is derived from the
// completed modules against the configured required set.
type Session struct {
	ID               string            `json:"id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	VideosWatched    []string          `json:"videos_watched"`
	ModulesCompleted []string          `json:"modules_completed"`
	Quizzes          []QuizCompletion  `json:"quizzes"`
	Percent          int               `json:"percent"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Stats summarizes all sessions for the admin dashboard.
type Stats struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	AveragePercent  float64 `json:"average_percent"`
	CreatedLastWeek int     `json:"created_last_week"`
}

type ListOpts struct {
	From  time.Time
	To    time.Time
	Limit int
}

type Store interface {
	Create(ctx context.Context, metadata map[string]string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	UpdateMetadata(ctx context.Context, id string, metadata map[string]string) (Session, error)
	MarkVideoWatched(ctx context.Context, id, video string) (Session, error)
	CompleteModule(ctx context.Context, id, module string) (Session, error)
	RecordQuizCompletion(ctx context.Context, id, quizID string, score int, passed bool) (Session, error)
	// List returns sessions newest first, optionally bounded by creation
	// time.
	List(ctx context.Context, opts ListOpts) ([]Session, error)
	Stats(ctx context.Context) (Stats, error)
	// PurgeAll deletes every session and reports how many were removed.
	PurgeAll(ctx context.Context) (int, error)
}

// percent computes module progress against the required set. Modules outside
// the required set do not count.
func percent(required, completed []string) int {
	if len(required) == 0 {
		return 0
	}
	done := 0
	set := map[string]bool{}
	for _, m := range completed {
		set[m] = true
	}
	for _, m := range required {
		if set[m] {
			done++
		}
	}
	return done * 100 / len(required)
}

// appendUnique adds v if absent, reporting whether the slice changed.
func appendUnique(list []string, v string) ([]string, bool) {
	for _, cur := range list {
		if cur == v {
			return list, false
		}
	}
	return append(list, v), true
}

// recordCompletion merges one quiz result into the completion list.
func recordCompletion(list []QuizCompletion, quizID string, score int, passed bool, at time.Time) []QuizCompletion {
	for i := range list {
		if list[i].QuizID == quizID {
			list[i].Attempts++
			if score > list[i].BestScore {
				list[i].BestScore = score
			}
			if passed {
				list[i].Passed = true
			}
			list[i].LastAt = at
			return list
		}
	}
	return append(list, QuizCompletion{
		QuizID: quizID, Attempts: 1, BestScore: score, Passed: passed, LastAt: at,
	})
}
