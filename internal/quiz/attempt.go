package quiz

import (
	"context"
	"sort"
	"sync"
	"time"
)

// State of an attempt. Loading and its failure mode live with the question
// loader; an Attempt only exists once a snapshot was taken successfully.
type State string

const (
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateFinished   State = "finished"
)

// Sink receives the finalized answer set. A failing sink is reported but
// never blocks the results view; local scoring stays authoritative.
type Sink interface {
	SaveResult(ctx context.Context, sub Submission) error
}

// Step is the outcome of one VerifyAndAdvance call.
type Step struct {
	Verification Verification `json:"verification"`
	Advanced     bool         `json:"advanced"`
	Finished     bool         `json:"finished"`
	Score        *ScoreResult `json:"score,omitempty"`
	SubmitErr    error        `json:"-"`
}

// Attempt is one run through a quiz's question set. It owns a read-only
// snapshot of the questions taken at start and all in-progress answers. An
// Attempt belongs to a single session; nothing else mutates it concurrently,
// but the submission guard still closes the race between near-simultaneous
// completion triggers.
type Attempt struct {
	mu sync.Mutex

	quizID    string
	quizTitle string
	sessionID string
	questions []Question

	answers  map[string]Answer
	verified map[string]Verification
	index    int
	state    State

	startedAt time.Time
	now       func() time.Time

	guard Guard
	sink  Sink
}

// NewAttempt snapshots the question set (sorted by position) and starts at
// the first question. An empty set is a precondition violation surfaced at
// load time, not at scoring time.
func NewAttempt(quizID, quizTitle, sessionID string, questions []Question, sink Sink) (*Attempt, error) {
	return newAttemptWithClock(quizID, quizTitle, sessionID, questions, sink, time.Now)
}

func newAttemptWithClock(quizID, quizTitle, sessionID string, questions []Question, sink Sink, now func() time.Time) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	snapshot := make([]Question, len(questions))
	copy(snapshot, questions)
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Position < snapshot[j].Position
	})
	return &Attempt{
		quizID:    quizID,
		quizTitle: quizTitle,
		sessionID: sessionID,
		questions: snapshot,
		answers:   make(map[string]Answer),
		verified:  make(map[string]Verification),
		state:     StateReady,
		startedAt: now(),
		now:       now,
		sink:      sink,
	}, nil
}

func (a *Attempt) QuizID() string    { return a.quizID }
func (a *Attempt) QuizTitle() string { return a.quizTitle }
func (a *Attempt) SessionID() string { return a.sessionID }

// Question looks up a snapshot question by id.
func (a *Attempt) Question(id string) (Question, bool) {
	for i := range a.questions {
		if a.questions[i].ID == id {
			return a.questions[i], true
		}
	}
	return Question{}, false
}

// Current returns the question at the cursor.
func (a *Attempt) Current() Question {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.questions[a.index]
}

// Index returns the 0-based cursor position.
func (a *Attempt) Index() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// Len returns the number of questions in the snapshot.
func (a *Attempt) Len() int { return len(a.questions) }

// State returns the attempt lifecycle state.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Answer records a submitted value and resets that question's verification.
// It performs no I/O.
func (a *Attempt) Answer(questionID string, ans Answer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateFinished {
		return ErrAttemptFinished
	}
	if !a.hasQuestion(questionID) {
		return ErrQuestionNotFound
	}
	a.answers[questionID] = ans
	a.verified[questionID] = Unverified
	return nil
}

// VerifyAndAdvance checks the current question and moves the cursor forward
// when allowed. For scored types an incomplete answer marks the question
// incomplete and an incorrect one blocks advancement until the answer is
// changed. For likert/free-text, completeness alone gates advancement.
// Advancing past the last question submits the attempt exactly once and
// transitions to Finished; a sink failure is surfaced in Step.SubmitErr while
// the locally computed score is still returned.
func (a *Attempt) VerifyAndAdvance(ctx context.Context) (Step, error) {
	a.mu.Lock()
	if a.state == StateFinished {
		a.mu.Unlock()
		return Step{}, ErrAttemptFinished
	}
	q := a.questions[a.index]
	ans := a.answers[q.ID]

	if !Complete(q, ans) {
		a.verified[q.ID] = Incomplete
		a.mu.Unlock()
		return Step{Verification: Incomplete}, nil
	}

	verification := Unverified
	if q.Type.Scored() {
		if Correctness(q, ans) == VerdictIncorrect {
			a.verified[q.ID] = Incorrect
			a.mu.Unlock()
			return Step{Verification: Incorrect}, nil
		}
		a.verified[q.ID] = Correct
		verification = Correct
	}

	if a.index < len(a.questions)-1 {
		a.index++
		a.mu.Unlock()
		return Step{Verification: verification, Advanced: true}, nil
	}

	// Last question: finalize. The guard latch is set before the sink call,
	// so a second trigger racing this one observes it and becomes a no-op.
	a.state = StateSubmitting
	sub := a.buildSubmissionLocked()
	score := a.computeScoreLocked()
	a.mu.Unlock()

	_, submitErr := a.guard.SubmitOnce(ctx, a.sink, sub)

	a.mu.Lock()
	a.state = StateFinished
	a.mu.Unlock()

	return Step{Verification: verification, Finished: true, Score: &score, SubmitErr: submitErr}, nil
}

// Previous moves the cursor back one question; no-op at the first.
func (a *Attempt) Previous() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index > 0 {
		a.index--
	}
}

// Restart clears answers, verification state, the cursor, and the submission
// latch, returning the attempt to Ready with a fresh start time.
func (a *Attempt) Restart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers = make(map[string]Answer)
	a.verified = make(map[string]Verification)
	a.index = 0
	a.state = StateReady
	a.startedAt = a.now()
	a.guard.Reset()
}

// RetrySubmit re-sends the finalized answer set after a reported failure.
// The guard latch makes it a no-op when the earlier submission succeeded.
func (a *Attempt) RetrySubmit(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateFinished {
		a.mu.Unlock()
		return ErrAttemptNotFinished
	}
	sub := a.buildSubmissionLocked()
	a.mu.Unlock()
	_, err := a.guard.SubmitOnce(ctx, a.sink, sub)
	return err
}

// Score computes the result from the current answers.
func (a *Attempt) Score() ScoreResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.computeScoreLocked()
}

// Verification returns the status recorded for a question.
func (a *Attempt) Verification(questionID string) Verification {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.verified[questionID]; ok {
		return v
	}
	return Unverified
}

func (a *Attempt) hasQuestion(id string) bool {
	for i := range a.questions {
		if a.questions[i].ID == id {
			return true
		}
	}
	return false
}

func (a *Attempt) elapsedLocked() int {
	return int(a.now().Sub(a.startedAt) / time.Second)
}
