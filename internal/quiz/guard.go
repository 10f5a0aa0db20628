package quiz

import (
	"context"
	"sync"
)

// Guard makes a finalized answer set reach the sink at most once per attempt.
// The latch is flipped before the sink call so two near-simultaneous
// completion triggers cannot both observe it unset; on failure the latch is
// released again, permitting one explicit retry.
type Guard struct {
	mu      sync.Mutex
	latched bool
}

// SubmitOnce sends the submission unless a previous call already did. The
// boolean reports whether this call performed (or tried to perform) the send.
func (g *Guard) SubmitOnce(ctx context.Context, sink Sink, sub Submission) (bool, error) {
	g.mu.Lock()
	if g.latched {
		g.mu.Unlock()
		return false, nil
	}
	g.latched = true
	g.mu.Unlock()

	if err := sink.SaveResult(ctx, sub); err != nil {
		g.mu.Lock()
		g.latched = false
		g.mu.Unlock()
		return true, err
	}
	return true, nil
}

// Reset clears the latch, e.g. when the attempt restarts.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.latched = false
	g.mu.Unlock()
}

// Latched reports whether a successful submission is recorded.
func (g *Guard) Latched() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latched
}
