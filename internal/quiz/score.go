package quiz

import "math"

// PassThreshold is the minimum percentage counted as passing.
const PassThreshold = 70

func (a *Attempt) computeScoreLocked() ScoreResult {
	correct := 0
	for i := range a.questions {
		q := a.questions[i]
		if Correctness(q, a.answers[q.ID]) == VerdictCorrect {
			correct++
		}
	}
	total := len(a.questions)
	exact := float64(correct) / float64(total) * 100
	return ScoreResult{
		CorrectCount: correct,
		TotalCount:   total,
		// Percentage is rounded for display; the pass check uses the exact
		// ratio so 70% is a pass and 69.5% is not.
		Percentage: int(math.Round(exact)),
		Passed:     exact >= PassThreshold,
	}
}
