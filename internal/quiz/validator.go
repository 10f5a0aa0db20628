package quiz

import "strings"

// Verdict is the three-valued outcome of checking an answer: no answer yet,
// correct, or incorrect.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

// Correctness checks a submitted answer against the question definition.
// A nil answer yields VerdictNone (used to gate navigation, not to score).
// Likert and free-text questions are always correct once answered.
func Correctness(q Question, ans Answer) Verdict {
	if ans == nil {
		return VerdictNone
	}
	switch q.Type {
	case SingleChoice:
		sel, ok := ans.(OptionAnswer)
		if !ok {
			return VerdictIncorrect
		}
		for _, op := range q.Options {
			if op.ID == string(sel) {
				if op.Correct {
					return VerdictCorrect
				}
				return VerdictIncorrect
			}
		}
		return VerdictIncorrect
	case MultiChoice:
		sel, ok := ans.(OptionSetAnswer)
		if !ok {
			return VerdictIncorrect
		}
		// Exact set equality: every correct option selected, nothing else.
		correct := make(map[string]struct{})
		for _, op := range q.Options {
			if op.Correct {
				correct[op.ID] = struct{}{}
			}
		}
		chosen := make(map[string]struct{}, len(sel))
		for _, id := range sel {
			chosen[id] = struct{}{}
		}
		if len(chosen) != len(correct) {
			return VerdictIncorrect
		}
		for id := range chosen {
			if _, ok := correct[id]; !ok {
				return VerdictIncorrect
			}
		}
		return VerdictCorrect
	case TrueFalse:
		sel, ok := ans.(BoolAnswer)
		if !ok {
			return VerdictIncorrect
		}
		if bool(sel) == q.CorrectBool {
			return VerdictCorrect
		}
		return VerdictIncorrect
	case Likert, FreeText:
		return VerdictCorrect
	default:
		return VerdictIncorrect
	}
}

// Complete reports whether the answer satisfies the question enough to allow
// advancing, independent of correctness. Free text must be non-blank after
// trimming and meet MinLength when set; multi choice needs a non-empty set.
func Complete(q Question, ans Answer) bool {
	if ans == nil {
		return false
	}
	switch q.Type {
	case SingleChoice:
		sel, ok := ans.(OptionAnswer)
		return ok && sel != ""
	case MultiChoice:
		sel, ok := ans.(OptionSetAnswer)
		return ok && len(sel) > 0
	case TrueFalse:
		_, ok := ans.(BoolAnswer)
		return ok
	case Likert:
		sel, ok := ans.(ScaleAnswer)
		if !ok {
			return false
		}
		return int(sel) >= q.ScaleMin && int(sel) <= q.ScaleMax
	case FreeText:
		sel, ok := ans.(TextAnswer)
		if !ok {
			return false
		}
		trimmed := strings.TrimSpace(string(sel))
		if trimmed == "" {
			return false
		}
		return len([]rune(trimmed)) >= q.MinLength
	default:
		return false
	}
}
