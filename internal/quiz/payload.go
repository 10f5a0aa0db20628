package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// AnswerRecord is the denormalized per-question record sent to the sink.
// Texts are resolved here so stored results stay readable even if the
// question definitions change later.
type AnswerRecord struct {
	Position      int          `json:"position"`
	Title         string       `json:"title"`
	Prompt        string       `json:"prompt"`
	Type          QuestionType `json:"question_type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	UserAnswer    string       `json:"user_answer"`
	Correct       bool         `json:"correct"`
}

// Submission is the payload handed to the Sink when an attempt completes.
type Submission struct {
	SessionID      string         `json:"session_id"`
	QuizID         string         `json:"quiz_id"`
	QuizTitle      string         `json:"quiz_title"`
	Answers        []AnswerRecord `json:"answers"`
	ElapsedSeconds int            `json:"elapsed_seconds,omitempty"`
}

func (a *Attempt) buildSubmissionLocked() Submission {
	records := make([]AnswerRecord, 0, len(a.questions))
	for i, q := range a.questions {
		ans := a.answers[q.ID]
		rec := AnswerRecord{
			Position: i + 1,
			Title:    fmt.Sprintf("Question %d", i+1),
			Prompt:   q.Prompt,
			Type:     q.Type,
			Correct:  Correctness(q, ans) == VerdictCorrect,
		}
		switch q.Type {
		case SingleChoice:
			for _, op := range q.Options {
				rec.Options = append(rec.Options, op.Text)
				if op.Correct {
					rec.CorrectAnswer = op.Text
				}
			}
			if sel, ok := ans.(OptionAnswer); ok {
				rec.UserAnswer = optionText(q.Options, string(sel))
			}
		case MultiChoice:
			var correct []string
			for _, op := range q.Options {
				rec.Options = append(rec.Options, op.Text)
				if op.Correct {
					correct = append(correct, op.Text)
				}
			}
			rec.CorrectAnswer = strings.Join(correct, ", ")
			if sel, ok := ans.(OptionSetAnswer); ok {
				var chosen []string
				for _, op := range q.Options {
					for _, id := range sel {
						if op.ID == id {
							chosen = append(chosen, op.Text)
							break
						}
					}
				}
				rec.UserAnswer = strings.Join(chosen, ", ")
			}
		case TrueFalse:
			rec.Options = []string{"True", "False"}
			rec.CorrectAnswer = boolText(q.CorrectBool)
			if sel, ok := ans.(BoolAnswer); ok {
				rec.UserAnswer = boolText(bool(sel))
			}
		case Likert:
			for v := q.ScaleMin; v <= q.ScaleMax; v++ {
				rec.Options = append(rec.Options, strconv.Itoa(v))
			}
			rec.CorrectAnswer = "N/A"
			if sel, ok := ans.(ScaleAnswer); ok {
				rec.UserAnswer = strconv.Itoa(int(sel))
			}
		case FreeText:
			rec.CorrectAnswer = "N/A"
			if sel, ok := ans.(TextAnswer); ok {
				rec.UserAnswer = string(sel)
			}
		}
		records = append(records, rec)
	}
	return Submission{
		SessionID:      a.sessionID,
		QuizID:         a.quizID,
		QuizTitle:      a.quizTitle,
		Answers:        records,
		ElapsedSeconds: a.elapsedLocked(),
	}
}

func optionText(options []Option, id string) string {
	for _, op := range options {
		if op.ID == id {
			return op.Text
		}
	}
	return ""
}

func boolText(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
