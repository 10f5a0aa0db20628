package questionbank

import (
	"context"

	"github.com/brightstep/induction-portal/internal/quiz"
)

// Seed loads a starter question set so a fresh install has something to
// serve. It is a no-op when the bank already holds quizzes.
func Seed(ctx context.Context, s Store) error {
	existing, err := s.Quizzes(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, e := range sampleEntries() {
		if _, err := s.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func sampleEntries() []Entry {
	const (
		inductionID    = "company-induction"
		inductionTitle = "Company Induction"
		safetyID       = "workplace-safety"
		safetyTitle    = "Workplace Safety"
	)
	return []Entry{
		{
			QuizID: inductionID, QuizTitle: inductionTitle,
			Question: quiz.Question{
				Position: 1, Type: quiz.SingleChoice,
				Prompt: "Who should you contact first with questions during your first week?",
				Options: []quiz.Option{
					{ID: "a", Text: "Your assigned buddy", Correct: true},
					{ID: "b", Text: "The CEO"},
					{ID: "c", Text: "The facilities team"},
				},
				Explanation: "Every new hire is paired with a buddy for their first month.",
			},
		},
		{
			QuizID: inductionID, QuizTitle: inductionTitle,
			Question: quiz.Question{
				Position: 2, Type: quiz.MultiChoice,
				Prompt: "Which of the following are company core values? Select all that apply.",
				Options: []quiz.Option{
					{ID: "a", Text: "Ownership", Correct: true},
					{ID: "b", Text: "Transparency", Correct: true},
					{ID: "c", Text: "Secrecy"},
					{ID: "d", Text: "Customer focus", Correct: true},
				},
			},
		},
		{
			QuizID: inductionID, QuizTitle: inductionTitle,
			Question: quiz.Question{
				Position: 3, Type: quiz.TrueFalse,
				Prompt:      "Timesheets must be submitted by Friday noon.",
				CorrectBool: true,
				Explanation: "Payroll closes Friday at 12:00.",
			},
		},
		{
			QuizID: inductionID, QuizTitle: inductionTitle,
			Question: quiz.Question{
				Position: 4, Type: quiz.Likert,
				Prompt:      "How clear was the onboarding material so far?",
				ScaleMin:    1, ScaleMax: 5,
				ScaleMinLbl: "Not clear at all", ScaleMaxLbl: "Very clear",
			},
		},
		{
			QuizID: inductionID, QuizTitle: inductionTitle,
			Question: quiz.Question{
				Position: 5, Type: quiz.FreeText,
				Prompt:    "Describe in your own words what you expect from your first 90 days.",
				MinLength: 20,
			},
		},
		{
			QuizID: safetyID, QuizTitle: safetyTitle,
			Question: quiz.Question{
				Position: 1, Type: quiz.SingleChoice,
				Prompt: "Where is the nearest assembly point in an evacuation?",
				Options: []quiz.Option{
					{ID: "a", Text: "The main parking lot", Correct: true},
					{ID: "b", Text: "The cafeteria"},
					{ID: "c", Text: "The rooftop"},
				},
			},
		},
		{
			QuizID: safetyID, QuizTitle: safetyTitle,
			Question: quiz.Question{
				Position: 2, Type: quiz.TrueFalse,
				Prompt:      "You may re-enter the building as soon as the alarm stops.",
				CorrectBool: false,
				Explanation: "Wait for the all-clear from the floor warden.",
			},
		},
		{
			QuizID: safetyID, QuizTitle: safetyTitle,
			Question: quiz.Question{
				Position: 3, Type: quiz.MultiChoice,
				Prompt: "Which incidents must be reported to the safety officer?",
				Options: []quiz.Option{
					{ID: "a", Text: "Injuries, however minor", Correct: true},
					{ID: "b", Text: "Near misses", Correct: true},
					{ID: "c", Text: "A coworker arriving late"},
				},
			},
		},
	}
}
