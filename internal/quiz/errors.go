package quiz

import "errors"

var (
	// ErrNoQuestions is returned when an attempt is created over an empty
	// question set.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrQuestionNotFound indicates an answer referenced an unknown question.
	ErrQuestionNotFound = errors.New("question not found in attempt")
	// ErrAttemptFinished rejects mutations after the attempt was submitted.
	ErrAttemptFinished = errors.New("attempt already finished")
	// ErrAttemptNotFound is returned by the registry for unknown attempt ids.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptNotFinished rejects a submission retry before completion.
	ErrAttemptNotFinished = errors.New("attempt not finished")
)
