package domain

import "errors"

var (
	// ErrInvalidMode is returned for an unknown or empty quiz mode. There is
	// deliberately no silent default.
	ErrInvalidMode = errors.New("invalid quiz mode")
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNoActiveQuiz indicates an operation that requires a running question loop.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrUnknownQuestion indicates a submitted question ID is not part of the active quiz.
	ErrUnknownQuestion = errors.New("question not found")
	// ErrUnknownOption indicates a submitted option ID is invalid for its question.
	ErrUnknownOption = errors.New("option not found")
	// ErrInvalidTransition is returned when an operation does not apply to the current step.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrNoResults indicates the answer set has not been finalized yet.
	ErrNoResults = errors.New("results not computed")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)
