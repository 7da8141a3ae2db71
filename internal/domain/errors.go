package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question ID does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrCandidateNotFound is returned when a principal has no candidate record.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrUserNotFound is returned when a user ID or username does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidQuestion indicates a question whose correct label does not match a filled option.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidQuiz indicates quiz metadata failed validation.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrForbidden is returned when a recruiter acts on a quiz they do not own.
	ErrForbidden = errors.New("quiz not owned by recruiter")
)
