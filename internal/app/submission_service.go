package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-platform/internal/domain"
)

// QuizRepository loads quiz content with its questions (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SubmissionStore is an append-only store of graded attempts.
// Lookups for unknown candidates or quizzes return an empty slice, not an error.
type SubmissionStore interface {
	Save(ctx context.Context, submission domain.Submission) (domain.Submission, error)
	FindByCandidate(ctx context.Context, candidateID string) ([]domain.Submission, error)
	FindByCandidateOrderedByTimeDesc(ctx context.Context, candidateID string) ([]domain.Submission, error)
	FindByQuiz(ctx context.Context, quizID string) ([]domain.Submission, error)
}

// UserRepository resolves principals to domain users.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// SubmissionPublisher is notified after a submission has been stored.
type SubmissionPublisher interface {
	Publish(submission domain.Submission)
}

// SubmissionService grades quiz attempts and reports on submission history.
type SubmissionService struct {
	quizzes     QuizRepository
	submissions SubmissionStore
	users       UserRepository
	publisher   SubmissionPublisher
	now         func() time.Time
}

// SubmissionOption customizes a SubmissionService.
type SubmissionOption func(*SubmissionService)

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) SubmissionOption {
	return func(s *SubmissionService) { s.now = now }
}

// WithPublisher registers a listener for stored submissions.
func WithPublisher(p SubmissionPublisher) SubmissionOption {
	return func(s *SubmissionService) { s.publisher = p }
}

func NewSubmissionService(quizzes QuizRepository, submissions SubmissionStore, users UserRepository, opts ...SubmissionOption) *SubmissionService {
	s := &SubmissionService{
		quizzes:     quizzes,
		submissions: submissions,
		users:       users,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit grades answers against the quiz and stores a new submission.
// Repeated submissions are never deduplicated; each call yields a distinct record.
func (s *SubmissionService) Submit(ctx context.Context, quizID, candidateID string, answers domain.AnswerSet) (domain.Submission, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Submission{}, err
	}
	if err := s.requireCandidate(ctx, candidateID); err != nil {
		return domain.Submission{}, err
	}

	score := ScoreAnswers(quiz.Questions, answers)
	stored, err := s.submissions.Save(ctx, NewSubmission(quiz.ID, candidateID, score, s.now()))
	if err != nil {
		return domain.Submission{}, fmt.Errorf("save submission: %w", err)
	}
	if s.publisher != nil {
		s.publisher.Publish(stored)
	}
	return stored, nil
}

// CandidateHistory returns a candidate's submissions, most recent first, with average and best percentage.
func (s *SubmissionService) CandidateHistory(ctx context.Context, candidateID string) (domain.CandidateHistory, error) {
	if err := s.requireCandidate(ctx, candidateID); err != nil {
		return domain.CandidateHistory{}, err
	}
	submissions, err := s.submissions.FindByCandidateOrderedByTimeDesc(ctx, candidateID)
	if err != nil {
		return domain.CandidateHistory{}, fmt.Errorf("load candidate submissions: %w", err)
	}
	return domain.CandidateHistory{
		CandidateID:       candidateID,
		Submissions:       submissions,
		AveragePercentage: Average(submissions),
		BestPercentage:    Maximum(submissions),
	}, nil
}

// QuizResults returns every submission for a quiz with average, highest and lowest percentage.
func (s *SubmissionService) QuizResults(ctx context.Context, quizID string) (domain.QuizResults, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizResults{}, err
	}
	return s.resultsFor(ctx, quiz)
}

// RecruiterQuizResults is QuizResults restricted to the quiz's owner.
func (s *SubmissionService) RecruiterQuizResults(ctx context.Context, recruiterID, quizID string) (domain.QuizResults, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizResults{}, err
	}
	if quiz.RecruiterID != recruiterID {
		return domain.QuizResults{}, domain.ErrForbidden
	}
	return s.resultsFor(ctx, quiz)
}

func (s *SubmissionService) resultsFor(ctx context.Context, quiz domain.Quiz) (domain.QuizResults, error) {
	submissions, err := s.submissions.FindByQuiz(ctx, quiz.ID)
	if err != nil {
		return domain.QuizResults{}, fmt.Errorf("load quiz submissions: %w", err)
	}
	return domain.QuizResults{
		QuizID:            quiz.ID,
		Title:             quiz.Title,
		Submissions:       submissions,
		AveragePercentage: Average(submissions),
		HighestPercentage: Maximum(submissions),
		LowestPercentage:  Minimum(submissions),
	}, nil
}

func (s *SubmissionService) requireCandidate(ctx context.Context, candidateID string) error {
	user, err := s.users.GetUser(ctx, candidateID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrCandidateNotFound
	}
	if err != nil {
		return err
	}
	if user.Role != domain.RoleCandidate {
		return domain.ErrCandidateNotFound
	}
	return nil
}
