package app

import (
	"context"
	"fmt"
	"strings"

	"quiz-platform/internal/domain"
)

// QuizStore persists quiz content. Reads for scoring go through QuizRepository.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	AddQuestion(ctx context.Context, question domain.Question) (domain.Question, error)
	DeleteQuestions(ctx context.Context, quizID string) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

// QuizCache is implemented by repositories that keep quizzes around after loading them.
type QuizCache interface {
	Invalidate(ctx context.Context, quizID string) error
}

// QuizService contains the quiz authoring use cases.
type QuizService struct {
	store   QuizStore
	quizzes QuizRepository
}

func NewQuizService(store QuizStore, quizzes QuizRepository) *QuizService {
	return &QuizService{store: store, quizzes: quizzes}
}

// CreateQuiz stores a new, empty quiz owned by recruiterID.
func (s *QuizService) CreateQuiz(ctx context.Context, recruiterID string, draft domain.Quiz) (domain.Quiz, error) {
	if err := validateQuiz(draft); err != nil {
		return domain.Quiz{}, err
	}
	draft.ID = ""
	draft.RecruiterID = recruiterID
	draft.Questions = nil
	return s.store.CreateQuiz(ctx, draft)
}

// UpdateQuiz changes title, description and duration. Questions are untouched.
func (s *QuizService) UpdateQuiz(ctx context.Context, recruiterID, quizID string, changes domain.Quiz) (domain.Quiz, error) {
	quiz, err := s.OwnedQuiz(ctx, recruiterID, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := validateQuiz(changes); err != nil {
		return domain.Quiz{}, err
	}
	quiz.Title = changes.Title
	quiz.Description = changes.Description
	quiz.DurationMinutes = changes.DurationMinutes
	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, s.invalidate(ctx, quizID)
}

// AddQuestion appends a validated question to an owned quiz.
func (s *QuizService) AddQuestion(ctx context.Context, recruiterID, quizID string, question domain.Question) (domain.Question, error) {
	if _, err := s.OwnedQuiz(ctx, recruiterID, quizID); err != nil {
		return domain.Question{}, err
	}
	if err := question.Validate(); err != nil {
		return domain.Question{}, err
	}
	question.ID = ""
	question.QuizID = quizID
	stored, err := s.store.AddQuestion(ctx, question)
	if err != nil {
		return domain.Question{}, err
	}
	return stored, s.invalidate(ctx, quizID)
}

// DeleteQuiz removes the quiz's questions and then the quiz itself.
// Submissions against the quiz are kept.
func (s *QuizService) DeleteQuiz(ctx context.Context, recruiterID, quizID string) error {
	if _, err := s.OwnedQuiz(ctx, recruiterID, quizID); err != nil {
		return err
	}
	if err := s.store.DeleteQuestions(ctx, quizID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	if err := s.store.DeleteQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return s.invalidate(ctx, quizID)
}

// GetQuiz returns a quiz with its questions.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// OwnedQuiz returns the quiz if recruiterID owns it.
func (s *QuizService) OwnedQuiz(ctx context.Context, recruiterID, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.RecruiterID != recruiterID {
		return domain.Quiz{}, domain.ErrForbidden
	}
	return quiz, nil
}

// ListQuizzes returns every quiz without questions.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.store.ListQuizzes(ctx)
}

// ListRecruiterQuizzes returns the quizzes owned by recruiterID.
func (s *QuizService) ListRecruiterQuizzes(ctx context.Context, recruiterID string) ([]domain.Quiz, error) {
	all, err := s.store.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Quiz, 0, len(all))
	for _, q := range all {
		if q.RecruiterID == recruiterID {
			owned = append(owned, q)
		}
	}
	return owned, nil
}

func (s *QuizService) invalidate(ctx context.Context, quizID string) error {
	cache, ok := s.quizzes.(QuizCache)
	if !ok {
		return nil
	}
	if err := cache.Invalidate(ctx, quizID); err != nil {
		return fmt.Errorf("invalidate quiz cache: %w", err)
	}
	return nil
}

func validateQuiz(q domain.Quiz) error {
	if strings.TrimSpace(q.Title) == "" || q.DurationMinutes < 0 {
		return domain.ErrInvalidQuiz
	}
	return nil
}
