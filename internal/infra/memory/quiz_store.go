package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"quiz-platform/internal/domain"
)

// QuizStore keeps quizzes and their questions in memory (useful for tests/demos).
// Questions live in their own table keyed by quiz ID.
type QuizStore struct {
	mu        sync.RWMutex
	quizzes   map[string]domain.Quiz
	order     []string
	questions map[string][]domain.Question
}

func NewQuizStore() *QuizStore {
	return &QuizStore{
		quizzes:   make(map[string]domain.Quiz),
		questions: make(map[string][]domain.Question),
	}
}

// NewSeededQuizStore loads quizzes and questions as given, keeping their IDs.
func NewSeededQuizStore(quizzes ...domain.Quiz) *QuizStore {
	s := NewQuizStore()
	for _, quiz := range quizzes {
		questions := quiz.Questions
		quiz.Questions = nil
		s.quizzes[quiz.ID] = quiz
		s.order = append(s.order, quiz.ID)
		for _, q := range questions {
			q.QuizID = quiz.ID
			s.questions[quiz.ID] = append(s.questions[quiz.ID], q)
		}
	}
	return s
}

func (s *QuizStore) CreateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.ID = uuid.NewString()
	quiz.Questions = nil
	s.quizzes[quiz.ID] = quiz
	s.order = append(s.order, quiz.ID)
	return quiz, nil
}

func (s *QuizStore) UpdateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	quiz.Questions = nil
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.quizzes[id])
	}
	return out, nil
}

func (s *QuizStore) AddQuestion(_ context.Context, question domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[question.QuizID]; !ok {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	question.ID = uuid.NewString()
	s.questions[question.QuizID] = append(s.questions[question.QuizID], question)
	return question, nil
}

func (s *QuizStore) DeleteQuestions(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, quizID)
	return nil
}

// DeleteQuiz refuses to drop a quiz that still has questions.
func (s *QuizStore) DeleteQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	if len(s.questions[quizID]) > 0 {
		return domain.ErrInvalidQuiz
	}
	delete(s.quizzes, quizID)
	for i, id := range s.order {
		if id == quizID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// LoadQuiz joins a quiz with its questions; it satisfies QuizLoader.
func (s *QuizStore) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	questions := s.questions[quizID]
	quiz.Questions = make([]domain.Question, len(questions))
	copy(quiz.Questions, questions)
	return quiz, nil
}
