package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-platform/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuizLoader: NewSeededQuizStore(sampleQuiz())}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryInvalidateReloads(t *testing.T) {
	ctx := context.Background()
	store := NewSeededQuizStore(sampleQuiz())
	loader := &countingLoader{QuizLoader: store}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if _, err := store.AddQuestion(ctx, domain.Question{QuizID: "quiz-1", Text: "1 + 1?", OptionA: "2", OptionB: "3", CorrectOption: "A"}); err != nil {
		t.Fatalf("add question: %v", err)
	}
	if err := repo.Invalidate(ctx, "quiz-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	quiz, err := repo.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz after invalidate: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions after reload, got %d", len(quiz.Questions))
	}
}

func TestQuizRepositoryDropsLoadRacingInvalidate(t *testing.T) {
	ctx := context.Background()
	loader := &invalidatingLoader{QuizLoader: NewSeededQuizStore(sampleQuiz())}
	repo := NewQuizRepository(loader, time.Minute)
	loader.repo = repo

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected stale load to skip the cache, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryUnknownQuiz(t *testing.T) {
	repo := NewQuizRepository(NewQuizStore(), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

// invalidatingLoader invalidates the quiz while its first load is in flight.
type invalidatingLoader struct {
	QuizLoader
	repo  *QuizRepository
	calls int
}

func (l *invalidatingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	quiz, err := l.QuizLoader.LoadQuiz(ctx, quizID)
	if l.calls == 1 {
		_ = l.repo.Invalidate(ctx, quizID)
	}
	return quiz, err
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:          "quiz-1",
		Title:       "Arithmetic",
		RecruiterID: "r1",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Text:          "What is 2 + 2?",
				OptionA:       "3",
				OptionB:       "4",
				OptionC:       "5",
				OptionD:       "22",
				CorrectOption: "B",
			},
		},
	}
}
