package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-platform/internal/domain"
)

// QuizStore keeps quizzes and questions in Postgres. It also serves as the
// QuizLoader behind the caching repositories.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	quiz.ID = uuid.NewString()
	quiz.Questions = nil
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quizzes (id, title, description, duration_minutes, recruiter_id) VALUES ($1, $2, $3, $4, $5)`,
		quiz.ID, quiz.Title, quiz.Description, quiz.DurationMinutes, quiz.RecruiterID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) UpdateQuiz(ctx context.Context, quiz domain.Quiz) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE quizzes SET title=$2, description=$3, duration_minutes=$4 WHERE id=$1`,
		quiz.ID, quiz.Title, quiz.Description, quiz.DurationMinutes)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, duration_minutes, recruiter_id FROM quizzes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]domain.Quiz, 0)
	for rows.Next() {
		var q domain.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.DurationMinutes, &q.RecruiterID); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// AddQuestion appends the question at the end of its quiz.
func (s *QuizStore) AddQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	question.ID = uuid.NewString()
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO questions (id, quiz_id, position, question_text, option_a, option_b, option_c, option_d, correct_option)
		SELECT $1, $2, COALESCE((SELECT MAX(position) FROM questions WHERE quiz_id=$2), 0) + 1, $3, $4, $5, $6, $7, $8
		WHERE EXISTS (SELECT 1 FROM quizzes WHERE id=$2)`,
		question.ID, question.QuizID, question.Text,
		question.OptionA, question.OptionB, question.OptionC, question.OptionD, question.CorrectOption)
	if err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	return question, nil
}

func (s *QuizStore) DeleteQuestions(ctx context.Context, quizID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE quiz_id=$1`, quizID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, quizID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// LoadQuiz reads a quiz and its questions in position order.
func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, duration_minutes, recruiter_id FROM quizzes WHERE id=$1`, quizID).
		Scan(&quiz.ID, &quiz.Title, &quiz.Description, &quiz.DurationMinutes, &quiz.RecruiterID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, quiz_id, question_text, option_a, option_b, option_c, option_d, correct_option
		FROM questions WHERE quiz_id=$1 ORDER BY position`, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	quiz.Questions = make([]domain.Question, 0)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption); err != nil {
			return domain.Quiz{}, fmt.Errorf("scan question: %w", err)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	return quiz, nil
}
