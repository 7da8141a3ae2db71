package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-platform/internal/domain"
)

// SubmissionStore appends graded attempts to the submissions table.
// Concurrent saves need no locking: rows are never updated.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

const submissionColumns = `id, candidate_id, quiz_id, score, total_questions, percentage, submitted_at`

func (s *SubmissionStore) Save(ctx context.Context, submission domain.Submission) (domain.Submission, error) {
	submission.ID = uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO submissions (`+submissionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		submission.ID, submission.CandidateID, submission.QuizID, submission.Score,
		submission.TotalQuestions, submission.Percentage, submission.SubmittedAt)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("insert submission: %w", err)
	}
	return submission, nil
}

func (s *SubmissionStore) FindByCandidate(ctx context.Context, candidateID string) ([]domain.Submission, error) {
	return s.query(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE candidate_id=$1`, candidateID)
}

func (s *SubmissionStore) FindByCandidateOrderedByTimeDesc(ctx context.Context, candidateID string) ([]domain.Submission, error) {
	return s.query(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE candidate_id=$1 ORDER BY submitted_at DESC`, candidateID)
}

func (s *SubmissionStore) FindByQuiz(ctx context.Context, quizID string) ([]domain.Submission, error) {
	return s.query(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE quiz_id=$1`, quizID)
}

func (s *SubmissionStore) query(ctx context.Context, sql string, arg string) ([]domain.Submission, error) {
	rows, err := s.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Submission, 0)
	for rows.Next() {
		var sub domain.Submission
		if err := rows.Scan(&sub.ID, &sub.CandidateID, &sub.QuizID, &sub.Score,
			&sub.TotalQuestions, &sub.Percentage, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
