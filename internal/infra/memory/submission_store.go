package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"quiz-platform/internal/domain"
)

// SubmissionStore is an append-only, in-memory implementation of app.SubmissionStore.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions []domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{}
}

func (s *SubmissionStore) Save(_ context.Context, submission domain.Submission) (domain.Submission, error) {
	submission.ID = uuid.NewString()
	s.mu.Lock()
	s.submissions = append(s.submissions, submission)
	s.mu.Unlock()
	return submission, nil
}

func (s *SubmissionStore) FindByCandidate(_ context.Context, candidateID string) ([]domain.Submission, error) {
	return s.filter(func(sub domain.Submission) bool { return sub.CandidateID == candidateID }), nil
}

func (s *SubmissionStore) FindByCandidateOrderedByTimeDesc(ctx context.Context, candidateID string) ([]domain.Submission, error) {
	out, err := s.FindByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *SubmissionStore) FindByQuiz(_ context.Context, quizID string) ([]domain.Submission, error) {
	return s.filter(func(sub domain.Submission) bool { return sub.QuizID == quizID }), nil
}

func (s *SubmissionStore) filter(keep func(domain.Submission) bool) []domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, 0)
	for _, sub := range s.submissions {
		if keep(sub) {
			out = append(out, sub)
		}
	}
	return out
}
