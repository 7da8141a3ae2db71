package app

import (
	"time"

	"quiz-platform/internal/domain"
)

// MatchAnswer reports whether a submitted label is the question's correct option.
// answered is false when the candidate left the question blank. The comparison is
// exact: no trimming, no case folding, no partial credit.
func MatchAnswer(q domain.Question, submitted string, answered bool) bool {
	return answered && submitted == q.CorrectOption
}

// ScoreAnswers grades an answer set against every question of a quiz.
// Total is the number of questions, not answers, so blanks count as wrong.
func ScoreAnswers(questions []domain.Question, answers domain.AnswerSet) domain.Score {
	score := domain.Score{Total: len(questions)}
	for _, q := range questions {
		submitted, ok := answers[q.ID]
		if MatchAnswer(q, submitted, ok) {
			score.Correct++
		}
	}
	score.Percentage = percentage(score.Correct, score.Total)
	return score
}

func percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// NewSubmission builds the record for a graded attempt; the store assigns its ID.
func NewSubmission(quizID, candidateID string, score domain.Score, at time.Time) domain.Submission {
	return domain.Submission{
		CandidateID:    candidateID,
		QuizID:         quizID,
		Score:          score.Correct,
		TotalQuestions: score.Total,
		Percentage:     score.Percentage,
		SubmittedAt:    at,
	}
}
