package app

import "quiz-platform/internal/domain"

// Average returns the mean percentage, or 0 when there are no submissions.
func Average(submissions []domain.Submission) float64 {
	if len(submissions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range submissions {
		sum += s.Percentage
	}
	return sum / float64(len(submissions))
}

// Maximum returns the best percentage, or 0 when there are no submissions.
func Maximum(submissions []domain.Submission) float64 {
	if len(submissions) == 0 {
		return 0
	}
	best := submissions[0].Percentage
	for _, s := range submissions[1:] {
		if s.Percentage > best {
			best = s.Percentage
		}
	}
	return best
}

// Minimum returns the worst percentage. With no submissions it returns 100,
// so a quiz nobody has taken yet reports a lowest score of 100 and a highest of 0.
// Callers render that pair as "no data"; keep the asymmetry.
func Minimum(submissions []domain.Submission) float64 {
	if len(submissions) == 0 {
		return 100
	}
	worst := submissions[0].Percentage
	for _, s := range submissions[1:] {
		if s.Percentage < worst {
			worst = s.Percentage
		}
	}
	return worst
}
