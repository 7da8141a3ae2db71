package domain

import "time"

// Option labels a question may carry.
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// Role separates quiz authors from quiz takers.
type Role string

const (
	RoleRecruiter Role = "RECRUITER"
	RoleCandidate Role = "CANDIDATE"
)

// User is a resolved principal. Authentication itself happens elsewhere.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Question models an MCQ question with four labelled options.
type Question struct {
	ID            string `json:"id"`
	QuizID        string `json:"quizId"`
	Text          string `json:"text"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption string `json:"correctOption,omitempty"`
}

// Option returns the text stored under label.
func (q Question) Option(label string) (string, bool) {
	switch label {
	case OptionA:
		return q.OptionA, true
	case OptionB:
		return q.OptionB, true
	case OptionC:
		return q.OptionC, true
	case OptionD:
		return q.OptionD, true
	}
	return "", false
}

// Validate checks that the correct label points at a filled option slot.
func (q Question) Validate() error {
	text, ok := q.Option(q.CorrectOption)
	if !ok || text == "" {
		return ErrInvalidQuestion
	}
	return nil
}

// WithoutAnswer strips the answer key for candidate-facing views.
func (q Question) WithoutAnswer() Question {
	q.CorrectOption = ""
	return q
}

// Quiz is a collection of questions owned by a recruiter.
type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"durationMinutes"`
	RecruiterID     string     `json:"recruiterId"`
	Questions       []Question `json:"questions"`
}

// AnswerSet maps question IDs to the selected option label.
type AnswerSet map[string]string

// Score is the outcome of grading one answer set against a quiz.
type Score struct {
	Correct    int
	Total      int
	Percentage float64
}

// Submission is an immutable record of one graded attempt.
type Submission struct {
	ID             string    `json:"id"`
	CandidateID    string    `json:"candidateId"`
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     float64   `json:"percentage"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// CandidateHistory is a candidate's submissions, most recent first.
type CandidateHistory struct {
	CandidateID       string       `json:"candidateId"`
	Submissions       []Submission `json:"submissions"`
	AveragePercentage float64      `json:"averagePercentage"`
	BestPercentage    float64      `json:"bestPercentage"`
}

// QuizResults summarizes every submission made against a quiz.
type QuizResults struct {
	QuizID            string       `json:"quizId"`
	Title             string       `json:"title"`
	Submissions       []Submission `json:"submissions"`
	AveragePercentage float64      `json:"averagePercentage"`
	HighestPercentage float64      `json:"highestPercentage"`
	LowestPercentage  float64      `json:"lowestPercentage"`
}
