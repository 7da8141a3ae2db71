package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"quiz-platform/internal/domain"
)

// formAnswerPrefix is the key prefix used by HTML quiz forms: question_<id>=<label>.
const formAnswerPrefix = "question_"

type submitRequest struct {
	Answers map[string]string `json:"answers"`
}

type submitResponse struct {
	Submission     domain.Submission `json:"submission"`
	CorrectAnswers int               `json:"correctAnswers"`
	TotalQuestions int               `json:"totalQuestions"`
	Percentage     float64           `json:"percentage"`
}

func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

// takeQuiz serves a quiz without its answer keys.
func (h *Handler) takeQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	questions := make([]domain.Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, q.WithoutAnswer())
	}
	quiz.Questions = questions
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	candidate, _ := principalFrom(r.Context())
	answers, err := answersFrom(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid answers payload")
		return
	}
	sub, err := h.submissions.Submit(r.Context(), chi.URLParam(r, "quizID"), candidate.ID, answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{
		Submission:     sub,
		CorrectAnswers: sub.Score,
		TotalQuestions: sub.TotalQuestions,
		Percentage:     sub.Percentage,
	})
}

func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	candidate, _ := principalFrom(r.Context())
	history, err := h.submissions.CandidateHistory(r.Context(), candidate.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history.Submissions)
}

func (h *Handler) candidateResults(w http.ResponseWriter, r *http.Request) {
	candidate, _ := principalFrom(r.Context())
	history, err := h.submissions.CandidateHistory(r.Context(), candidate.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// answersFrom accepts a JSON body or an HTML form. Labels are passed through
// untouched; unknown labels simply score as wrong.
func answersFrom(r *http.Request) (domain.AnswerSet, error) {
	answers := domain.AnswerSet{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				answers[strings.TrimPrefix(key, formAnswerPrefix)] = values[0]
			}
		}
		return answers, nil
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for key, label := range req.Answers {
		answers[strings.TrimPrefix(key, formAnswerPrefix)] = label
	}
	return answers, nil
}
