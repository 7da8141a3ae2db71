package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"quiz-platform/internal/domain"
)

type quizRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=2000"`
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0,lte=1440"`
}

func (q quizRequest) toDomain() domain.Quiz {
	return domain.Quiz{Title: q.Title, Description: q.Description, DurationMinutes: q.DurationMinutes}
}

type questionRequest struct {
	Text          string `json:"text" validate:"required"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption string `json:"correctOption" validate:"required,oneof=A B C D"`
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	var req quizRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	quiz, err := h.quizzes.CreateQuiz(r.Context(), recruiter.ID, req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) listOwnQuizzes(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	quizzes, err := h.quizzes.ListRecruiterQuizzes(r.Context(), recruiter.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) updateQuiz(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	var req quizRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	quiz, err := h.quizzes.UpdateQuiz(r.Context(), recruiter.ID, chi.URLParam(r, "quizID"), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	if err := h.quizzes.DeleteQuiz(r.Context(), recruiter.ID, chi.URLParam(r, "quizID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	quiz, err := h.quizzes.OwnedQuiz(r.Context(), recruiter.ID, chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	question, err := h.quizzes.AddQuestion(r.Context(), recruiter.ID, chi.URLParam(r, "quizID"), domain.Question{
		Text:          req.Text,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) quizResults(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	results, err := h.submissions.RecruiterQuizResults(r.Context(), recruiter.ID, chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
