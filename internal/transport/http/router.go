package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

// Handler exposes the quiz platform over HTTP and websockets.
type Handler struct {
	quizzes     *app.QuizService
	submissions *app.SubmissionService
	feed        *app.ResultsFeed
	auth        *Authenticator
	upgrader    websocket.Upgrader
}

func NewHandler(quizzes *app.QuizService, submissions *app.SubmissionService, feed *app.ResultsFeed, auth *Authenticator) *Handler {
	return &Handler{
		quizzes:     quizzes,
		submissions: submissions,
		feed:        feed,
		auth:        auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Middleware)

		r.Route("/recruiter/quizzes", func(r chi.Router) {
			r.Use(RequireRole(domain.RoleRecruiter))
			r.Post("/", h.createQuiz)
			r.Get("/", h.listOwnQuizzes)
			r.Route("/{quizID}", func(r chi.Router) {
				r.Put("/", h.updateQuiz)
				r.Delete("/", h.deleteQuiz)
				r.Get("/questions", h.listQuestions)
				r.Post("/questions", h.addQuestion)
				r.Get("/results", h.quizResults)
			})
		})

		r.Route("/candidate", func(r chi.Router) {
			r.Use(RequireRole(domain.RoleCandidate))
			r.Get("/quizzes", h.listQuizzes)
			r.Get("/quizzes/{quizID}", h.takeQuiz)
			r.Post("/quizzes/{quizID}/submit", h.submitQuiz)
			r.Get("/submissions", h.listSubmissions)
			r.Get("/results", h.candidateResults)
		})

		r.With(RequireRole(domain.RoleRecruiter)).Get("/ws/quizzes/{quizID}/results", h.serveResultsFeed)
	})
	return r
}
