package http

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// serveResultsFeed streams a quiz's results to its owner: one "results" snapshot on
// connect, then a "submission" and a refreshed "results" message per new submission.
func (h *Handler) serveResultsFeed(w http.ResponseWriter, r *http.Request) {
	recruiter, _ := principalFrom(r.Context())
	quizID := chi.URLParam(r, "quizID")

	// Subscribe before the snapshot so nothing stored in between is missed.
	updates, cancel := h.feed.Subscribe(quizID)
	defer cancel()

	snapshot, err := h.submissions.RecruiterQuizResults(r.Context(), recruiter.ID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	// The server's read/write timeouts carry over to the hijacked connection.
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	readerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				for range send {
				}
				return
			}
		}
	}()

	// Inbound frames are ignored; reading only detects the client going away.
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "results", Payload: snapshot}

loop:
	for {
		select {
		case sub, ok := <-updates:
			if !ok {
				break loop
			}
			send <- outboundMessage[any]{Type: "submission", Payload: sub}
			results, err := h.submissions.QuizResults(r.Context(), quizID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Error: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "results", Payload: results}
		case <-readerDone:
			break loop
		}
	}

	close(send)
	<-writerDone
}
