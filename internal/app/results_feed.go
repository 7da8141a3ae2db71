package app

import (
	"sync"

	"quiz-platform/internal/domain"
)

// ResultsFeed fans stored submissions out to subscribers of the same quiz.
// It satisfies SubmissionPublisher.
type ResultsFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Submission]struct{}
}

func NewResultsFeed() *ResultsFeed {
	return &ResultsFeed{subscribers: make(map[string]map[chan domain.Submission]struct{})}
}

// Subscribe returns a channel receiving submissions for quizID.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ResultsFeed) Subscribe(quizID string) (<-chan domain.Submission, func()) {
	ch := make(chan domain.Submission, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[quizID]
	if !ok {
		subs = make(map[chan domain.Submission]struct{})
		f.subscribers[quizID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs, ok := f.subscribers[quizID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(f.subscribers, quizID)
		}
	}
	return ch, cancel
}

// Publish delivers a submission without blocking; a full subscriber loses its oldest update.
func (f *ResultsFeed) Publish(submission domain.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[submission.QuizID] {
		select {
		case ch <- submission:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- submission
		}
	}
}

// Subscribers reports how many listeners a quiz has.
func (f *ResultsFeed) Subscribers(quizID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[quizID])
}
