package app_test

import (
	"testing"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

func TestResultsFeedRoutesByQuiz(t *testing.T) {
	feed := app.NewResultsFeed()
	ch1, cancel1 := feed.Subscribe("quiz-1")
	defer cancel1()
	ch2, cancel2 := feed.Subscribe("quiz-2")
	defer cancel2()

	feed.Publish(domain.Submission{ID: "s1", QuizID: "quiz-1"})

	if got := <-ch1; got.ID != "s1" {
		t.Fatalf("expected s1 on quiz-1 feed, got %q", got.ID)
	}
	select {
	case got := <-ch2:
		t.Fatalf("quiz-2 subscriber should not receive %q", got.ID)
	default:
	}
}

func TestResultsFeedDropsStaleForSlowSubscriber(t *testing.T) {
	feed := app.NewResultsFeed()
	ch, cancel := feed.Subscribe("quiz-1")
	defer cancel()

	for i := 0; i < 20; i++ {
		feed.Publish(domain.Submission{ID: string(rune('a' + i)), QuizID: "quiz-1"})
	}

	var last domain.Submission
	n := 0
	for len(ch) > 0 {
		last = <-ch
		n++
	}
	if n != 8 {
		t.Fatalf("expected buffer of 8 latest updates, got %d", n)
	}
	if last.ID != string(rune('a'+19)) {
		t.Fatalf("expected latest submission kept, got %q", last.ID)
	}
}

func TestResultsFeedCancel(t *testing.T) {
	feed := app.NewResultsFeed()
	ch, cancel := feed.Subscribe("quiz-1")
	if feed.Subscribers("quiz-1") != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after cancel")
	}
	if feed.Subscribers("quiz-1") != 0 {
		t.Fatalf("expected no subscribers after cancel")
	}
	feed.Publish(domain.Submission{QuizID: "quiz-1"})
}
