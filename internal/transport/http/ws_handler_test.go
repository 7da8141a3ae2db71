package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"quiz-platform/internal/domain"
)

func TestResultsFeedOverWebSocket(t *testing.T) {
	srv := newTestServer(t)
	server := httptest.NewServer(srv.handler)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/quizzes/quiz-1/results?access_token=" + srv.token(t, "recruiter1")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the initial snapshot first.
	typ, payload := readNext(conn, t)
	if typ != "results" {
		t.Fatalf("expected results, got %s", typ)
	}
	if payload["lowestPercentage"] != float64(100) {
		t.Fatalf("expected empty snapshot, got %+v", payload)
	}

	if _, err := srv.submissions.Submit(context.Background(), "quiz-1", "candidate1", domain.AnswerSet{"q1": "A"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	submissionSeen := false
	var refreshed map[string]any
	for i := 0; i < 2; i++ {
		typ, payload := readNext(conn, t)
		switch typ {
		case "submission":
			submissionSeen = true
		case "results":
			refreshed = payload
		}
	}
	if !submissionSeen || refreshed == nil {
		t.Fatalf("expected submission and results, got submission=%v results=%v", submissionSeen, refreshed != nil)
	}
	if refreshed["averagePercentage"] != float64(25) {
		t.Fatalf("expected average 25, got %v", refreshed["averagePercentage"])
	}
}

func TestResultsFeedRejectsNonOwner(t *testing.T) {
	srv := newTestServer(t)
	server := httptest.NewServer(srv.handler)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/quizzes/quiz-1/results?access_token=" + srv.token(t, "recruiter2")
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail for non-owner")
	}
	if resp == nil || resp.StatusCode != 403 {
		t.Fatalf("expected 403 handshake response, got %+v", resp)
	}
	if n := srv.feed.Subscribers("quiz-1"); n != 0 {
		t.Fatalf("expected subscription released, got %d", n)
	}
}

func readNext(conn *websocket.Conn, t *testing.T) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}
