package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"readiness-quiz-service/internal/app"
	"readiness-quiz-service/internal/infra/memory"
	"readiness-quiz-service/internal/quiz"
)

func newWSTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(quiz.DefaultBank()), time.Minute)
	service := app.NewQuizService(store, banks, nil, nil, nil)
	wsHandler := NewWSHandler(service, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	return httptest.NewServer(mux)
}

func dialWS(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (payload %v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func TestWebSocketQuickCheckFlow(t *testing.T) {
	server := newWSTestServer(t)
	defer server.Close()

	conn := dialWS(t, server, "s1")
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":    "start",
		"payload": map[string]any{"mode": "schnell_check"},
	}); err != nil {
		t.Fatalf("write start: %v", err)
	}

	_, payload := readNext(conn, t, "question")
	total := int(payload["total"].(float64))
	if total != 7 {
		t.Fatalf("expected 7 questions, got %d", total)
	}
	question := payload["question"].(map[string]any)

	for i := 0; i < total; i++ {
		questionID := question["id"].(string)
		options := question["options"].([]any)
		optionID := options[0].(map[string]any)["id"].(string)

		if err := conn.WriteJSON(map[string]any{
			"type":    "answer",
			"payload": map[string]any{"questionId": questionID, "selectedOptionIds": []string{optionID}},
		}); err != nil {
			t.Fatalf("write answer: %v", err)
		}
		if err := conn.WriteJSON(map[string]any{"type": "next"}); err != nil {
			t.Fatalf("write next: %v", err)
		}

		msgType, payload := readNext(conn, t, "")
		if msgType == "leadForm" {
			if i != total-1 {
				t.Fatalf("lead form arrived early at question %d", i)
			}
			if _, ok := payload["totalPercentage"]; !ok {
				t.Fatalf("lead form must tease the total, got %v", payload)
			}
			return
		}
		if msgType != "question" {
			t.Fatalf("expected question, got %s (%v)", msgType, payload)
		}
		question = payload["question"].(map[string]any)
	}
	t.Fatalf("never reached the lead form")
}

func TestWebSocketSkipLeadDeliversFallback(t *testing.T) {
	server := newWSTestServer(t)
	defer server.Close()

	conn := dialWS(t, server, "s1")
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":    "start",
		"payload": map[string]any{"mode": "schnell_check"},
	}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	readNext(conn, t, "question")

	// Skip every question straight to the lead form.
	for {
		if err := conn.WriteJSON(map[string]any{"type": "next"}); err != nil {
			t.Fatalf("write next: %v", err)
		}
		msgType, _ := readNext(conn, t, "")
		if msgType == "leadForm" {
			break
		}
	}

	if err := conn.WriteJSON(map[string]any{"type": "skipLead"}); err != nil {
		t.Fatalf("write skipLead: %v", err)
	}

	_, payload := readNext(conn, t, "result")
	analysis, ok := payload["analysis"].(map[string]any)
	if !ok {
		t.Fatalf("expected analysis in result, got %v", payload)
	}
	if loading, _ := analysis["loading"].(bool); loading {
		t.Fatalf("skip path must deliver a settled analysis")
	}
	if analysis["summary"] == "" {
		t.Fatalf("expected fallback summary")
	}

	// Unanswered quick check lands on the floor.
	results := payload["results"].(map[string]any)
	if pct := int(results["totalPercentage"].(float64)); pct != 25 {
		t.Fatalf("expected floored total 25, got %d", pct)
	}
}

func TestWebSocketRejectsUnknownMode(t *testing.T) {
	server := newWSTestServer(t)
	defer server.Close()

	conn := dialWS(t, server, "s1")
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":    "start",
		"payload": map[string]any{"mode": "raketen_modus"},
	}); err != nil {
		t.Fatalf("write start: %v", err)
	}

	readNext(conn, t, "error")
}

func TestWebSocketRestartReturnsToIntro(t *testing.T) {
	server := newWSTestServer(t)
	defer server.Close()

	conn := dialWS(t, server, "s1")
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":    "start",
		"payload": map[string]any{"mode": "schnell_check"},
	}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	readNext(conn, t, "question")

	if err := conn.WriteJSON(map[string]any{"type": "restart"}); err != nil {
		t.Fatalf("write restart: %v", err)
	}
	readNext(conn, t, "intro")

	// A fresh start must work after the restart.
	if err := conn.WriteJSON(map[string]any{
		"type":    "start",
		"payload": map[string]any{"mode": "detaillierte_analyse"},
	}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	readNext(conn, t, "question")
}

func TestWebSocketRequiresSessionID(t *testing.T) {
	server := newWSTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
