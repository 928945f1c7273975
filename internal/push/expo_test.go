package push

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealcall-app-go/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func TestSendPostsExpoMessage(t *testing.T) {
	var got expoMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"data":[{"status":"ok"},{"status":"ok"}]}`))
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, testLogger())
	err := c.Send(context.Background(),
		[]string{"ExponentPushToken[a]", "ExpoPushToken[b]"},
		"🍚 아빠이(가) 밥먹자!", "밥 먹자!",
		map[string]string{"type": "MEAL_CALL", "meal_call_id": "call-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(got.To) != 2 {
		t.Fatalf("expected both tokens sent, got %v", got.To)
	}
	if got.Title != "🍚 아빠이(가) 밥먹자!" || got.Body != "밥 먹자!" {
		t.Fatalf("unexpected message %+v", got)
	}
	if got.Sound != "default" || got.Priority != "high" {
		t.Fatalf("expected default sound and high priority, got %+v", got)
	}
	if got.Data["meal_call_id"] != "call-1" {
		t.Fatalf("unexpected data %v", got.Data)
	}
}

func TestSendFiltersForeignTokens(t *testing.T) {
	var got expoMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"data":[{"status":"ok"}]}`))
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, testLogger())
	err := c.Send(context.Background(),
		[]string{"fcm-token-123", "ExponentPushToken[a]", "apns-token"},
		"title", "body", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.To) != 1 || got.To[0] != "ExponentPushToken[a]" {
		t.Fatalf("expected only the expo token, got %v", got.To)
	}
}

func TestSendAllForeignTokensIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, testLogger())
	if err := c.Send(context.Background(), []string{"fcm-token"}, "title", "body", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if called {
		t.Fatal("expected no request when no token is an expo token")
	}
}

func TestSendSplitsLargeBatches(t *testing.T) {
	var batches []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg expoMessage
		json.NewDecoder(r.Body).Decode(&msg)
		batches = append(batches, len(msg.To))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	tokens := make([]string, 0, 150)
	for i := 0; i < 150; i++ {
		tokens = append(tokens, "ExponentPushToken[t]")
	}

	c := NewExpoClient(srv.URL, testLogger())
	if err := c.Send(context.Background(), tokens, "title", "body", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(batches) != 2 || batches[0] != 100 || batches[1] != 50 {
		t.Fatalf("expected batches of 100 and 50, got %v", batches)
	}
}

func TestSendSurfacesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, testLogger())
	err := c.Send(context.Background(), []string{"ExponentPushToken[a]"}, "title", "body", nil)
	if err == nil {
		t.Fatal("expected an error for a non-200 status")
	}
}

func TestSendToleratesPerTicketErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"status":"error","message":"not registered","details":{"error":"DeviceNotRegistered"}},{"status":"ok"}]}`))
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, testLogger())
	err := c.Send(context.Background(),
		[]string{"ExponentPushToken[dead]", "ExponentPushToken[live]"},
		"title", "body", nil)
	if err != nil {
		t.Fatalf("expected per-ticket errors to be tolerated, got %v", err)
	}
}
