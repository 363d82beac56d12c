package subscribers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/adamwoolhether/courier/message"
)

func TestLogger_LogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client, req := newClientRequest(t, http.MethodGet, "http://example.com/items")
	req.Emitter().AddSubscriber(NewLogger(log))
	client.ad.Enqueue(message.NewResponse(http.StatusTeapot, nil, nil))

	if _, err := client.Send(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "request started") {
		t.Errorf("expected start log, got %q", out)
	}
	if !strings.Contains(out, "request completed") {
		t.Errorf("expected completion log, got %q", out)
	}
	if !strings.Contains(out, "statusCode=418") {
		t.Errorf("expected the status code logged, got %q", out)
	}
	if !strings.Contains(out, "http://example.com/items") {
		t.Errorf("expected the url logged, got %q", out)
	}
}

func TestLogger_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client, req := newClientRequest(t, http.MethodGet, "http://example.com/items")
	req.Emitter().AddSubscriber(NewLogger(log))
	client.ad.EnqueueError(errors.New("connection refused"))

	if _, err := client.Send(req); err == nil {
		t.Fatal("expected error, got nil")
	}

	out := buf.String()
	if !strings.Contains(out, "request failed") {
		t.Errorf("expected failure log, got %q", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Errorf("expected the cause logged, got %q", out)
	}
	if strings.Contains(out, "request completed") {
		t.Errorf("expected no completion log for a failed attempt, got %q", out)
	}
}

func TestLogger_NilFallsBackToDefault(t *testing.T) {
	if NewLogger(nil).log == nil {
		t.Error("expected a usable logger")
	}
}
