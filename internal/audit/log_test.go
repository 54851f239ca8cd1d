package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"marketcore.dev/internal/auth"
	"marketcore.dev/internal/obs"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger := obs.Logger()
	orig := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(orig) })
	return &buf
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected an error for a blank event name")
	}
}

func TestLogEventCarriesRequestAndActor(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{UserID: 42, Email: "actor@example.com"})

	err := LogEvent(ctx, "auth.user.login", map[string]any{"remember_me": true})
	if err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if entry["type"] != "audit" {
		t.Fatalf("unexpected type: %v", entry["type"])
	}
	if entry["event"] != "auth.user.login" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", entry["request_id"])
	}
	if entry["actor_id"] != float64(42) {
		t.Fatalf("unexpected actor: %v", entry["actor_id"])
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["remember_me"] != true {
		t.Fatalf("fields not carried: %v", entry["fields"])
	}
}

func TestLogEventWithoutContextEnrichment(t *testing.T) {
	buf := captureLog(t)

	if err := LogEvent(context.Background(), "auth.user.logout", nil); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if _, ok := entry["request_id"]; ok {
		t.Fatal("request_id should be absent")
	}
	if _, ok := entry["actor_id"]; ok {
		t.Fatal("actor_id should be absent")
	}
}
