package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAuditDispatcherDeliversToSink(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)
	defer d.Close()

	d.Emit(context.Background(), AuditEvent{EventType: auditEventRefreshSuccess, Success: true})

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventRefreshSuccess || !event.Success {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestAuditDispatcherDropsWhenFull(t *testing.T) {
	gate := make(chan struct{})
	sink := &gateSink{gate: gate}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer d.Close()
	defer close(gate)

	d.Emit(context.Background(), AuditEvent{EventType: "one"})
	// Wait until the run loop has taken the event and is blocked in the sink.
	waitFor(t, func() bool { return len(d.ch) == 0 })

	d.Emit(context.Background(), AuditEvent{EventType: "two"})
	d.Emit(context.Background(), AuditEvent{EventType: "three"})

	if got := d.Dropped(); got != 1 {
		t.Fatalf("expected one dropped event, got %d", got)
	}
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditDisabledDispatcherIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled audit must not start a dispatcher")
	}
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero dropped")
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: auditEventLogout, Success: true})

	line := strings.TrimSpace(buf.String())
	var event AuditEvent
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		t.Fatalf("unmarshal line: %v", err)
	}
	if event.EventType != auditEventLogout {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestClientEmitsAuditEvents(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "a1",
			"refresh_token": "r1",
		})
	})
	sink := NewChannelSink(8)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New().
		WithBaseURL(srv.URL).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	if err := client.Login(context.Background(), "teacher@school.example", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventLoginSuccess {
			t.Fatalf("unexpected event type %q", event.EventType)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for login audit event")
	}
}
