package authcore

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carelink/authcore/rbac"
)

// AuditEvent is one security-relevant occurrence. Events are immutable once
// emitted; the dispatcher never blocks the operation that produced them.
type AuditEvent struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	ActorID       string    `json:"actor_id,omitempty"`
	Role          rbac.Role `json:"role,omitempty"`
	TenantID      string    `json:"tenant_id,omitempty"`
	SessionID     string    `json:"session_id,omitempty"`
	ResourceType  string    `json:"resource_type,omitempty"`
	ResourceID    string    `json:"resource_id,omitempty"`
	Outcome       string    `json:"outcome"`
	NetworkOrigin string    `json:"network_origin,omitempty"`

	Detail map[string]string `json:"detail,omitempty"`
}

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeFailure = "failure"
)

// NewAuditEvent starts an event with a fresh ID and timestamp. Callers
// fill in the actor and detail fields before emitting.
func NewAuditEvent(action, outcome string) AuditEvent {
	return AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Outcome:   outcome,
	}
}

// AuditSink receives audit events from the dispatcher. Implementations must
// be safe for concurrent use and must never panic on malformed events.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a buffered channel for consumption by the
// caller's own pipeline.
type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink appends one JSON object per line to the writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// ZerologSink renders events as structured log lines on the given logger.
type ZerologSink struct {
	logger zerolog.Logger
}

func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

func (s *ZerologSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil {
		return
	}
	evt := s.logger.Info()
	if event.Outcome != OutcomeSuccess {
		evt = s.logger.Warn()
	}
	evt = evt.
		Str("audit_id", event.ID).
		Str("action", event.Action).
		Str("outcome", event.Outcome).
		Time("at", event.Timestamp)
	if event.ActorID != "" {
		evt = evt.Str("actor_id", event.ActorID)
	}
	if event.Role != "" {
		evt = evt.Str("role", string(event.Role))
	}
	if event.SessionID != "" {
		evt = evt.Str("session_id", event.SessionID)
	}
	if event.NetworkOrigin != "" {
		evt = evt.Str("origin", event.NetworkOrigin)
	}
	for k, v := range event.Detail {
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}
