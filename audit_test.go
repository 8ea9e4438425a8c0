package authcore

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestChannelSinkDelivery(t *testing.T) {
	sink := NewChannelSink(4)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4, DropIfFull: true}, sink)
	defer d.Close()

	event := NewAuditEvent("login", OutcomeSuccess)
	event.ActorID = "u-1"
	d.Emit(context.Background(), event)

	select {
	case got := <-sink.Events():
		if got.Action != "login" || got.ActorID != "u-1" {
			t.Fatalf("wrong event: %+v", got)
		}
		if got.ID == "" {
			t.Fatal("event id not assigned")
		}
	case <-time.After(time.Second):
		t.Fatal("event never reached the sink")
	}
}

func TestDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("disabled audit config produced a dispatcher")
	}
	// A nil dispatcher must be safe to use.
	d.Emit(context.Background(), NewAuditEvent("login", OutcomeSuccess))
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

type blockingSink struct {
	release chan struct{}
	once    sync.Once
}

func (s *blockingSink) Emit(context.Context, AuditEvent) {
	<-s.release
}

func (s *blockingSink) unblock() {
	s.once.Do(func() { close(s.release) })
}

func TestDispatcherDropsUnderBackpressure(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event occupies the consumer, second fills the buffer; the rest
	// must drop without blocking the caller.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), NewAuditEvent("login", OutcomeSuccess))
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}

	sink.unblock()
	d.Close()
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: true}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), NewAuditEvent("login", OutcomeSuccess))
	}
	d.Close()

	delivered := 0
	for {
		select {
		case <-sink.Events():
			delivered++
		default:
			if delivered != 5 {
				t.Fatalf("want 5 events drained, got %d", delivered)
			}
			return
		}
	}
}

func TestJSONWriterSinkLineFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	event := NewAuditEvent("password.change", OutcomeDenied)
	event.ActorID = "u-9"
	event.Detail = map[string]string{"reason": "policy_violation"}
	sink.Emit(context.Background(), event)

	line := buf.Bytes()
	if len(line) == 0 || line[len(line)-1] != '\n' {
		t.Fatal("expected newline-terminated record")
	}

	var decoded AuditEvent
	if err := json.Unmarshal(line, &decoded); err != nil {
		t.Fatalf("record not valid JSON: %v", err)
	}
	if decoded.Action != "password.change" || decoded.Outcome != OutcomeDenied {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if decoded.Detail["reason"] != "policy_violation" {
		t.Fatalf("detail lost: %+v", decoded.Detail)
	}
}
