package audit

import (
	"context"
	"time"
)

// Event types emitted by the engine.
const (
	EventTokenMinted   = "token_minted"
	EventTokenVerified = "token_verified"
	EventTokenRejected = "token_rejected"
)

// Event is one token lifecycle record. Reason carries the internal
// verification outcome and is never returned to API callers.
type Event struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	EventType  string            `json:"event_type"`
	UserID     string            `json:"user_id,omitempty"`
	TokenClass string            `json:"token_class"`
	Success    bool              `json:"success"`
	Reason     string            `json:"reason,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Sink receives dispatched events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event Event)

func (f SinkFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }

type noopSink struct{}

func (noopSink) Emit(context.Context, Event) {}
