package logging

import (
	"context"
	"time"
)

// EventType is the severity or role of a logged event.
type EventType string

const (
	EventTypeDebug    EventType = "debug"
	EventTypeInfo     EventType = "info"
	EventTypeWarning  EventType = "warning"
	EventTypeError    EventType = "error"
	EventTypeProgress EventType = "progress"
)

// Event is a single log entry with its metadata and payload.
type Event struct {
	Type      EventType
	Name      string
	Namespace string
	Message   string
	Timestamp time.Time
	Data      map[string]interface{}
}

// Logger is the developer-facing logging interface used throughout the
// runtime. Every call takes a context so future correlation-ID propagation
// has somewhere to live, even though no implementation here reads it yet.
type Logger interface {
	Debug(ctx context.Context, msg string, opts ...EventOption)
	Info(ctx context.Context, msg string, opts ...EventOption)
	Warning(ctx context.Context, msg string, opts ...EventOption)
	Error(ctx context.Context, msg string, opts ...EventOption)
	// Progress marks a long-running operation's intermediate state, e.g.
	// one iteration of a multi-round tool loop. Emitted at info level.
	Progress(ctx context.Context, msg string, opts ...EventOption)
}

// EventOption sets an optional field on an Event before it is emitted.
type EventOption func(*Event)

// WithName tags the event with a short event name distinct from the
// free-text message, e.g. "tool.execute" or "iteration.cap".
func WithName(name string) EventOption {
	return func(e *Event) { e.Name = name }
}

// WithData attaches structured fields to the event.
func WithData(data map[string]interface{}) EventOption {
	return func(e *Event) { e.Data = data }
}
