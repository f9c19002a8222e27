package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter dispatches events synchronously to handlers registered
// in the same process.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// Ensure InMemoryEmitter implements Emitter interface
var _ Emitter = (*InMemoryEmitter)(nil)

// NewInMemoryEmitter creates a new InMemoryEmitter. If logger is nil, a
// default logger will be used.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		logger: logger.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// EmitEvent publishes the given event to all registered handlers. A
// failing handler does not stop delivery to the others; the first error
// encountered is returned.
func (e *InMemoryEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// LogHandler writes every event to the structured log. It is the default
// handler registered at startup so lifecycle events always leave a
// trace.
type LogHandler struct {
	logger *slog.Logger
}

// Ensure LogHandler implements Handler interface
var _ Handler = (*LogHandler)(nil)

// NewLogHandler creates a LogHandler. If logger is nil, a default logger
// will be used.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{logger: logger.With(slog.String("component", "event_log"))}
}

// HandleEvent logs the event. Reconciliation events are logged at ERROR
// level so they surface in alerting; everything else is informational.
func (h *LogHandler) HandleEvent(ctx context.Context, event *Event) error {
	level := slog.LevelInfo
	if event.Type == TypeReconciliationRequired {
		level = slog.LevelError
	}

	h.logger.Log(ctx, level, "lifecycle event",
		"event_id", event.ID,
		"event_type", event.Type,
		"payload", string(event.Payload))

	return nil
}
