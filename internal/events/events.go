package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the orchestration pipeline.
const (
	// TypeRunCompleted is emitted when a generation run persisted both
	// snapshots and is about to respond.
	TypeRunCompleted = "run.completed"

	// TypeRunFailed is emitted when a run fails after reservation and
	// the unwind path has executed.
	TypeRunFailed = "run.failed"

	// TypeReconciliationRequired is emitted when a refund failed after
	// an unwound run: the session has lost a credit that only operator
	// intervention can restore.
	TypeReconciliationRequired = "credit.reconciliation_required"
)

// RunCompletedPayload describes a successful run.
type RunCompletedPayload struct {
	ArtifactID string `json:"artifact_id"`
	OwnerKey   string `json:"owner_key"`
	Provider   string `json:"provider"`
}

// RunFailedPayload describes a failed run.
type RunFailedPayload struct {
	OwnerKey string `json:"owner_key"`
	Reason   string `json:"reason"`
}

// ReconciliationPayload identifies a session whose refund was lost.
type ReconciliationPayload struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// Event is one lifecycle notification. The payload is carried as JSON so
// handlers stay decoupled from the emitting package's types.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event of the given type with the payload
// serialized to JSON.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// Handler processes lifecycle events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// Emitter publishes events to registered handlers without the emitting
// component knowing who listens.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns the first handler error encountered, if any.
	EmitEvent(ctx context.Context, event *Event) error
}
