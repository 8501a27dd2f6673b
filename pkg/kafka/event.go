package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EnvelopeVersion is bumped when the Event layout changes incompatibly.
const EnvelopeVersion = 1

// Event is the envelope for every message the storefront publishes. Payloads
// live in Data; the envelope only says what happened, to which aggregate, and
// on whose behalf.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates an event with a random ID stamped now. The aggregate ID is
// also the message key, so all events for one order or one shopper land on
// the same partition in order.
func NewEvent(eventType, aggregateType, aggregateID, source string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Version:       EnvelopeVersion,
		OccurredAt:    time.Now().UTC(),
		Source:        source,
		Data:          payload,
	}, nil
}

// IDString formats a serial id as an aggregate ID.
func IDString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// WithCorrelationID ties the event to the HTTP request that caused it.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithUser records the authenticated shopper or admin who caused the event.
func (e *Event) WithUser(id string) *Event {
	e.UserID = id
	return e
}

func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalData decodes the payload into target.
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
