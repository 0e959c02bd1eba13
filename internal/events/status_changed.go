package events

import "time"

const (
	StatusChangedTopic = "sirh.records.status.v1"
	StatusChangedType  = "status_changed"
)

// StatusChangedEvent is emitted after every lifecycle action, e.g. an advance being validated.
type StatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	Resource   string    `json:"resource"`
	RecordID   string    `json:"record_id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}
