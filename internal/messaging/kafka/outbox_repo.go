package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/store"

	"github.com/google/uuid"
)

const (
	OutboxCollection = "outboxEvents"

	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"

	maxErrorLength = 500
)

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

// NewOutboxEvent encodes payload into a pending event carrying the request id found in ctx.
func NewOutboxEvent(ctx context.Context, topic, eventType, aggregateType, aggregateID string, payload any) (OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       raw,
		Status:        OutboxStatusPending,
	}, nil
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	events store.Collection
	now    func() time.Time
}

func NewOutboxRepository(s store.Store) OutboxRepository {
	return &outboxRepository{
		events: s.Collection(OutboxCollection),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	now := r.now().Format(time.RFC3339)
	_, err := r.events.Push(ctx, store.Record{
		"id":             event.ID,
		"request_id":     event.RequestID,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID,
		"event_type":     event.EventType,
		"topic":          event.Topic,
		"payload":        string(event.Payload),
		"status":         event.Status,
		"retry_count":    0,
		"next_retry_at":  nil,
		"created_at":     now,
		"updated_at":     now,
	})
	return err
}

// ListPending returns pending and failed events due for (re)delivery, oldest first.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	now := r.now()
	due, err := r.events.Filter(ctx, func(rec store.Record) bool {
		status := rec.Text("status")
		if status != OutboxStatusPending && status != OutboxStatusFailed {
			return false
		}
		next := rec.Text("next_retry_at")
		if next == "" {
			return true
		}
		at, err := time.Parse(time.RFC3339, next)
		return err != nil || !at.After(now)
	})
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	out := make([]OutboxEvent, 0, len(due))
	for _, rec := range due {
		out = append(out, toOutboxEvent(rec))
	}
	return out, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	now := r.now().Format(time.RFC3339)
	_, err := r.events.Assign(ctx, id, store.Record{
		"status":        OutboxStatusSent,
		"processed_at":  now,
		"error_message": nil,
		"updated_at":    now,
	})
	return err
}

// MarkFailed schedules the next attempt after min(retry+1, 10) × 15s.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	rec, err := r.events.Get(ctx, id)
	if err != nil {
		return err
	}

	retries, _ := rec.Float("retry_count")
	backoff := int(retries) + 1
	if backoff > 10 {
		backoff = 10
	}
	if len(reason) > maxErrorLength {
		reason = reason[:maxErrorLength]
	}

	now := r.now()
	_, err = r.events.Assign(ctx, id, store.Record{
		"status":        OutboxStatusFailed,
		"retry_count":   int(retries) + 1,
		"error_message": reason,
		"next_retry_at": now.Add(time.Duration(backoff) * 15 * time.Second).Format(time.RFC3339),
		"updated_at":    now.Format(time.RFC3339),
	})
	return err
}

func toOutboxEvent(rec store.Record) OutboxEvent {
	retries, _ := rec.Float("retry_count")
	next, _ := time.Parse(time.RFC3339, rec.Text("next_retry_at"))
	return OutboxEvent{
		ID:            rec.ID(),
		RequestID:     rec.Text("request_id"),
		AggregateType: rec.Text("aggregate_type"),
		AggregateID:   rec.Text("aggregate_id"),
		EventType:     rec.Text("event_type"),
		Topic:         rec.Text("topic"),
		Payload:       []byte(rec.Text("payload")),
		Status:        rec.Text("status"),
		RetryCount:    int(retries),
		NextRetryAt:   next,
	}
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
