package producer

import (
	"context"
	"errors"
	"testing"

	"go-sirh/internal/messaging/kafka"
	"go-sirh/internal/store"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	written []kafkago.Message
	failFor map[string]bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if w.failFor[string(m.Key)] {
			return errors.New("leader not available")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	repo := kafka.NewOutboxRepository(s)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		evt, err := kafka.NewOutboxEvent(ctx, "sirh.records.status.v1", "status_changed", "contracts", id, map[string]string{"id": id})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, evt))
	}

	writer := &fakeWriter{failFor: map[string]bool{"2": true}}
	sent, err := processPendingEvents(ctx, repo, writer, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	require.Len(t, writer.written, 1)
	assert.Equal(t, "sirh.records.status.v1", writer.written[0].Topic)
	assert.Equal(t, "1", string(writer.written[0].Key))

	all, _ := s.Collection(kafka.OutboxCollection).All(ctx)
	statuses := map[string]string{}
	for _, rec := range all {
		statuses[rec.Text("aggregate_id")] = rec.Text("status")
	}
	assert.Equal(t, kafka.OutboxStatusSent, statuses["1"])
	assert.Equal(t, kafka.OutboxStatusFailed, statuses["2"])
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	s, _ := store.NewMemoryStore("")
	sent, err := processPendingEvents(context.Background(), kafka.NewOutboxRepository(s), &fakeWriter{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Zero(t, sent)
}
