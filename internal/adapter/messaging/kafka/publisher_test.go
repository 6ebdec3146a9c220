package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisherWritesEnvelope(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisherWithWriter(w, zerolog.Nop())
	createdAt := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)

	err := p.Publish(context.Background(), &domain.OutboxEvent{
		ID:            "01HQ",
		AggregateID:   "478758",
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeMovementCreated,
		Payload:       map[string]any{"amount": "575", "resultingBalance": "1425"},
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "478758", string(msg.Key))
	assert.Equal(t, createdAt, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, domain.EventTypeMovementCreated, string(msg.Headers[0].Value))

	var env envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "01HQ", env.ID)
	assert.Equal(t, "1425", env.Payload["resultingBalance"])
	assert.True(t, env.OccurredAt.Equal(createdAt))
}

func TestPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker unreachable")
	p := newPublisherWithWriter(&recordingWriter{err: boom}, zerolog.Nop())

	err := p.Publish(context.Background(), &domain.OutboxEvent{ID: "evt"})
	require.ErrorIs(t, err, boom)
}

func TestNewPublisherValidatesConfig(t *testing.T) {
	_, err := NewPublisher(Config{Topic: "gobank.events"})
	require.Error(t, err)

	_, err = NewPublisher(Config{Brokers: []string{"localhost:9092"}})
	require.Error(t, err)

	p, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}, Topic: "gobank.events", Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublisherClose(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, newPublisherWithWriter(w, zerolog.Nop()).Close())
	assert.True(t, w.closed)
}
