package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureBroker struct {
	body []byte
	err  error
}

func (b *captureBroker) Publish(_ context.Context, body []byte) error {
	if b.err != nil {
		return b.err
	}
	b.body = body
	return nil
}

func newTestPublisher(broker Broker) *Publisher {
	return NewPublisher(broker, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishJobEvent(t *testing.T) {
	broker := &captureBroker{}
	p := newTestPublisher(broker)

	jobID := uuid.New()
	before := time.Now().UTC()

	err := p.PublishJobEvent(context.Background(), JobCreated, jobID)

	require.NoError(t, err)
	require.NotNil(t, broker.body)

	var env Envelope
	require.NoError(t, json.Unmarshal(broker.body, &env))
	assert.Equal(t, "job.created", env.Event)
	assert.Equal(t, jobID, env.JobID)
	assert.False(t, env.OccurredAt.Before(before))
}

func TestPublishJobEvent_BrokerError(t *testing.T) {
	broker := &captureBroker{err: errors.New("channel closed")}
	p := newTestPublisher(broker)

	err := p.PublishJobEvent(context.Background(), JobDeleted, uuid.New())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish job event")
}
