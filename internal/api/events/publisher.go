package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event names carried on the job lifecycle exchange.
const (
	JobCreated = "job.created"
	JobUpdated = "job.updated"
	JobDeleted = "job.deleted"
)

// Envelope is the wire shape of a job lifecycle event.
type Envelope struct {
	Event      string    `json:"event"`
	JobID      uuid.UUID `json:"job_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Broker is the publish side of the message client.
type Broker interface {
	Publish(ctx context.Context, body []byte) error
}

// Publisher emits job lifecycle events to the broker.
type Publisher struct {
	broker Broker
	logger *slog.Logger
}

// NewPublisher creates a publisher over an established broker connection.
func NewPublisher(broker Broker, logger *slog.Logger) *Publisher {
	return &Publisher{
		broker: broker,
		logger: logger,
	}
}

// PublishJobEvent marshals and publishes one lifecycle event.
func (p *Publisher) PublishJobEvent(ctx context.Context, event string, jobID uuid.UUID) error {
	env := Envelope{
		Event:      event,
		JobID:      jobID,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if err := p.broker.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	p.logger.Debug("Job event published",
		slog.String("event", event),
		slog.String("job_id", jobID.String()),
	)
	return nil
}
