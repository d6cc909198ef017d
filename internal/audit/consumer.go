// Package audit writes every domain event to the security log.
package audit

import (
	"context"
	"encoding/json"

	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
)

// QueueName is the durable queue holding events awaiting audit
const QueueName = "hourbook.audit"

// actorPayload picks the acting user out of any event payload
type actorPayload struct {
	ActorID int64 `json:"actor_id"`
}

// EventHandler records events (testable without RabbitMQ)
type EventHandler struct {
	logger *logger.Logger
}

// NewEventHandler creates a handler writing to the security log of log
func NewEventHandler(log *logger.Logger) *EventHandler {
	return &EventHandler{logger: log.Security()}
}

// HandleEvent writes one audit line per event. Malformed payloads are
// still recorded; the event is never redelivered for an audit failure.
func (h *EventHandler) HandleEvent(ctx context.Context, event *messaging.Event) error {
	entry := h.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("source", event.Source).
		Time("occurred_at", event.Timestamp)

	if event.CorrelationID != "" {
		entry = entry.Str("correlation_id", event.CorrelationID)
	}

	var p actorPayload
	if err := json.Unmarshal(event.Data, &p); err == nil {
		if p.ActorID == 0 {
			entry = entry.Str("actor", "system")
		} else {
			entry = entry.Int64("actor_id", p.ActorID)
		}
	}

	if len(event.Data) > 0 && json.Valid(event.Data) {
		entry = entry.RawJSON("data", event.Data)
	}

	entry.Msg("audit event")
	return nil
}

// Consumer feeds every event on the exchange into an EventHandler
type Consumer struct {
	consumer *messaging.Consumer
	handler  *EventHandler
	logger   *logger.Logger
}

// NewConsumer declares the audit queue and binds it to all routing keys
func NewConsumer(rmq *messaging.RabbitMQ, log *logger.Logger) (*Consumer, error) {
	consumer, err := messaging.NewConsumer(rmq, QueueName, log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeEvents, "#"); err != nil {
		return nil, err
	}

	handler := NewEventHandler(log)
	consumer.RegisterFallback(handler.HandleEvent)

	return &Consumer{
		consumer: consumer,
		handler:  handler,
		logger:   log,
	}, nil
}

// Start starts consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}
