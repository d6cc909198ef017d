// Package events publishes domain events on the shared topic exchange.
// Publishing is best effort: a broker failure is logged and never fails
// the operation that produced the event.
package events

import (
	"context"

	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
)

// Publisher wraps a messaging.EventPublisher with request correlation and logging.
type Publisher struct {
	publisher messaging.EventPublisher
	logger    *logger.Logger
}

// NewPublisher creates a publisher. A nil publisher drops every event.
func NewPublisher(pub messaging.EventPublisher, log *logger.Logger) *Publisher {
	if pub == nil {
		pub = messaging.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{
		publisher: pub,
		logger:    log.WithComponent("events"),
	}
}

// Nop returns a publisher that drops every event
func Nop() *Publisher {
	return NewPublisher(nil, nil)
}

// Emit publishes data under eventType. The request id becomes the
// correlation id unless one is already set.
func (p *Publisher) Emit(ctx context.Context, eventType string, data interface{}) {
	if messaging.CorrelationID(ctx) == "" {
		if reqID := httputil.GetRequestID(ctx); reqID != "" {
			ctx = messaging.WithCorrelationID(ctx, reqID)
		}
	}

	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("actor", actor.FromContext(ctx).String()).
			Msg("failed to publish event")
	}
}

// ActorID returns the id of the acting user, 0 for system actions.
func ActorID(ctx context.Context) int64 {
	if a := actor.FromContext(ctx); a != nil {
		return a.UserID
	}
	return 0
}
