// Package events publishes order lifecycle events to RabbitMQ. Publishing
// is best effort: the HTTP write path never fails because the broker is
// down, it just logs.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/logger"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/connections/rabbitmq"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

// Event types, used as routing keys on the orders topic exchange.
const (
	OrderCreated     = "order.created"
	OrderAssigned    = "order.assigned"
	StatusChanged    = "order.status_changed"
	AmountChanged    = "order.amount_changed"
	PaymentCollected = "order.payment_collected"
)

type Event struct {
	Type       string       `json:"type"`
	Date       string       `json:"date"`
	Order      domain.Order `json:"order"`
	Actor      string       `json:"actor,omitempty"`
	OccurredAt string       `json:"occurredAt"`
}

// Publisher is the lifecycle engine's outbound event hook.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Noop drops events; used in tests and when RabbitMQ is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}

// AMQP publishes to the orders topic exchange and mirrors to the
// notifications fanout.
type AMQP struct {
	client *rabbitmq.Client
	lg     *logger.Logger
}

func NewAMQP(client *rabbitmq.Client) *AMQP {
	return &AMQP{client: client, lg: logger.New("events")}
}

func (p *AMQP) Publish(ctx context.Context, ev Event) {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.lg.Error("event_marshal_failed", err, map[string]any{"type": ev.Type})
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.client.Publish(pctx, rabbitmq.OrdersExchange, ev.Type, body); err != nil {
		p.lg.Error("event_publish_failed", err, map[string]any{"type": ev.Type, "order_id": ev.Order.ID})
		return
	}
	if err := p.client.Publish(pctx, rabbitmq.NotificationsExchange, "", body); err != nil {
		p.lg.Error("notification_publish_failed", err, map[string]any{"type": ev.Type, "order_id": ev.Order.ID})
	}
}
