// Package notify consumes the notifications queue and writes each event
// to the log. It exists so operators can watch lifecycle traffic without
// polling the API.
package notify

import (
	"context"
	"encoding/json"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/logger"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/connections/rabbitmq"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/events"
)

// Run consumes until ctx is cancelled.
func Run(ctx context.Context, client *rabbitmq.Client) error {
	lg := logger.New("notification-subscriber")

	if err := client.DeclareTopology(); err != nil {
		return err
	}
	deliveries, err := client.Consume(rabbitmq.NotificationsQueue, "notification-subscriber", 1)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var ev events.Event
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				lg.Error("notification_decode_failed", err, nil)
				_ = d.Nack(false, false)
				continue
			}
			lg.Info("notification_received", map[string]any{
				"type":     ev.Type,
				"order_id": ev.Order.ID,
				"date":     ev.Date,
				"status":   ev.Order.DeliveryStatus,
			})
			_ = d.Ack(false)
		}
	}
}
