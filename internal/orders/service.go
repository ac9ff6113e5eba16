package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucsky/cuid"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/logger"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/events"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/riders"
)

// Service is the order lifecycle engine. All timestamps come from the
// injected clock so tests can pin "today".
type Service struct {
	store  *Store
	dir    riders.Directory
	pub    events.Publisher
	lg     *logger.Logger
	now    func() time.Time
	strict bool
}

func NewService(store *Store, dir riders.Directory, pub events.Publisher, strict bool) *Service {
	return &Service{
		store:  store,
		dir:    dir,
		pub:    pub,
		lg:     logger.New("order-lifecycle"),
		now:    time.Now,
		strict: strict,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) timestamp() string { return s.now().UTC().Format(time.RFC3339) }

// Today returns the wall-clock date partition. The rider order listing,
// rider availability recompute and Shopify ingestion all address this
// partition regardless of any order's own date.
func (s *Service) Today() string { return s.now().UTC().Format("2006-01-02") }

// List returns every order in a date partition.
func (s *Service) List(ctx context.Context, date string) ([]domain.Order, error) {
	return s.store.List(ctx, date)
}

// ListForRider returns today's orders assigned to the rider.
func (s *Service) ListForRider(ctx context.Context, riderID string) ([]domain.Order, error) {
	all, err := s.store.List(ctx, s.Today())
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	for _, o := range all {
		if o.AssignedTo == riderID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Create appends a manual order to the date partition. The id embeds the
// creation time plus a random suffix; both statuses start pending.
func (s *Service) Create(ctx context.Context, date string, in domain.Order) (domain.Order, error) {
	if in.CustomerName == "" {
		return domain.Order{}, errors.New("customer name is required")
	}
	if in.Amount == "" {
		return domain.Order{}, errors.New("amount is required")
	}

	order := in
	order.ID = fmt.Sprintf("order_%d_%s", s.now().UnixMilli(), cuid.Slug())
	order.CreatedAt = s.timestamp()
	order.DeliveryStatus = domain.DeliveryPending
	order.PaymentStatus = domain.PaymentPending
	order.Source = domain.SourceManual

	if err := s.store.Append(ctx, date, order); err != nil {
		return domain.Order{}, err
	}
	s.pub.Publish(ctx, events.Event{Type: events.OrderCreated, Date: date, Order: order})
	return order, nil
}

// Assign points the order at a rider and marks that rider busy. The
// previous rider of a reassigned order is deliberately left untouched.
func (s *Service) Assign(ctx context.Context, date, orderID, riderID string) (domain.Order, error) {
	order, err := s.store.Update(ctx, date, orderID, func(o *domain.Order) {
		o.AssignedTo = riderID
		o.AssignedAt = s.timestamp()
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.dir.SetRiderStatus(ctx, riderID, domain.RiderBusy); err != nil {
		s.lg.Error("rider_status_update_failed", err, map[string]any{"rider_id": riderID})
	}
	s.pub.Publish(ctx, events.Event{Type: events.OrderAssigned, Date: date, Order: order})
	return order, nil
}

// UpdateAmount overwrites the order amount. No numeric validation: a bad
// amount degrades to 0 in the summary rather than blocking dispatch.
func (s *Service) UpdateAmount(ctx context.Context, date, orderID, amount string) (domain.Order, error) {
	order, err := s.store.Update(ctx, date, orderID, func(o *domain.Order) {
		o.Amount = amount
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.pub.Publish(ctx, events.Event{Type: events.AmountChanged, Date: date, Order: order})
	return order, nil
}

// UpdateDeliveryStatus stores the new status. Unknown values are accepted
// and logged; strict mode instead rejects anything that is not a forward
// step of pending -> accepted -> en route -> delivered. Reaching delivered
// stamps deliveredAt, overwriting any earlier stamp.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, date, orderID, status string) (domain.Order, error) {
	if !s.strict && domain.DeliveryRank(status) == -1 {
		s.lg.Warn("unknown_delivery_status", map[string]any{"order_id": orderID, "status": status})
	}

	// The strict check runs inside the partition lock so it validates
	// against the current status, not a pre-read snapshot.
	order, err := s.store.UpdateChecked(ctx, date, orderID, func(o *domain.Order) error {
		if s.strict {
			from, to := domain.DeliveryRank(o.DeliveryStatus), domain.DeliveryRank(status)
			if to == -1 || to < from {
				return fmt.Errorf("%w: %q -> %q", domain.ErrInvalidTransition, o.DeliveryStatus, status)
			}
		}
		o.DeliveryStatus = status
		if status == domain.DeliveryDelivered {
			o.DeliveredAt = s.timestamp()
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.pub.Publish(ctx, events.Event{Type: events.StatusChanged, Date: date, Order: order})
	return order, nil
}

// CollectPayment records method, collected status, timestamp and
// collector. A repeat call overwrites the earlier collection. When the
// actor is a rider, their availability is recomputed over today's
// partition: no remaining active orders flips them back to available.
func (s *Service) CollectPayment(ctx context.Context, date, orderID, method string, actor domain.Identity) (domain.Order, error) {
	order, err := s.store.Update(ctx, date, orderID, func(o *domain.Order) {
		o.PaymentMethod = method
		o.PaymentStatus = domain.PaymentCollected
		o.PaymentCollectedAt = s.timestamp()
		o.PaymentCollectedBy = actor.UserID
	})
	if err != nil {
		return domain.Order{}, err
	}

	if actor.Role == domain.RoleRider {
		if err := s.recomputeRiderStatus(ctx, actor.UserID); err != nil {
			s.lg.Error("rider_status_recompute_failed", err, map[string]any{"rider_id": actor.UserID})
		}
	}
	s.pub.Publish(ctx, events.Event{Type: events.PaymentCollected, Date: date, Order: order, Actor: actor.UserID})
	return order, nil
}

// recomputeRiderStatus scans today's partition for active orders still
// assigned to the rider. Orders living under other dates are not
// consulted, mirroring how the dispatch day has always been modelled.
func (s *Service) recomputeRiderStatus(ctx context.Context, riderID string) error {
	today, err := s.store.List(ctx, s.Today())
	if err != nil {
		return err
	}
	for _, o := range today {
		if o.AssignedTo == riderID && o.Active() {
			return nil
		}
	}
	return s.dir.SetRiderStatus(ctx, riderID, domain.RiderAvailable)
}
