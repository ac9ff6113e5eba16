// Package summary reduces one day's orders into daily and per-rider
// totals. Pure functions over snapshots; nothing here writes.
package summary

import (
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

// Daily computes the aggregate counters for one date partition.
// deliveredOrders+undeliveredOrders and assignedOrders+unassignedOrders
// both sum to totalOrders; cash+card equals the sum over all collected
// orders. Amounts that fail to parse count as 0.
func Daily(orders []domain.Order) domain.DailySummary {
	s := domain.DailySummary{TotalOrders: len(orders)}
	for _, o := range orders {
		if o.DeliveryStatus == domain.DeliveryDelivered {
			s.DeliveredOrders++
		}
		if o.AssignedTo == "" {
			s.UnassignedOrders++
		} else {
			s.AssignedOrders++
		}
		if o.PaymentStatus == domain.PaymentCollected {
			switch o.PaymentMethod {
			case domain.MethodCash:
				s.CashPayments += domain.ParseAmount(o.Amount)
			case domain.MethodCard:
				s.CardPayments += domain.ParseAmount(o.Amount)
			}
		}
	}
	s.UndeliveredOrders = s.TotalOrders - s.DeliveredOrders
	return s
}

// PerRider builds one summary row per rider by filtering the day's orders
// on assignment.
func PerRider(orders []domain.Order, rs []domain.Rider) []domain.RiderSummary {
	out := make([]domain.RiderSummary, 0, len(rs))
	for _, r := range rs {
		row := domain.RiderSummary{
			RiderID: r.ID,
			Status:  r.Status,
		}
		row.RiderName = r.Name
		if row.RiderName == "" {
			row.RiderName = r.Username
		}
		for _, o := range orders {
			if o.AssignedTo != r.ID {
				continue
			}
			row.TotalAssigned++
			if o.DeliveryStatus == domain.DeliveryDelivered {
				row.Delivered++
			}
			if o.PaymentStatus == domain.PaymentCollected {
				switch o.PaymentMethod {
				case domain.MethodCash:
					row.CashCollected += domain.ParseAmount(o.Amount)
				case domain.MethodCard:
					row.CardCollected += domain.ParseAmount(o.Amount)
				}
			}
		}
		out = append(out, row)
	}
	return out
}
