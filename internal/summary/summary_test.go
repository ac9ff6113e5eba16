package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/summary"
)

func order(mutate func(*domain.Order)) domain.Order {
	o := domain.Order{
		ID:             "o1",
		CustomerName:   "Jane",
		Amount:         "10",
		Source:         domain.SourceManual,
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  domain.PaymentPending,
	}
	if mutate != nil {
		mutate(&o)
	}
	return o
}

func TestDailyAdditivity(t *testing.T) {
	orders := []domain.Order{
		order(func(o *domain.Order) { o.ID = "a"; o.DeliveryStatus = domain.DeliveryDelivered; o.AssignedTo = "r1" }),
		order(func(o *domain.Order) { o.ID = "b"; o.DeliveryStatus = domain.DeliveryEnRoute; o.AssignedTo = "r2" }),
		order(func(o *domain.Order) { o.ID = "c" }),
		order(func(o *domain.Order) { o.ID = "d"; o.DeliveryStatus = "weird" }),
	}

	s := summary.Daily(orders)
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, s.TotalOrders, s.DeliveredOrders+s.UndeliveredOrders)
	assert.Equal(t, s.TotalOrders, s.AssignedOrders+s.UnassignedOrders)
	assert.Equal(t, 2, s.AssignedOrders)
	assert.Equal(t, 1, s.DeliveredOrders)
}

func TestDailyPaymentPartition(t *testing.T) {
	orders := []domain.Order{
		order(func(o *domain.Order) {
			o.ID = "a"
			o.Amount = "42.50"
			o.PaymentStatus = domain.PaymentCollected
			o.PaymentMethod = domain.MethodCash
		}),
		order(func(o *domain.Order) {
			o.ID = "b"
			o.Amount = "7.25"
			o.PaymentStatus = domain.PaymentCollected
			o.PaymentMethod = domain.MethodCard
		}),
		order(func(o *domain.Order) {
			o.ID = "c"
			o.Amount = "100"
			o.PaymentStatus = domain.PaymentCollected
			o.PaymentMethod = domain.MethodCash
		}),
		// collected with a junk amount: counts as zero, not an error
		order(func(o *domain.Order) {
			o.ID = "d"
			o.Amount = "n/a"
			o.PaymentStatus = domain.PaymentCollected
			o.PaymentMethod = domain.MethodCard
		}),
		// pending payments contribute nothing
		order(func(o *domain.Order) { o.ID = "e"; o.Amount = "999" }),
	}

	s := summary.Daily(orders)
	assert.InDelta(t, 142.50, s.CashPayments, 1e-9)
	assert.InDelta(t, 7.25, s.CardPayments, 1e-9)

	total := 0.0
	for _, o := range orders {
		if o.PaymentStatus == domain.PaymentCollected {
			total += domain.ParseAmount(o.Amount)
		}
	}
	assert.InDelta(t, total, s.CashPayments+s.CardPayments, 1e-9)
}

func TestPerRider(t *testing.T) {
	orders := []domain.Order{
		order(func(o *domain.Order) {
			o.ID = "a"
			o.AssignedTo = "r1"
			o.DeliveryStatus = domain.DeliveryDelivered
			o.PaymentStatus = domain.PaymentCollected
			o.PaymentMethod = domain.MethodCash
			o.Amount = "30"
		}),
		order(func(o *domain.Order) { o.ID = "b"; o.AssignedTo = "r1" }),
		order(func(o *domain.Order) { o.ID = "c"; o.AssignedTo = "r2" }),
	}
	rs := []domain.Rider{
		{ID: "r1", Username: "ali", Name: "Ali", Status: domain.RiderBusy},
		{ID: "r2", Username: "bek", Status: domain.RiderAvailable},
		{ID: "r3", Username: "cem", Name: "Cem", Status: domain.RiderAvailable},
	}

	rows := summary.PerRider(orders, rs)
	require.Len(t, rows, 3)

	assert.Equal(t, "Ali", rows[0].RiderName)
	assert.Equal(t, 2, rows[0].TotalAssigned)
	assert.Equal(t, 1, rows[0].Delivered)
	assert.InDelta(t, 30.0, rows[0].CashCollected, 1e-9)
	assert.Equal(t, domain.RiderBusy, rows[0].Status)

	// name falls back to username
	assert.Equal(t, "bek", rows[1].RiderName)
	assert.Equal(t, 1, rows[1].TotalAssigned)

	// riders with no orders still get a row
	assert.Equal(t, 0, rows[2].TotalAssigned)
}
