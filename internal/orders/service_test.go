package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/events"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/orders"
)

type fakeDirectory struct {
	statuses map[string]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{statuses: make(map[string]string)}
}

func (d *fakeDirectory) ListRiders(context.Context) ([]domain.Rider, error) {
	var out []domain.Rider
	for id, st := range d.statuses {
		out = append(out, domain.Rider{ID: id, Status: st})
	}
	return out, nil
}

func (d *fakeDirectory) SetRiderStatus(_ context.Context, riderID, status string) error {
	d.statuses[riderID] = status
	return nil
}

var testDay = time.Date(2024, 11, 24, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, strict bool) (*orders.Service, *fakeDirectory) {
	t.Helper()
	dir := newFakeDirectory()
	store := orders.NewStore(kvstore.NewMemory())
	svc := orders.NewService(store, dir, events.Noop{}, strict).
		WithClock(func() time.Time { return testDay })
	return svc, dir
}

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, false)

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{
		CustomerName: "Jane Doe",
		Amount:       "42.50",
		Address:      "Downtown",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.SourceManual, created.Source)
	assert.Equal(t, domain.DeliveryPending, created.DeliveryStatus)
	assert.Equal(t, domain.PaymentPending, created.PaymentStatus)
	assert.NotEmpty(t, created.CreatedAt)

	list, err := svc.List(ctx, "2024-11-24")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreateRequiresNameAndAmount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, false)

	_, err := svc.Create(ctx, "2024-11-24", domain.Order{Amount: "10"})
	require.Error(t, err)
	_, err = svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane"})
	require.Error(t, err)
}

func TestAssignMarksRiderBusy(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t, false)

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)

	assigned, err := svc.Assign(ctx, "2024-11-24", created.ID, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", assigned.AssignedTo)
	assert.NotEmpty(t, assigned.AssignedAt)
	assert.Equal(t, domain.RiderBusy, dir.statuses["r1"])
}

func TestAssignMissingOrderLeavesPartitionUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t, false)

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)
	before, err := svc.List(ctx, "2024-11-24")
	require.NoError(t, err)

	_, err = svc.Assign(ctx, "2024-11-24", "missing", "r1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	after, err := svc.List(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	require.Len(t, after, 1)
	assert.Equal(t, created.ID, after[0].ID)
	// no rider was touched
	assert.Empty(t, dir.statuses)
}

func TestDeliveredStampsTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, false)

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)

	updated, err := svc.UpdateDeliveryStatus(ctx, "2024-11-24", created.ID, domain.DeliveryDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryDelivered, updated.DeliveryStatus)
	assert.NotEmpty(t, updated.DeliveredAt)
}

func TestPermissiveModeAcceptsAnyStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, false)

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)

	updated, err := svc.UpdateDeliveryStatus(ctx, "2024-11-24", created.ID, "teleported")
	require.NoError(t, err)
	assert.Equal(t, "teleported", updated.DeliveryStatus)
	assert.Empty(t, updated.DeliveredAt)
}

func TestStrictModeRejectsBackwardTransition(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, true)

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)

	_, err = svc.UpdateDeliveryStatus(ctx, "2024-11-24", created.ID, domain.DeliveryEnRoute)
	require.NoError(t, err)

	_, err = svc.UpdateDeliveryStatus(ctx, "2024-11-24", created.ID, domain.DeliveryPending)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateDeliveryStatus(ctx, "2024-11-24", created.ID, "teleported")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Reassignment points the order at the new rider and marks them busy;
// the previous rider is never freed. Long-standing behaviour the rider
// dashboard works around, so it must not change quietly.
func TestReassignmentLeavesPreviousRiderBusy(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t, false)

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, "2024-11-24", created.ID, "r1")
	require.NoError(t, err)
	reassigned, err := svc.Assign(ctx, "2024-11-24", created.ID, "r2")
	require.NoError(t, err)

	assert.Equal(t, "r2", reassigned.AssignedTo)
	assert.Equal(t, domain.RiderBusy, dir.statuses["r2"])
	assert.Equal(t, domain.RiderBusy, dir.statuses["r1"])
}

// A repeat delivered call restamps deliveredAt rather than keeping the
// first stamp.
func TestRepeatedDeliveredOverwritesTimestamp(t *testing.T) {
	ctx := context.Background()
	dir := newFakeDirectory()
	store := orders.NewStore(kvstore.NewMemory())
	current := testDay
	svc := orders.NewService(store, dir, events.Noop{}, false).
		WithClock(func() time.Time { return current })

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)

	first, err := svc.UpdateDeliveryStatus(ctx, "2024-11-24", created.ID, domain.DeliveryDelivered)
	require.NoError(t, err)

	current = current.Add(time.Minute)
	second, err := svc.UpdateDeliveryStatus(ctx, "2024-11-24", created.ID, domain.DeliveryDelivered)
	require.NoError(t, err)

	assert.NotEqual(t, first.DeliveredAt, second.DeliveredAt)
	assert.Equal(t, current.UTC().Format(time.RFC3339), second.DeliveredAt)
}

// Collecting an already-collected order overwrites method, timestamp and
// collector with the new call's values.
func TestRecollectionOverwritesPaymentFields(t *testing.T) {
	ctx := context.Background()
	dir := newFakeDirectory()
	store := orders.NewStore(kvstore.NewMemory())
	current := testDay
	svc := orders.NewService(store, dir, events.Noop{}, false).
		WithClock(func() time.Time { return current })

	created, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "Jane", Amount: "10"})
	require.NoError(t, err)

	first, err := svc.CollectPayment(ctx, "2024-11-24", created.ID, domain.MethodCash,
		domain.Identity{UserID: "r1", Role: domain.RoleRider})
	require.NoError(t, err)
	assert.Equal(t, domain.MethodCash, first.PaymentMethod)
	assert.Equal(t, "r1", first.PaymentCollectedBy)

	current = current.Add(time.Minute)
	second, err := svc.CollectPayment(ctx, "2024-11-24", created.ID, domain.MethodCard,
		domain.Identity{UserID: "d1", Role: domain.RoleDispatcher})
	require.NoError(t, err)

	assert.Equal(t, domain.MethodCard, second.PaymentMethod)
	assert.Equal(t, "d1", second.PaymentCollectedBy)
	assert.NotEqual(t, first.PaymentCollectedAt, second.PaymentCollectedAt)
	assert.Equal(t, domain.PaymentCollected, second.PaymentStatus)
}

// A rider with two orders stays busy until both are delivered and
// collected; collecting the last one frees them.
func TestRiderAvailabilityRecompute(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t, false)
	today := "2024-11-24" // matches the pinned clock
	rider := domain.Identity{UserID: "r1", Role: domain.RoleRider}

	o1, err := svc.Create(ctx, today, domain.Order{CustomerName: "A", Amount: "10"})
	require.NoError(t, err)
	o2, err := svc.Create(ctx, today, domain.Order{CustomerName: "B", Amount: "20"})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, today, o1.ID, "r1")
	require.NoError(t, err)
	_, err = svc.Assign(ctx, today, o2.ID, "r1")
	require.NoError(t, err)
	require.Equal(t, domain.RiderBusy, dir.statuses["r1"])

	for _, id := range []string{o1.ID, o2.ID} {
		_, err = svc.UpdateDeliveryStatus(ctx, today, id, domain.DeliveryDelivered)
		require.NoError(t, err)
	}

	collected, err := svc.CollectPayment(ctx, today, o1.ID, domain.MethodCash, rider)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCollected, collected.PaymentStatus)
	assert.Equal(t, domain.MethodCash, collected.PaymentMethod)
	assert.Equal(t, "r1", collected.PaymentCollectedBy)
	// one order still uncollected: rider stays busy
	assert.Equal(t, domain.RiderBusy, dir.statuses["r1"])

	_, err = svc.CollectPayment(ctx, today, o2.ID, domain.MethodCard, rider)
	require.NoError(t, err)
	assert.Equal(t, domain.RiderAvailable, dir.statuses["r1"])
}

// Collection by a dispatcher never recomputes rider availability.
func TestDispatcherCollectionLeavesRiderStatus(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t, false)

	o1, err := svc.Create(ctx, "2024-11-24", domain.Order{CustomerName: "A", Amount: "10"})
	require.NoError(t, err)
	_, err = svc.Assign(ctx, "2024-11-24", o1.ID, "r1")
	require.NoError(t, err)
	_, err = svc.UpdateDeliveryStatus(ctx, "2024-11-24", o1.ID, domain.DeliveryDelivered)
	require.NoError(t, err)

	_, err = svc.CollectPayment(ctx, "2024-11-24", o1.ID, domain.MethodCash,
		domain.Identity{UserID: "d1", Role: domain.RoleDispatcher})
	require.NoError(t, err)
	assert.Equal(t, domain.RiderBusy, dir.statuses["r1"])
}

func TestListForRiderFiltersToday(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, false)
	today := "2024-11-24"

	o1, err := svc.Create(ctx, today, domain.Order{CustomerName: "A", Amount: "10"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, today, domain.Order{CustomerName: "B", Amount: "20"})
	require.NoError(t, err)
	// an order on another day never shows up in the rider view
	other, err := svc.Create(ctx, "2024-11-23", domain.Order{CustomerName: "C", Amount: "30"})
	require.NoError(t, err)
	_, err = svc.Assign(ctx, "2024-11-23", other.ID, "r1")
	require.NoError(t, err)

	_, err = svc.Assign(ctx, today, o1.ID, "r1")
	require.NoError(t, err)

	mine, err := svc.ListForRider(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o1.ID, mine[0].ID)
}
