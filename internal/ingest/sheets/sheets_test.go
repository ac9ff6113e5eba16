package sheets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/ingest/sheets"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/orders"
)

var testDay = time.Date(2024, 11, 24, 12, 0, 0, 0, time.UTC)

// fakeSheets serves the values endpoint with canned rows and records
// append bodies.
type fakeSheets struct {
	rows    [][]string
	appends [][][]string
}

func (f *fakeSheets) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, ":append"):
			var body struct {
				Values [][]string `json:"values"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.appends = append(f.appends, body.Values)
			_ = json.NewEncoder(w).Encode(map[string]any{"updates": map[string]int{"updatedRows": 1}})
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			_ = json.NewEncoder(w).Encode(map[string]any{"values": f.rows})
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})
		default:
			http.NotFound(w, r)
		}
	})
}

func newService(t *testing.T, f *fakeSheets) (*sheets.Service, *orders.Store) {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	kv := kvstore.NewMemory()
	store := orders.NewStore(kv)
	svc := sheets.NewService(kv, store).
		WithAPIBase(srv.URL).
		WithClock(func() time.Time { return testDay })
	require.NoError(t, svc.SaveSettings(context.Background(), sheets.Settings{
		SpreadsheetID: "sheet-1", APIKey: "key",
	}))
	return svc, store
}

func TestSyncColumnMapping(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &fakeSheets{rows: [][]string{
		{"O-100", "R-5", "Jane Doe", "555-1234", "42.50", "R-5.00", "Downtown"},
	}})

	added, err := svc.SyncOrders(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	require.Len(t, list, 1)

	o := list[0]
	assert.Equal(t, "O-100", o.OrderNumber)
	assert.Equal(t, "Jane Doe", o.CustomerName)
	assert.Equal(t, "555-1234", o.CustomerPhone)
	assert.Equal(t, "42.50", o.Amount)
	assert.Equal(t, "Downtown", o.Address)
	assert.Equal(t, domain.SourceGoogleSheets, o.Source)
	assert.Equal(t, domain.DeliveryPending, o.DeliveryStatus)
	assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
	assert.True(t, strings.HasPrefix(o.ID, "sheets_O-100_"))
}

func TestSyncSkipsHeaderRow(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &fakeSheets{rows: [][]string{
		{"Order Number", "Receipt", "Customer", "Phone", "Amount", "Receipt Amt", "Area"},
		{"O-1", "", "A", "1", "10", "", "X"},
	}})

	added, err := svc.SyncOrders(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "O-1", list[0].OrderNumber)
}

func TestSyncFirstRowThatLooksLikeDataIsImported(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &fakeSheets{rows: [][]string{
		{"O-1", "", "A", "1", "10", "", "X"},
		{"O-2", "", "B", "2", "20", "", "Y"},
	}})

	added, err := svc.SyncOrders(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSyncIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &fakeSheets{rows: [][]string{
		{"O-1", "", "A", "1", "10", "", "X"},
		{"O-2", "", "B", "2", "20", "", "Y"},
	}})

	added, err := svc.SyncOrders(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = svc.SyncOrders(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSyncSkipsEmptyOrderNumbersAndDuplicateRows(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &fakeSheets{rows: [][]string{
		{"", "", "No Number", "1", "10", "", "X"},
		{"O-1", "", "A", "1", "10", "", "X"},
		{"O-1", "", "A again", "1", "10", "", "X"},
	}})

	added, err := svc.SyncOrders(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].CustomerName)
}

func TestSyncWithoutSettings(t *testing.T) {
	kv := kvstore.NewMemory()
	svc := sheets.NewService(kv, orders.NewStore(kv))
	_, err := svc.SyncOrders(context.Background(), "2024-11-24")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddOrderAppendsElevenColumns(t *testing.T) {
	ctx := context.Background()
	f := &fakeSheets{}
	svc, _ := newService(t, f)

	err := svc.AddOrder(ctx, "2024-11-24", domain.Order{
		ID:             "order_1_abc",
		CustomerName:   "Jane",
		CustomerPhone:  "555",
		Address:        "Downtown",
		Amount:         "42.50",
		Items:          "apples, pears",
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  domain.PaymentPending,
		AssignedTo:     "r1",
		CreatedAt:      "2024-11-24T10:00:00Z",
	})
	require.NoError(t, err)

	require.Len(t, f.appends, 1)
	require.Len(t, f.appends[0], 1)
	row := f.appends[0][0]
	require.Len(t, row, 11)
	assert.Equal(t, "order_1_abc", row[0])
	assert.Equal(t, "Jane", row[1])
	assert.Equal(t, "42.50", row[4])
	assert.Equal(t, "r1", row[9])
}
