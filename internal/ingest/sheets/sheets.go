// Package sheets syncs orders two ways with a Google Sheets spreadsheet:
// pull reads the tab named after the date and imports unseen rows, push
// appends manually created orders to that same tab.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/logger"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/orders"
)

const (
	settingsKey    = "google_sheets_settings"
	defaultAPIBase = "https://sheets.googleapis.com"
)

// Pull column contract, fixed and 0-indexed:
// 0=orderNumber 1=receiptNumber(ignored) 2=customerName 3=customerPhone
// 4=amount 5=receiptAmount(ignored) 6=deliveryArea->address
const (
	colOrderNumber  = 0
	colCustomerName = 2
	colPhone        = 3
	colAmount       = 4
	colArea         = 6
	pullColumns     = "A:G"
)

// Settings are the stored spreadsheet credentials.
type Settings struct {
	SpreadsheetID string `json:"spreadsheetId"`
	APIKey        string `json:"apiKey"`
}

type Service struct {
	kv      kvstore.Store
	store   *orders.Store
	client  *http.Client
	lg      *logger.Logger
	now     func() time.Time
	apiBase string
}

func NewService(kv kvstore.Store, store *orders.Store) *Service {
	return &Service{
		kv:      kv,
		store:   store,
		client:  &http.Client{Timeout: 30 * time.Second},
		lg:      logger.New("sheets-ingest"),
		now:     time.Now,
		apiBase: defaultAPIBase,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithAPIBase points the client at a different Sheets endpoint, for tests.
func (s *Service) WithAPIBase(base string) *Service {
	s.apiBase = base
	return s
}

func (s *Service) SaveSettings(ctx context.Context, st Settings) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, settingsKey, string(b))
}

func (s *Service) GetSettings(ctx context.Context) (*Settings, error) {
	raw, ok, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var st Settings
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("decode sheets settings: %w", err)
	}
	return &st, nil
}

// TestConnection fetches spreadsheet metadata with the stored key.
func (s *Service) TestConnection(ctx context.Context) error {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	if st == nil {
		return domain.ErrNotFound
	}
	u := fmt.Sprintf("%s/v4/spreadsheets/%s?key=%s", s.apiBase, st.SpreadsheetID, url.QueryEscape(st.APIKey))
	resp, err := s.doGet(ctx, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: sheets returned %s", domain.ErrUpstream, resp.Status)
	}
	return nil
}

// SyncOrders reads the tab named after date and imports rows whose order
// number has not been seen among google_sheets orders in that partition.
// Returns the number of orders added.
func (s *Service) SyncOrders(ctx context.Context, date string) (int, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	if st == nil {
		return 0, domain.ErrNotFound
	}

	rng := fmt.Sprintf("%s!%s", date, pullColumns)
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		s.apiBase, st.SpreadsheetID, url.PathEscape(rng), url.QueryEscape(st.APIKey))
	resp, err := s.doGet(ctx, u)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: sheets returned %s", domain.ErrUpstream, resp.Status)
	}

	var payload struct {
		Values [][]string `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode sheet values: %w", err)
	}

	existing, err := s.store.List(ctx, date)
	if err != nil {
		return 0, err
	}

	batch := s.buildOrders(payload.Values, existing)
	if err := s.store.AppendAll(ctx, date, batch); err != nil {
		return 0, err
	}

	s.lg.Info("sheets_sync_done", map[string]any{"date": date, "rows": len(payload.Values), "added": len(batch)})
	return len(batch), nil
}

// buildOrders applies the header heuristic, the column contract and the
// orderNumber dedup to raw sheet rows.
func (s *Service) buildOrders(rows [][]string, existing []domain.Order) []domain.Order {
	// A first cell containing "order" (any case) marks a header row.
	if len(rows) > 0 && len(rows[0]) > 0 &&
		strings.Contains(strings.ToLower(rows[0][0]), "order") {
		rows = rows[1:]
	}

	seen := make(map[string]bool)
	for _, o := range existing {
		if o.Source == domain.SourceGoogleSheets {
			seen[o.OrderNumber] = true
		}
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var batch []domain.Order
	for _, row := range rows {
		orderNumber := cell(row, colOrderNumber)
		if orderNumber == "" || seen[orderNumber] {
			continue
		}
		amount := cell(row, colAmount)
		if amount == "" {
			amount = "0"
		}
		batch = append(batch, domain.Order{
			ID:             fmt.Sprintf("sheets_%s_%d", orderNumber, s.now().UnixMilli()),
			OrderNumber:    orderNumber,
			CustomerName:   cell(row, colCustomerName),
			CustomerPhone:  cell(row, colPhone),
			Address:        cell(row, colArea),
			Amount:         amount,
			CreatedAt:      s.now().UTC().Format(time.RFC3339),
			DeliveryStatus: domain.DeliveryPending,
			PaymentStatus:  domain.PaymentPending,
			Source:         domain.SourceGoogleSheets,
		})
		seen[orderNumber] = true
	}
	return batch
}

// AddOrder appends one 11-column row to the tab named after date. Used to
// mirror manually created orders; callers treat failures as non-fatal.
func (s *Service) AddOrder(ctx context.Context, date string, o domain.Order) error {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	if st == nil {
		return domain.ErrNotFound
	}

	createdAt := o.CreatedAt
	if createdAt == "" {
		createdAt = s.now().UTC().Format(time.RFC3339)
	}
	deliveryStatus := o.DeliveryStatus
	if deliveryStatus == "" {
		deliveryStatus = domain.DeliveryPending
	}
	paymentStatus := o.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = domain.PaymentPending
	}
	body := map[string]any{
		"values": [][]string{{
			o.ID,
			o.CustomerName,
			o.CustomerPhone,
			o.Address,
			o.Amount,
			o.Items,
			deliveryStatus,
			paymentStatus,
			o.PaymentMethod,
			o.AssignedTo,
			createdAt,
		}},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A:Z", date)
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&key=%s",
		s.apiBase, st.SpreadsheetID, url.PathEscape(rng), url.QueryEscape(st.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: sheets append returned %s", domain.ErrUpstream, resp.Status)
	}
	return nil
}

func (s *Service) doGet(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return resp, nil
}
