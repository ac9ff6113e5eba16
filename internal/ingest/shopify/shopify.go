// Package shopify pulls orders from a Shopify store into the order store.
// Shopify is one-way: fetched orders land in the internal store and are
// never mirrored back out to Google Sheets.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/logger"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/orders"
)

const (
	settingsKey = "shopify_settings"
	apiVersion  = "2024-01"
	// Shopify caps order listing at 250 per page; one page per fetch.
	pageLimit = 250
)

// Settings are the stored store credentials.
type Settings struct {
	StoreURL    string `json:"storeUrl"`
	APIKey      string `json:"apiKey"`
	APISecret   string `json:"apiSecret"`
	AccessToken string `json:"accessToken"`
}

type remoteOrder struct {
	ID              int64            `json:"id"`
	TotalPrice      string           `json:"total_price"`
	CreatedAt       string           `json:"created_at"`
	Customer        *remoteCustomer  `json:"customer"`
	ShippingAddress *remoteAddress   `json:"shipping_address"`
	LineItems       []remoteLineItem `json:"line_items"`
}

type remoteCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type remoteAddress struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
}

type remoteLineItem struct {
	Title string `json:"title"`
}

type Service struct {
	kv     kvstore.Store
	store  *orders.Store
	client *http.Client
	lg     *logger.Logger
	now    func() time.Time
}

func NewService(kv kvstore.Store, store *orders.Store) *Service {
	return &Service{
		kv:     kv,
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
		lg:     logger.New("shopify-ingest"),
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SaveSettings stores the credentials in the key/value store.
func (s *Service) SaveSettings(ctx context.Context, st Settings) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, settingsKey, string(b))
}

// GetSettings returns the stored credentials, or nil if never saved.
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
		return nil, fmt.Errorf("decode shopify settings: %w", err)
	}
	return &st, nil
}

func baseURL(storeURL string) string {
	if strings.HasPrefix(storeURL, "http://") || strings.HasPrefix(storeURL, "https://") {
		return storeURL
	}
	return "https://" + storeURL
}

// TestConnection hits the shop endpoint with the stored token.
func (s *Service) TestConnection(ctx context.Context) error {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	if st == nil {
		return domain.ErrNotFound
	}
	url := fmt.Sprintf("%s/admin/api/%s/shop.json", baseURL(st.StoreURL), apiVersion)
	resp, err := s.get(ctx, url, st.AccessToken)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: shopify returned %s", domain.ErrUpstream, resp.Status)
	}
	return nil
}

// FetchOrders pulls up to one page of orders and merges the unseen ones
// into today's partition, keyed on shopifyOrderId. Returns how many were
// fetched and how many were actually added.
func (s *Service) FetchOrders(ctx context.Context) (fetched, added int, err error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return 0, 0, err
	}
	if st == nil {
		return 0, 0, domain.ErrNotFound
	}

	url := fmt.Sprintf("%s/admin/api/%s/orders.json?status=any&limit=%d", baseURL(st.StoreURL), apiVersion, pageLimit)
	resp, err := s.get(ctx, url, st.AccessToken)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: shopify returned %s", domain.ErrUpstream, resp.Status)
	}

	var payload struct {
		Orders []remoteOrder `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, fmt.Errorf("decode shopify orders: %w", err)
	}

	// Shopify orders always land in today's partition, whatever their own
	// creation date.
	today := s.now().UTC().Format("2006-01-02")
	existing, err := s.store.List(ctx, today)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[int64]bool)
	for _, o := range existing {
		if o.Source == domain.SourceShopify {
			seen[o.ShopifyOrderID] = true
		}
	}

	var batch []domain.Order
	for _, ro := range payload.Orders {
		if seen[ro.ID] {
			continue
		}
		batch = append(batch, s.mapOrder(ro))
		seen[ro.ID] = true
	}
	if err := s.store.AppendAll(ctx, today, batch); err != nil {
		return 0, 0, err
	}

	s.lg.Info("shopify_fetch_done", map[string]any{"fetched": len(payload.Orders), "added": len(batch)})
	return len(payload.Orders), len(batch), nil
}

func (s *Service) mapOrder(ro remoteOrder) domain.Order {
	o := domain.Order{
		ID:             fmt.Sprintf("shopify_%d", ro.ID),
		ShopifyOrderID: ro.ID,
		CustomerName:   "Unknown",
		Amount:         ro.TotalPrice,
		CreatedAt:      ro.CreatedAt,
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  domain.PaymentPending,
		Source:         domain.SourceShopify,
	}
	if ro.Customer != nil {
		// A customer record with blank names still maps to Unknown.
		if name := strings.TrimSpace(ro.Customer.FirstName + " " + ro.Customer.LastName); name != "" {
			o.CustomerName = name
		}
		o.CustomerPhone = ro.Customer.Phone
	}
	if ro.ShippingAddress != nil {
		o.Address = fmt.Sprintf("%s, %s, %s", ro.ShippingAddress.Address1, ro.ShippingAddress.City, ro.ShippingAddress.Zip)
	}
	titles := make([]string, 0, len(ro.LineItems))
	for _, li := range ro.LineItems {
		titles = append(titles, li.Title)
	}
	o.Items = strings.Join(titles, ", ")
	return o
}

func (s *Service) get(ctx context.Context, url, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", token)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return resp, nil
}
