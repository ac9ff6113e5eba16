package domain

import "strconv"

// Order sources. Source routes sync behaviour: shopify orders are never
// mirrored back to Google Sheets, manual and sheets orders are.
const (
	SourceManual       = "manual"
	SourceShopify      = "shopify"
	SourceGoogleSheets = "google_sheets"
)

// Delivery statuses. The expected sequence is pending -> accepted ->
// en route -> delivered, but the server accepts any value unless strict
// mode is enabled.
const (
	DeliveryPending   = "pending"
	DeliveryAccepted  = "accepted"
	DeliveryEnRoute   = "en route"
	DeliveryDelivered = "delivered"
)

// Payment statuses and methods.
const (
	PaymentPending   = "pending"
	PaymentCollected = "collected"

	MethodCash = "cash"
	MethodCard = "card"
)

// Order is a single delivery order. Orders live inside one date partition
// (YYYY-MM-DD) for their entire life and are stored as a JSON array under
// the partition key.
type Order struct {
	ID             string `json:"id"`
	OrderNumber    string `json:"orderNumber,omitempty"`
	ShopifyOrderID int64  `json:"shopifyOrderId,omitempty"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Address       string `json:"address,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Items         string `json:"items,omitempty"`

	Source         string `json:"source"`
	DeliveryStatus string `json:"deliveryStatus"`
	PaymentStatus  string `json:"paymentStatus"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`

	AssignedTo string `json:"assignedTo,omitempty"`

	CreatedAt          string `json:"createdAt,omitempty"`
	AssignedAt         string `json:"assignedAt,omitempty"`
	DeliveredAt        string `json:"deliveredAt,omitempty"`
	PaymentCollectedAt string `json:"paymentCollectedAt,omitempty"`
	PaymentCollectedBy string `json:"paymentCollectedBy,omitempty"`
}

// Active reports whether the order still occupies its rider: anything not
// both delivered and collected counts as active.
func (o Order) Active() bool {
	return o.DeliveryStatus != DeliveryDelivered || o.PaymentStatus != PaymentCollected
}

// ParseAmount converts an order amount to a float for aggregation.
// Non-numeric or empty amounts degrade to 0 rather than erroring; summary
// math depends on this.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// DeliveryRank orders the known delivery statuses for strict-mode
// transition checks. Unknown statuses rank -1.
func DeliveryRank(status string) int {
	switch status {
	case DeliveryPending:
		return 0
	case DeliveryAccepted:
		return 1
	case DeliveryEnRoute:
		return 2
	case DeliveryDelivered:
		return 3
	}
	return -1
}
