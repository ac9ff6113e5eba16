package domain

// DailySummary aggregates one date partition.
type DailySummary struct {
	TotalOrders       int     `json:"totalOrders"`
	DeliveredOrders   int     `json:"deliveredOrders"`
	UndeliveredOrders int     `json:"undeliveredOrders"`
	UnassignedOrders  int     `json:"unassignedOrders"`
	AssignedOrders    int     `json:"assignedOrders"`
	CashPayments      float64 `json:"cashPayments"`
	CardPayments      float64 `json:"cardPayments"`
}

// RiderSummary is one per-rider row of the daily summary.
type RiderSummary struct {
	RiderID       string  `json:"riderId"`
	RiderName     string  `json:"riderName"`
	TotalAssigned int     `json:"totalAssigned"`
	Delivered     int     `json:"delivered"`
	CashCollected float64 `json:"cashCollected"`
	CardCollected float64 `json:"cardCollected"`
	Status        string  `json:"status"`
}
