package domain

// Request bodies for the HTTP API. Field names mirror the JSON contract
// the dashboard and rider app already speak.

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type SetupAccount struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SetupRequest struct {
	Admin       SetupAccount   `json:"admin"`
	Riders      []SetupAccount `json:"riders"`
	Dispatchers []SetupAccount `json:"dispatchers"`
}

type CreateOrderRequest struct {
	Date         string `json:"date"`
	Order        Order  `json:"order"`
	SyncToSheets bool   `json:"syncToSheets,omitempty"`
}

type AssignOrderRequest struct {
	Date    string `json:"date"`
	RiderID string `json:"riderId"`
}

type UpdateAmountRequest struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type UpdateDeliveryStatusRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type UpdatePaymentRequest struct {
	Date          string `json:"date"`
	PaymentMethod string `json:"paymentMethod"`
}

type UpdateRiderStatusRequest struct {
	Status string `json:"status"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type CreateRiderRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SheetsSyncRequest struct {
	Date string `json:"date"`
}

type SheetsAddOrderRequest struct {
	Date  string `json:"date"`
	Order Order  `json:"order"`
}
