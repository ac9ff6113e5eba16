package domain

// Roles recognised by the auth gate.
const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleRider      = "rider"
)

// Rider statuses. Status is derived: busy while at least one assigned
// order is still active, available otherwise. The lifecycle engine is the
// only writer apart from account creation and admin override.
const (
	RiderAvailable = "available"
	RiderBusy      = "busy"
)

// User is an account held in the directory. Riders sign in by username
// (mapped to <username>@delivery.local); admins and dispatchers by email.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username,omitempty"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Status       string `json:"status,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Rider is the public projection of a rider account.
type Rider struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

// Identity is the result of verifying a bearer token.
type Identity struct {
	UserID   string
	Role     string
	Name     string
	Username string
}

// RiderLocation is the last reported GPS fix for a rider.
type RiderLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp"`
}
