package server

import (
	"net/http"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

// Router builds the route table. Method+path patterns need Go 1.22's
// ServeMux.
func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	admin := domain.RoleAdmin
	collectors := []string{domain.RoleRider, domain.RoleDispatcher, domain.RoleAdmin}

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /setup/status", h.setupStatus)
	mux.HandleFunc("POST /setup/complete", h.setupComplete)
	mux.HandleFunc("POST /auth/signin", h.signIn)
	mux.HandleFunc("POST /auth/signup", h.signUp)

	mux.HandleFunc("GET /riders", h.withRole(h.listRiders, admin))
	mux.HandleFunc("POST /riders", h.withRole(h.createRider, admin))
	mux.HandleFunc("POST /riders/{riderId}/password", h.withRole(h.changeRiderPassword, admin))
	mux.HandleFunc("POST /riders/{riderId}/status", h.withAuth(h.updateRiderStatus))
	mux.HandleFunc("GET /riders/{riderId}/orders", h.withAuth(h.riderOrders))
	mux.HandleFunc("POST /riders/{riderId}/location", h.withAuth(h.updateLocation))
	mux.HandleFunc("GET /riders/{riderId}/location", h.withAuth(h.riderLocation))
	mux.HandleFunc("GET /riders/locations", h.withRole(h.allLocations, admin))

	mux.HandleFunc("GET /orders/{date}", h.withAuth(h.listOrders))
	mux.HandleFunc("POST /orders", h.withRole(h.createOrder, admin))
	mux.HandleFunc("POST /orders/{orderId}/assign", h.withRole(h.assignOrder, admin))
	mux.HandleFunc("POST /orders/{orderId}/amount", h.withRole(h.updateAmount, admin))
	mux.HandleFunc("POST /orders/{orderId}/delivery-status", h.withAuth(h.updateDeliveryStatus))
	mux.HandleFunc("POST /orders/{orderId}/payment", h.withRole(h.updatePayment, collectors...))

	mux.HandleFunc("GET /summary/{date}", h.withAuth(h.dailySummary))

	mux.HandleFunc("POST /settings/shopify", h.withRole(h.saveShopifySettings, admin))
	mux.HandleFunc("GET /settings/shopify", h.withRole(h.getShopifySettings, admin))
	mux.HandleFunc("POST /shopify/test", h.withRole(h.testShopify, admin))
	mux.HandleFunc("POST /shopify/fetch-orders", h.withRole(h.fetchShopifyOrders, admin))

	mux.HandleFunc("POST /settings/google-sheets", h.withRole(h.saveSheetsSettings, admin))
	mux.HandleFunc("GET /settings/google-sheets", h.withRole(h.getSheetsSettings, admin))
	mux.HandleFunc("POST /google-sheets/test", h.withRole(h.testSheets, admin))
	mux.HandleFunc("POST /google-sheets/sync-orders", h.withRole(h.syncSheetsOrders, admin))
	mux.HandleFunc("POST /google-sheets/add-order", h.withRole(h.addOrderToSheets, admin))

	return mux
}
