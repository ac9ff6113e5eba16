// Package server wires the HTTP API: bearer-token middleware, JSON
// handlers and the route table.
package server

import (
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/auth"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/common/logger"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/ingest/sheets"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/ingest/shopify"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/orders"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/riders"
)

type Handler struct {
	lg        *logger.Logger
	auth      *auth.Service
	orders    *orders.Service
	locations *riders.Locations
	shopify   *shopify.Service
	sheets    *sheets.Service
}

func NewHandler(
	authSvc *auth.Service,
	orderSvc *orders.Service,
	locations *riders.Locations,
	shopifySvc *shopify.Service,
	sheetsSvc *sheets.Service,
) *Handler {
	return &Handler{
		lg:        logger.New("api"),
		auth:      authSvc,
		orders:    orderSvc,
		locations: locations,
		shopify:   shopifySvc,
		sheets:    sheetsSvc,
	}
}
