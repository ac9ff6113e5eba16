package server

import (
	"fmt"
	"net/http"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/ingest/sheets"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/ingest/shopify"
)

func (h *Handler) saveShopifySettings(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var st shopify.Settings
	if !decode(w, r, &st) {
		return
	}
	if err := h.shopify.SaveSettings(r.Context(), st); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) getShopifySettings(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	st, err := h.shopify.GetSettings(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": st})
}

func (h *Handler) testShopify(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	if err := h.shopify.TestConnection(r.Context()); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Successfully connected to Shopify"})
}

func (h *Handler) fetchShopifyOrders(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	fetched, added, err := h.shopify.FetchOrders(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Fetched %d orders, added %d new orders", fetched, added),
	})
}

func (h *Handler) saveSheetsSettings(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var st sheets.Settings
	if !decode(w, r, &st) {
		return
	}
	if err := h.sheets.SaveSettings(r.Context(), st); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) getSheetsSettings(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	st, err := h.sheets.GetSettings(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": st})
}

func (h *Handler) testSheets(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	if err := h.sheets.TestConnection(r.Context()); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Successfully connected to Google Sheets"})
}

func (h *Handler) syncSheetsOrders(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.SheetsSyncRequest
	if !decode(w, r, &req) {
		return
	}
	added, err := h.sheets.SyncOrders(r.Context(), req.Date)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        fmt.Sprintf("Added %d new orders", added),
		"newOrdersCount": added,
	})
}

func (h *Handler) addOrderToSheets(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.SheetsAddOrderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.sheets.AddOrder(r.Context(), req.Date, req.Order); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
