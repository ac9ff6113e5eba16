package server

import (
	"net/http"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/summary"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	list, err := h.orders.List(r.Context(), r.PathValue("date"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := h.orders.Create(r.Context(), req.Date, req.Order)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Best-effort mirror to the spreadsheet. The order already exists
	// locally; a failed mirror is reported in the response, not rolled
	// back.
	sheetsSynced := false
	if req.SyncToSheets {
		if err := h.sheets.AddOrder(r.Context(), req.Date, order); err != nil {
			h.lg.Error("sheets_mirror_failed", err, map[string]any{"order_id": order.ID})
		} else {
			sheetsSynced = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order, "sheetsSynced": sheetsSynced})
}

func (h *Handler) assignOrder(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.AssignOrderRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := h.orders.Assign(r.Context(), req.Date, r.PathValue("orderId"), req.RiderID)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *Handler) updateAmount(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.UpdateAmountRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateAmount(r.Context(), req.Date, r.PathValue("orderId"), req.Amount)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *Handler) updateDeliveryStatus(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.UpdateDeliveryStatusRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateDeliveryStatus(r.Context(), req.Date, r.PathValue("orderId"), req.Status)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request, id domain.Identity) {
	var req domain.UpdatePaymentRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := h.orders.CollectPayment(r.Context(), req.Date, r.PathValue("orderId"), req.PaymentMethod, id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	date := r.PathValue("date")
	list, err := h.orders.List(r.Context(), date)
	if err != nil {
		fail(w, err)
		return
	}
	rs, err := h.auth.ListRiders(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":        summary.Daily(list),
		"riderSummaries": summary.PerRider(list, rs),
	})
}
