package server

import (
	"net/http"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

func (h *Handler) listRiders(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	rs, err := h.auth.ListRiders(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	if rs == nil {
		rs = []domain.Rider{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"riders": rs})
}

func (h *Handler) createRider(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.CreateRiderRequest
	if !decode(w, r, &req) {
		return
	}
	rider, err := h.auth.CreateRider(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rider": rider})
}

func (h *Handler) changeRiderPassword(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.ChangePassword(r.Context(), r.PathValue("riderId"), req.Password); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) updateRiderStatus(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.UpdateRiderStatusRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.SetRiderStatus(r.Context(), r.PathValue("riderId"), req.Status); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) riderOrders(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	list, err := h.orders.ListForRider(r.Context(), r.PathValue("riderId"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

func (h *Handler) updateLocation(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	var req domain.UpdateLocationRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.locations.Update(r.Context(), r.PathValue("riderId"), req.Latitude, req.Longitude); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) riderLocation(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	loc, err := h.locations.Get(r.Context(), r.PathValue("riderId"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"location": loc})
}

func (h *Handler) allLocations(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	locs, err := h.locations.All(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locs})
}
