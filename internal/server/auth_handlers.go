package server

import (
	"net/http"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

func (h *Handler) setupStatus(w http.ResponseWriter, r *http.Request) {
	complete, err := h.auth.SetupStatus(r.Context())
	if err != nil {
		// A broken store reads as "not set up" so the first-run flow can
		// still start.
		writeJSON(w, http.StatusOK, map[string]bool{"setupComplete": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"setupComplete": complete})
}

func (h *Handler) setupComplete(w http.ResponseWriter, r *http.Request) {
	var req domain.SetupRequest
	if !decode(w, r, &req) {
		return
	}
	adminID, err := h.auth.CompleteSetup(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "adminId": adminID})
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if !decode(w, r, &req) {
		return
	}
	token, user, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accessToken": token, "user": user})
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, _, err := h.auth.SignIn(r.Context(), user.Email, req.Password)
	if err != nil {
		// Account exists but auto sign-in failed; client falls back to the
		// sign-in form.
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Account created successfully. Please sign in.",
			"userId":  user.ID,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "accessToken": token, "user": user})
}
