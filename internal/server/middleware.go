package server

import (
	"net/http"
	"strings"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

// authedHandler receives the verified caller identity alongside the
// request.
type authedHandler func(w http.ResponseWriter, r *http.Request, id domain.Identity)

// withAuth verifies the bearer token before dispatching.
func (h *Handler) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.identify(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, id)
	}
}

// withRole additionally restricts the operation to the listed roles.
func (h *Handler) withRole(next authedHandler, roles ...string) http.HandlerFunc {
	return h.withAuth(func(w http.ResponseWriter, r *http.Request, id domain.Identity) {
		for _, role := range roles {
			if id.Role == role {
				next(w, r, id)
				return
			}
		}
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	})
}

func (h *Handler) identify(r *http.Request) (domain.Identity, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return h.auth.Verify(token)
}
