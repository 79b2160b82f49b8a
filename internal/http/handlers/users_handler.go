package handlers

import (
	"net/http"

	"github.com/nextgen/nextgen-api/internal/http/middleware"
	"github.com/nextgen/nextgen-api/internal/http/response"
)

// Profile returns the authenticated user, password hash excluded.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Fail(w, http.StatusUnauthorized, "No token provided")
		return
	}

	user, err := h.authService.Profile(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", user)
}
