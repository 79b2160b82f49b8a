package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/http/response"
)

// Signup registers a new, unverified user.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	// The password hash is json:"-" so the created record serializes
	// without it.
	response.OK(w, http.StatusCreated, "User registered successfully", user)
}

// Signin authenticates and returns the session token in the body and
// as the Authorization cookie.
func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req domain.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	token, _, err := h.authService.Signin(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	ttl := h.config.Auth.SessionTTL
	http.SetCookie(w, h.sessionCookie(token, ttl))
	response.OK(w, http.StatusOK, "Signed in successfully", domain.SigninResponse{
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
	})
}

// Signout clears the session cookie. The token itself stays valid
// until it expires; there is no server-side revocation.
func (h *Handlers) Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.clearedSessionCookie())
	response.OK(w, http.StatusOK, "Signed out successfully", nil)
}

// SendVerificationCode emails a fresh verification code.
func (h *Handlers) SendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req domain.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.authService.RequestVerificationCode(r.Context(), req.Email); err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Verification code sent successfully", nil)
}

// VerifyVerificationCode consumes a code and marks the account
// verified.
func (h *Handlers) VerifyVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.authService.ConfirmVerificationCode(r.Context(), req.Email, req.ProvidedCode); err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Account verified successfully, please sign in again", nil)
}
