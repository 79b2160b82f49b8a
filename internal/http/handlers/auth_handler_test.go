package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/http/handlers"
	"github.com/nextgen/nextgen-api/internal/http/middleware"
	"github.com/nextgen/nextgen-api/internal/http/response"
	"github.com/nextgen/nextgen-api/internal/platform/auth"
	"github.com/nextgen/nextgen-api/pkg/config"
)

const testJWTSecret = "handler-test-secret"

type stubAuthService struct {
	signupUser  *domain.User
	signupErr   error
	signinToken string
	signinErr   error
	requestErr  error
	confirmErr  error
	profileUser *domain.User
	profileErr  error
}

func (s *stubAuthService) Signup(_ context.Context, _ *domain.SignupRequest) (*domain.User, error) {
	return s.signupUser, s.signupErr
}

func (s *stubAuthService) Signin(_ context.Context, _ *domain.SigninRequest) (string, *domain.User, error) {
	if s.signinErr != nil {
		return "", nil, s.signinErr
	}
	return s.signinToken, s.signupUser, nil
}

func (s *stubAuthService) RequestVerificationCode(_ context.Context, _ string) error {
	return s.requestErr
}

func (s *stubAuthService) ConfirmVerificationCode(_ context.Context, _, _ string) error {
	return s.confirmErr
}

func (s *stubAuthService) Profile(_ context.Context, _ int64) (*domain.User, error) {
	return s.profileUser, s.profileErr
}

func testRouter(authSvc *stubAuthService) http.Handler {
	cfg := &config.Config{Env: "test"}
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Auth.SessionTTL = 8 * time.Hour

	h := handlers.New(authSvc, nil, nil, nil, cfg)
	requireAuth := middleware.RequireAuth(testJWTSecret)

	r := chi.NewRouter()
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/signin", h.Signin)
	r.Post("/api/auth/signout", h.Signout)
	r.Patch("/api/auth/send-verification-code", h.SendVerificationCode)
	r.Patch("/api/auth/verify-verification-code", h.VerifyVerificationCode)
	r.With(requireAuth).Get("/api/users/profile", h.Profile)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, mutate func(*http.Request)) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

func TestSignupEndpoint(t *testing.T) {
	svc := &stubAuthService{
		signupUser: &domain.User{ID: 1, Email: "a@x.com", FullName: "Ann", PasswordHash: "$argon2id$..."},
	}
	router := testRouter(svc)

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signup",
		`{"email":"a@x.com","password":"P@ss1234","fullname":"Ann"}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if !env.Success {
		t.Errorf("envelope not successful: %+v", env)
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("signup response leaks the password field: %s", rec.Body.String())
	}
}

func TestSignupConflict(t *testing.T) {
	router := testRouter(&stubAuthService{signupErr: domain.ErrConflict})

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signup",
		`{"email":"a@x.com","password":"P@ss1234","fullname":"Ann"}`, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if env.Success {
		t.Error("conflict envelope must not be successful")
	}
}

func TestSignupMalformedJSON(t *testing.T) {
	router := testRouter(&stubAuthService{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/signup", `{"email":`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSigninSetsAuthorizationCookie(t *testing.T) {
	router := testRouter(&stubAuthService{signinToken: "tok123"})

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signin",
		`{"email":"a@x.com","password":"P@ss1234"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatal("Authorization cookie not set")
	}
	if session.Value != "Bearer tok123" {
		t.Errorf("cookie value = %q, want \"Bearer tok123\"", session.Value)
	}
	if session.Secure || session.HttpOnly {
		t.Error("Secure and HttpOnly apply only in production")
	}

	data, _ := env.Data.(map[string]any)
	if data["token"] != "tok123" {
		t.Errorf("body token = %v, want tok123", data["token"])
	}
	if data["expires_in"] != float64((8 * time.Hour).Seconds()) {
		t.Errorf("expires_in = %v, want 28800", data["expires_in"])
	}
}

func TestSigninInvalidCredentials(t *testing.T) {
	router := testRouter(&stubAuthService{signinErr: domain.ErrInvalidCredentials})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/signin",
		`{"email":"a@x.com","password":"wrong"}`, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed signin must not set a cookie")
	}
}

func TestSignoutClearsCookie(t *testing.T) {
	router := testRouter(&stubAuthService{})

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signout", ``, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !env.Success {
		t.Errorf("envelope not successful: %+v", env)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatal("signout must rewrite the Authorization cookie")
	}
	if session.Value != "" || session.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value=%q maxAge=%d", session.Value, session.MaxAge)
	}
}

func TestSendVerificationCodeStatuses(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ok", nil, http.StatusOK},
		{"unknown user", domain.ErrNotFound, http.StatusNotFound},
		{"already verified", domain.ErrAlreadyVerified, http.StatusBadRequest},
		{"delivery failed", domain.ErrDeliveryFailed, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(&stubAuthService{requestErr: tc.err})
			rec, _ := doJSON(t, router, http.MethodPatch, "/api/auth/send-verification-code",
				`{"email":"a@x.com"}`, nil)
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}

func TestVerifyVerificationCodeStatuses(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ok", nil, http.StatusOK},
		{"no active code", domain.ErrNoActiveCode, http.StatusBadRequest},
		{"expired", domain.ErrCodeExpired, http.StatusBadRequest},
		{"mismatch", domain.ErrCodeMismatch, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(&stubAuthService{confirmErr: tc.err})
			rec, _ := doJSON(t, router, http.MethodPatch, "/api/auth/verify-verification-code",
				`{"email":"a@x.com","provided_code":"42913"}`, nil)
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}

func TestVerifyVerificationCodeRequiresCode(t *testing.T) {
	router := testRouter(&stubAuthService{})

	rec, _ := doJSON(t, router, http.MethodPatch, "/api/auth/verify-verification-code",
		`{"email":"a@x.com"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	router := testRouter(&stubAuthService{})

	rec, _ := doJSON(t, router, http.MethodGet, "/api/users/profile", ``, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProfileWithCookieToken(t *testing.T) {
	svc := &stubAuthService{
		profileUser: &domain.User{ID: 7, Email: "a@x.com", FullName: "Ann"},
	}
	router := testRouter(svc)

	token, err := auth.NewSessionToken(7, "a@x.com", true, false, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	rec, env := doJSON(t, router, http.MethodGet, "/api/users/profile", ``, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "Bearer " + token})
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	data, _ := env.Data.(map[string]any)
	if data["email"] != "a@x.com" {
		t.Errorf("profile email = %v", data["email"])
	}
}

func TestProfileWithHeaderToken(t *testing.T) {
	svc := &stubAuthService{
		profileUser: &domain.User{ID: 7, Email: "a@x.com", FullName: "Ann"},
	}
	router := testRouter(svc)

	token, err := auth.NewSessionToken(7, "a@x.com", true, false, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	rec, _ := doJSON(t, router, http.MethodGet, "/api/users/profile", ``, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestProfileRejectsTamperedToken(t *testing.T) {
	router := testRouter(&stubAuthService{})

	token, err := auth.NewSessionToken(7, "a@x.com", true, false, "some-other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	rec, _ := doJSON(t, router, http.MethodGet, "/api/users/profile", ``, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
