package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nextgen/nextgen-api/internal/service"
	"github.com/nextgen/nextgen-api/pkg/config"
)

type Handlers struct {
	authService    service.AuthService
	catalogService service.CatalogService
	productService service.ProductService
	bannerService  service.BannerService
	config         *config.Config
}

func New(
	authService service.AuthService,
	catalogService service.CatalogService,
	productService service.ProductService,
	bannerService service.BannerService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		authService:    authService,
		catalogService: catalogService,
		productService: productService,
		bannerService:  bannerService,
		config:         cfg,
	}
}

func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// sessionCookie builds the Authorization cookie. HttpOnly and Secure
// are set only in production-like environments so local tooling can
// read the token.
func (h *Handlers) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     "Authorization",
		Value:    "Bearer " + token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: h.config.IsProduction(),
		Secure:   h.config.IsProduction(),
	}
}

func (h *Handlers) clearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:    "Authorization",
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	}
}
