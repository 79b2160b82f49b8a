package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/http/response"
)

func (h *Handlers) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.bannerService.ListBanners(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if banners == nil {
		banners = []domain.Banner{}
	}
	response.OK(w, http.StatusOK, "", banners)
}

func (h *Handlers) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	banner, err := h.bannerService.CreateBanner(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Banner uploaded successfully", banner)
}

func (h *Handlers) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid banner ID")
		return
	}

	if err := h.bannerService.DeleteBanner(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Banner deleted successfully", nil)
}
