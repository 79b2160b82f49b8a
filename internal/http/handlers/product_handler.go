package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/http/middleware"
	"github.com/nextgen/nextgen-api/internal/http/response"
)

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := &domain.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		Technology: r.URL.Query().Get("technology"),
		Sort:       r.URL.Query().Get("sort"),
	}
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Fail(w, http.StatusBadRequest, "Invalid category filter")
			return
		}
		filter.CategoryID = &id
	}

	products, err := h.productService.ListProducts(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	response.OK(w, http.StatusOK, "", products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", product)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Product created successfully", product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req domain.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Product updated successfully", product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Product deleted successfully", nil)
}

func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Fail(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req domain.AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	// Review author comes from the session, not the payload.
	user, err := h.authService.Profile(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	product, err := h.productService.AddReview(r.Context(), id, user.ID, user.FullName, &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Review added successfully", product)
}

func (h *Handlers) IncrementDownloads(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	downloads, err := h.productService.IncrementDownloads(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Downloads incremented successfully", map[string]int64{"downloads": downloads})
}
