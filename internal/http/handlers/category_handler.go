package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/http/response"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	response.OK(w, http.StatusOK, "", categories)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Fail(w, http.StatusNotFound, "Category not found")
			return
		}
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", category)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Fail(w, http.StatusNotFound, "Parent category not found")
			return
		}
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Category created successfully", category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req domain.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	category, err := h.catalogService.UpdateCategory(r.Context(), id, &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Category updated successfully", category)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			response.Fail(w, http.StatusBadRequest, "Cannot delete category with children. Please delete children first.")
			return
		}
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Category deleted successfully", nil)
}
