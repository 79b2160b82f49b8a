package domain

import (
	"strings"
	"time"
)

type Banner struct {
	ID        int64     `json:"id"`
	Image     string    `json:"image"`
	Title     string    `json:"title"`
	SortOrder int       `json:"order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateBannerRequest struct {
	Image     string `json:"image"`
	Title     string `json:"title"`
	SortOrder int    `json:"order"`
}

func (r *CreateBannerRequest) Normalize() {
	r.Image = strings.TrimSpace(r.Image)
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = "Banner"
	}
}

func (r *CreateBannerRequest) Validate() error {
	if r.Image == "" {
		return Validationf("image is required")
	}
	return nil
}
