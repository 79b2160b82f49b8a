package domain

import (
	"strings"
	"time"
)

type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	ParentID  *int64     `json:"parent,omitempty"`
	SortOrder int        `json:"order"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Children  []Category `json:"children,omitempty"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	ParentID  *int64 `json:"parent,omitempty"`
	SortOrder int    `json:"order"`
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	ParentID  *int64  `json:"parent,omitempty"`
	SortOrder *int    `json:"order,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Icon = strings.TrimSpace(r.Icon)
}

func (r *CreateCategoryRequest) Validate() error {
	if r.Name == "" {
		return Validationf("name is required")
	}
	return nil
}

type Technology struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Review struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"-"`
	AuthorName string    `json:"name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
}

type Product struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Price            float64      `json:"price"`
	ShortDescription string       `json:"short_description"`
	Description      string       `json:"description"`
	Installation     string       `json:"installation"`
	CoverImage       string       `json:"cover_image"`
	Images           []string     `json:"images"`
	VideoURL         string       `json:"video_url,omitempty"`
	CategoryID       *int64       `json:"category,omitempty"`
	SubCategoryID    *int64       `json:"sub_category,omitempty"`
	Technologies     []Technology `json:"technologies"`
	Reviews          []Review     `json:"reviews,omitempty"`
	Views            int64        `json:"views"`
	Downloads        int64        `json:"downloads"`
	IsActive         bool         `json:"is_active"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

type CreateProductRequest struct {
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	Installation     string   `json:"installation"`
	CoverImage       string   `json:"cover_image"`
	Images           []string `json:"images"`
	VideoURL         string   `json:"video_url"`
	CategoryID       *int64   `json:"category"`
	SubCategoryID    *int64   `json:"sub_category"`
	Technologies     []string `json:"technologies"`
}

type UpdateProductRequest struct {
	Name             *string  `json:"name,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	ShortDescription *string  `json:"short_description,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Installation     *string  `json:"installation,omitempty"`
	CoverImage       *string  `json:"cover_image,omitempty"`
	Images           []string `json:"images,omitempty"`
	VideoURL         *string  `json:"video_url,omitempty"`
	CategoryID       *int64   `json:"category,omitempty"`
	SubCategoryID    *int64   `json:"sub_category,omitempty"`
	Technologies     []string `json:"technologies,omitempty"`
}

type ProductFilter struct {
	CategoryID *int64
	Search     string
	Technology string
	Sort       string
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ShortDescription = strings.TrimSpace(r.ShortDescription)
}

func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return Validationf("name is required")
	}
	if r.Price <= 0 {
		return Validationf("price must be positive")
	}
	if r.ShortDescription == "" {
		return Validationf("short_description is required")
	}
	if r.Description == "" {
		return Validationf("description is required")
	}
	if r.Installation == "" {
		return Validationf("installation is required")
	}
	if r.CoverImage == "" {
		return Validationf("cover_image is required")
	}
	if len(r.Images) == 0 {
		return Validationf("at least one product image is required")
	}
	return nil
}

func (r *AddReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return Validationf("rating must be between 1 and 5")
	}
	if strings.TrimSpace(r.Comment) == "" {
		return Validationf("comment is required")
	}
	return nil
}
