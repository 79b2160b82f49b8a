package service

import (
	"context"
	"fmt"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/repo/postgres"
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *domain.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type catalogService struct {
	categoryRepo postgres.CategoryRepository
}

func NewCatalogService(categoryRepo postgres.CategoryRepository) CatalogService {
	return &catalogService{categoryRepo: categoryRepo}
}

// ListCategories returns active root categories with their children
// nested, ordered by sort_order.
func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	byParent := make(map[int64][]domain.Category)
	var roots []domain.Category
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}
	for i := range roots {
		roots[i].Children = byParent[roots[i].ID]
	}
	return roots, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	children, err := s.categoryRepo.FindChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category children: %w", err)
	}
	category.Children = children
	return category, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.Category, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check parent category: %w", err)
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
	}

	category, err := s.categoryRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, req *domain.UpdateCategoryRequest) (*domain.Category, error) {
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check parent category: %w", err)
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
	}

	category, err := s.categoryRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category children: %w", err)
	}
	if hasChildren {
		return domain.ErrConflict
	}

	return s.categoryRepo.Delete(ctx, id)
}
