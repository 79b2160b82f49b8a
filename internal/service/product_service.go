package service

import (
	"context"
	"fmt"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/repo/postgres"
	"github.com/nextgen/nextgen-api/pkg/events"
	"github.com/nextgen/nextgen-api/pkg/logger"
)

type ProductService interface {
	ListProducts(ctx context.Context, filter *domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	AddReview(ctx context.Context, productID int64, authorID int64, authorName string, req *domain.AddReviewRequest) (*domain.Product, error)
	IncrementDownloads(ctx context.Context, id int64) (int64, error)
}

type productService struct {
	productRepo postgres.ProductRepository
	eventBus    events.Publisher
}

func NewProductService(productRepo postgres.ProductRepository, eventBus events.Publisher) ProductService {
	return &productService{
		productRepo: productRepo,
		eventBus:    eventBus,
	}
}

func (s *productService) ListProducts(ctx context.Context, filter *domain.ProductFilter) ([]domain.Product, error) {
	if filter == nil {
		filter = &domain.ProductFilter{}
	}

	// An unknown technology filter matches nothing, same as searching
	// for a product that does not exist.
	if filter.Technology != "" {
		tech, err := s.productRepo.FindTechnologyByName(ctx, filter.Technology)
		if err != nil {
			return nil, fmt.Errorf("failed to look up technology: %w", err)
		}
		if tech == nil {
			return []domain.Product{}, nil
		}
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.productRepo.IncrementViews(ctx, id); err != nil {
		logger.WarnContext(ctx, "Failed to increment product views", "error", err, "product_id", id)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	techIDs, err := s.resolveTechnologies(ctx, req.Technologies)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Create(ctx, req, techIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, events.ProductCreated, events.ProductCreatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			CreatedAt: product.CreatedAt,
		}); err != nil {
			logger.WarnContext(ctx, "Failed to publish product.created", "error", err, "product_id", product.ID)
		}
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *domain.UpdateProductRequest) (*domain.Product, error) {
	// nil means "leave the technology links alone"; an empty slice
	// clears them.
	var techIDs []int64
	if req.Technologies != nil {
		ids, err := s.resolveTechnologies(ctx, req.Technologies)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []int64{}
		}
		techIDs = ids
	}

	product, err := s.productRepo.Update(ctx, id, req, techIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, events.ProductDeleted, events.ProductDeletedEvent{
			ProductID: id,
		}); err != nil {
			logger.WarnContext(ctx, "Failed to publish product.deleted", "error", err, "product_id", id)
		}
	}

	return nil
}

func (s *productService) AddReview(ctx context.Context, productID int64, authorID int64, authorName string, req *domain.AddReviewRequest) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	review := &domain.Review{
		AuthorName: authorName,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Avatar:     fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%d", authorID),
	}
	if _, err := s.productRepo.AddReview(ctx, productID, review); err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	reviews, err := s.productRepo.ListReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload reviews: %w", err)
	}
	product.Reviews = reviews
	return product, nil
}

func (s *productService) IncrementDownloads(ctx context.Context, id int64) (int64, error) {
	downloads, err := s.productRepo.IncrementDownloads(ctx, id)
	if err != nil {
		return 0, err
	}
	return downloads, nil
}

func (s *productService) resolveTechnologies(ctx context.Context, names []string) ([]int64, error) {
	var ids []int64
	for _, name := range names {
		if name == "" {
			continue
		}
		tech, err := s.productRepo.FindOrCreateTechnology(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve technology %q: %w", name, err)
		}
		ids = append(ids, tech.ID)
	}
	return ids, nil
}
