package service

import (
	"context"
	"fmt"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/repo/postgres"
)

type BannerService interface {
	ListBanners(ctx context.Context) ([]domain.Banner, error)
	CreateBanner(ctx context.Context, req *domain.CreateBannerRequest) (*domain.Banner, error)
	DeleteBanner(ctx context.Context, id int64) error
}

type bannerService struct {
	bannerRepo postgres.BannerRepository
}

func NewBannerService(bannerRepo postgres.BannerRepository) BannerService {
	return &bannerService{bannerRepo: bannerRepo}
}

func (s *bannerService) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	banners, err := s.bannerRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

func (s *bannerService) CreateBanner(ctx context.Context, req *domain.CreateBannerRequest) (*domain.Banner, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	banner, err := s.bannerRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return banner, nil
}

func (s *bannerService) DeleteBanner(ctx context.Context, id int64) error {
	banner, err := s.bannerRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get banner: %w", err)
	}
	if banner == nil {
		return domain.ErrNotFound
	}

	return s.bannerRepo.Delete(ctx, id)
}
