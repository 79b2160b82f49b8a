package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nextgen/nextgen-api/internal/domain"
)

type BannerRepository interface {
	ListActive(ctx context.Context) ([]domain.Banner, error)
	FindByID(ctx context.Context, id int64) (*domain.Banner, error)
	Create(ctx context.Context, req *domain.CreateBannerRequest) (*domain.Banner, error)
	Delete(ctx context.Context, id int64) error
}

type bannerRepository struct {
	pool *pgxpool.Pool
}

func NewBannerRepository(pool *pgxpool.Pool) BannerRepository {
	return &bannerRepository{pool: pool}
}

const bannerCols = `id, image, title, sort_order, is_active, created_at`

func scanBanner(row pgx.Row) (*domain.Banner, error) {
	var b domain.Banner
	err := row.Scan(&b.ID, &b.Image, &b.Title, &b.SortOrder, &b.IsActive, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bannerRepository) ListActive(ctx context.Context) ([]domain.Banner, error) {
	const q = `SELECT ` + bannerCols + ` FROM banners WHERE is_active = true ORDER BY sort_order`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		banners = append(banners, *b)
	}
	return banners, rows.Err()
}

func (r *bannerRepository) FindByID(ctx context.Context, id int64) (*domain.Banner, error) {
	const q = `SELECT ` + bannerCols + ` FROM banners WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBanner(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *bannerRepository) Create(ctx context.Context, req *domain.CreateBannerRequest) (*domain.Banner, error) {
	const q = `
		INSERT INTO banners (image, title, sort_order, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING ` + bannerCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBanner(r.pool.QueryRow(ctx, q, req.Image, req.Title, req.SortOrder))
}

func (r *bannerRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM banners WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
