package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nextgen/nextgen-api/internal/domain"
)

type CategoryRepository interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	FindChildren(ctx context.Context, parentID int64) ([]domain.Category, error)
	HasChildren(ctx context.Context, parentID int64) (bool, error)
	Create(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.Category, error)
	Update(ctx context.Context, id int64, req *domain.UpdateCategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categoryCols = `id, name, icon, parent_id, sort_order, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.ParentID, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]domain.Category, error) {
	const q = `SELECT ` + categoryCols + ` FROM categories WHERE is_active = true ORDER BY sort_order`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	const q = `SELECT ` + categoryCols + ` FROM categories WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCategory(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *categoryRepository) FindChildren(ctx context.Context, parentID int64) ([]domain.Category, error) {
	const q = `SELECT ` + categoryCols + ` FROM categories WHERE parent_id = $1 AND is_active = true ORDER BY sort_order`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, *c)
	}
	return children, rows.Err()
}

func (r *categoryRepository) HasChildren(ctx context.Context, parentID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM categories WHERE parent_id = $1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, parentID).Scan(&exists)
	return exists, err
}

func (r *categoryRepository) Create(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.Category, error) {
	const q = `
		INSERT INTO categories (name, icon, parent_id, sort_order, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING ` + categoryCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanCategory(r.pool.QueryRow(ctx, q, req.Name, req.Icon, req.ParentID, req.SortOrder))
}

func (r *categoryRepository) Update(ctx context.Context, id int64, req *domain.UpdateCategoryRequest) (*domain.Category, error) {
	const q = `
		UPDATE categories
		SET
			name = COALESCE($2, name),
			icon = COALESCE($3, icon),
			parent_id = COALESCE($4, parent_id),
			sort_order = COALESCE($5, sort_order),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCategory(r.pool.QueryRow(ctx, q, id, req.Name, req.Icon, req.ParentID, req.SortOrder, req.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM categories WHERE id = $1`
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
