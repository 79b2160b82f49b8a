package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nextgen/nextgen-api/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context, filter *domain.ProductFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, req *domain.CreateProductRequest, techIDs []int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, req *domain.UpdateProductRequest, techIDs []int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	FindOrCreateTechnology(ctx context.Context, name string) (*domain.Technology, error)
	FindTechnologyByName(ctx context.Context, name string) (*domain.Technology, error)
	AddReview(ctx context.Context, productID int64, review *domain.Review) (*domain.Review, error)
	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
	IncrementViews(ctx context.Context, id int64) error
	IncrementDownloads(ctx context.Context, id int64) (int64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productCols = `id, name, price, short_description, description, installation, cover_image, images, video_url, category_id, sub_category_id, views, downloads, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.ShortDescription, &p.Description, &p.Installation,
		&p.CoverImage, &p.Images, &p.VideoURL, &p.CategoryID, &p.SubCategoryID,
		&p.Views, &p.Downloads, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var productSorts = map[string]string{
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"price":       "price ASC",
	"-price":      "price DESC",
	"name":        "name ASC",
	"-name":       "name DESC",
}

func (r *productRepository) List(ctx context.Context, filter *domain.ProductFilter) ([]domain.Product, error) {
	where := []string{"is_active = true"}
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("(category_id = $%d OR sub_category_id = $%d)", len(args), len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR short_description ILIKE $%d)", len(args), len(args)))
	}
	if filter.Technology != "" {
		args = append(args, filter.Technology)
		where = append(where, fmt.Sprintf(`id IN (
			SELECT pt.product_id FROM product_technologies pt
			JOIN technologies t ON t.id = pt.technology_id
			WHERE t.name ILIKE $%d)`, len(args)))
	}

	orderBy, ok := productSorts[filter.Sort]
	if !ok {
		orderBy = productSorts["-created_at"]
	}

	q := `SELECT ` + productCols + ` FROM products WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + orderBy

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTechnologies(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `SELECT ` + productCols + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	products := []domain.Product{*p}
	if err := r.attachTechnologies(ctx, products); err != nil {
		return nil, err
	}

	reviews, err := r.ListReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	products[0].Reviews = reviews
	return &products[0], nil
}

func (r *productRepository) Create(ctx context.Context, req *domain.CreateProductRequest, techIDs []int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO products (name, price, short_description, description, installation, cover_image, images, video_url, category_id, sub_category_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
		RETURNING ` + productCols

	p, err := scanProduct(tx.QueryRow(ctx, q,
		req.Name, req.Price, req.ShortDescription, req.Description, req.Installation,
		req.CoverImage, req.Images, req.VideoURL, req.CategoryID, req.SubCategoryID,
	))
	if err != nil {
		return nil, err
	}

	if err := linkTechnologies(ctx, tx, p.ID, techIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	products := []domain.Product{*p}
	if err := r.attachTechnologies(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *productRepository) Update(ctx context.Context, id int64, req *domain.UpdateProductRequest, techIDs []int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
		UPDATE products
		SET
			name = COALESCE($2, name),
			price = COALESCE($3, price),
			short_description = COALESCE($4, short_description),
			description = COALESCE($5, description),
			installation = COALESCE($6, installation),
			cover_image = COALESCE($7, cover_image),
			images = COALESCE($8, images),
			video_url = COALESCE($9, video_url),
			category_id = COALESCE($10, category_id),
			sub_category_id = COALESCE($11, sub_category_id),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + productCols

	p, err := scanProduct(tx.QueryRow(ctx, q, id,
		req.Name, req.Price, req.ShortDescription, req.Description, req.Installation,
		req.CoverImage, req.Images, req.VideoURL, req.CategoryID, req.SubCategoryID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if techIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM product_technologies WHERE product_id = $1`, id); err != nil {
			return nil, err
		}
		if err := linkTechnologies(ctx, tx, id, techIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	products := []domain.Product{*p}
	if err := r.attachTechnologies(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM products WHERE id = $1`
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

func (r *productRepository) FindOrCreateTechnology(ctx context.Context, name string) (*domain.Technology, error) {
	// Default icon mirrors the admin form's placeholder.
	const q = `
		INSERT INTO technologies (name, icon)
		VALUES ($1, '⚙️')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, icon`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var t domain.Technology
	err := r.pool.QueryRow(ctx, q, name).Scan(&t.ID, &t.Name, &t.Icon)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *productRepository) FindTechnologyByName(ctx context.Context, name string) (*domain.Technology, error) {
	const q = `SELECT id, name, icon FROM technologies WHERE name ILIKE $1 LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var t domain.Technology
	err := r.pool.QueryRow(ctx, q, name).Scan(&t.ID, &t.Name, &t.Icon)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *productRepository) AddReview(ctx context.Context, productID int64, review *domain.Review) (*domain.Review, error) {
	const q = `
		INSERT INTO reviews (product_id, author_name, rating, comment, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, author_name, rating, comment, avatar, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var rv domain.Review
	err := r.pool.QueryRow(ctx, q, productID, review.AuthorName, review.Rating, review.Comment, review.Avatar).Scan(
		&rv.ID, &rv.ProductID, &rv.AuthorName, &rv.Rating, &rv.Comment, &rv.Avatar, &rv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *productRepository) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	const q = `
		SELECT id, product_id, author_name, rating, comment, avatar, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.AuthorName, &rv.Rating, &rv.Comment, &rv.Avatar, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *productRepository) IncrementViews(ctx context.Context, id int64) error {
	const q = `UPDATE products SET views = views + 1 WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id)
	return err
}

func (r *productRepository) IncrementDownloads(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE products SET downloads = downloads + 1 WHERE id = $1 RETURNING downloads`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var downloads int64
	err := r.pool.QueryRow(ctx, q, id).Scan(&downloads)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return downloads, err
}

func linkTechnologies(ctx context.Context, tx pgx.Tx, productID int64, techIDs []int64) error {
	for _, techID := range techIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_technologies (product_id, technology_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			productID, techID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *productRepository) attachTechnologies(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = i
		products[i].Technologies = []domain.Technology{}
	}

	const q = `
		SELECT pt.product_id, t.id, t.name, t.icon
		FROM product_technologies pt
		JOIN technologies t ON t.id = pt.technology_id
		WHERE pt.product_id = ANY($1)
		ORDER BY t.name`

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var t domain.Technology
		if err := rows.Scan(&productID, &t.ID, &t.Name, &t.Icon); err != nil {
			return err
		}
		i := index[productID]
		products[i].Technologies = append(products[i].Technologies, t)
	}
	return rows.Err()
}
