package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nextgen/nextgen-api/internal/domain"
)

type mockProductRepo struct {
	products     map[int64]*domain.Product
	technologies map[string]*domain.Technology
	reviews      map[int64][]domain.Review
	nextID       int64
	nextTechID   int64
	viewBumps    map[int64]int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products:     make(map[int64]*domain.Product),
		technologies: make(map[string]*domain.Technology),
		reviews:      make(map[int64][]domain.Review),
		nextID:       1,
		nextTechID:   1,
		viewBumps:    make(map[int64]int),
	}
}

func (m *mockProductRepo) seed(name string) *domain.Product {
	p := &domain.Product{
		ID:        m.nextID,
		Name:      name,
		Price:     49,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	m.nextID++
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepo) List(_ context.Context, filter *domain.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for id := int64(1); id < m.nextID; id++ {
		p, ok := m.products[id]
		if !ok || !p.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	copy := *p
	copy.Reviews = m.reviews[id]
	return &copy, nil
}

func (m *mockProductRepo) Create(_ context.Context, req *domain.CreateProductRequest, techIDs []int64) (*domain.Product, error) {
	p := m.seed(req.Name)
	p.Price = req.Price
	for _, tid := range techIDs {
		for _, tech := range m.technologies {
			if tech.ID == tid {
				p.Technologies = append(p.Technologies, *tech)
			}
		}
	}
	copy := *p
	return &copy, nil
}

func (m *mockProductRepo) Update(_ context.Context, id int64, req *domain.UpdateProductRequest, techIDs []int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Technologies != nil {
		p.Technologies = nil
		for _, tid := range techIDs {
			for _, tech := range m.technologies {
				if tech.ID == tid {
					p.Technologies = append(p.Technologies, *tech)
				}
			}
		}
	}
	copy := *p
	return &copy, nil
}

func (m *mockProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) FindOrCreateTechnology(_ context.Context, name string) (*domain.Technology, error) {
	if tech, ok := m.technologies[name]; ok {
		copy := *tech
		return &copy, nil
	}
	tech := &domain.Technology{ID: m.nextTechID, Name: name, Icon: "⚙️"}
	m.nextTechID++
	m.technologies[name] = tech
	copy := *tech
	return &copy, nil
}

func (m *mockProductRepo) FindTechnologyByName(_ context.Context, name string) (*domain.Technology, error) {
	tech, ok := m.technologies[name]
	if !ok {
		return nil, nil
	}
	copy := *tech
	return &copy, nil
}

func (m *mockProductRepo) AddReview(_ context.Context, productID int64, review *domain.Review) (*domain.Review, error) {
	r := *review
	r.ID = int64(len(m.reviews[productID]) + 1)
	r.ProductID = productID
	r.CreatedAt = time.Now()
	m.reviews[productID] = append(m.reviews[productID], r)
	return &r, nil
}

func (m *mockProductRepo) ListReviews(_ context.Context, productID int64) ([]domain.Review, error) {
	return m.reviews[productID], nil
}

func (m *mockProductRepo) IncrementViews(_ context.Context, id int64) error {
	m.viewBumps[id]++
	return nil
}

func (m *mockProductRepo) IncrementDownloads(_ context.Context, id int64) (int64, error) {
	p, ok := m.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	p.Downloads++
	return p.Downloads, nil
}

func validCreateProduct(name string) *domain.CreateProductRequest {
	return &domain.CreateProductRequest{
		Name:             name,
		Price:            49,
		ShortDescription: "short",
		Description:      "long",
		Installation:     "npm install",
		CoverImage:       "cover.png",
		Images:           []string{"a.png"},
	}
}

func TestCreateProductResolvesTechnologies(t *testing.T) {
	repo := newMockProductRepo()
	bus := &mockPublisher{}
	svc := NewProductService(repo, bus)

	req := validCreateProduct("Dashboard Kit")
	req.Technologies = []string{"React", "Tailwind", ""}

	product, err := svc.CreateProduct(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if len(product.Technologies) != 2 {
		t.Fatalf("expected 2 technologies, blank names skipped, got %d", len(product.Technologies))
	}
	if len(repo.technologies) != 2 {
		t.Errorf("expected 2 technology rows, got %d", len(repo.technologies))
	}
	if len(bus.subjects) != 1 || bus.subjects[0] != "product.created" {
		t.Errorf("expected product.created event, got %v", bus.subjects)
	}

	// A second product naming React reuses the existing row.
	req2 := validCreateProduct("Landing Kit")
	req2.Technologies = []string{"React"}
	if _, err := svc.CreateProduct(context.Background(), req2); err != nil {
		t.Fatalf("second CreateProduct failed: %v", err)
	}
	if len(repo.technologies) != 2 {
		t.Errorf("React must be reused, not duplicated; have %d rows", len(repo.technologies))
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)

	req := validCreateProduct("Kit")
	req.Price = 0
	if _, err := svc.CreateProduct(context.Background(), req); !domain.IsValidation(err) {
		t.Fatalf("zero price: expected validation error, got %v", err)
	}

	req = validCreateProduct("Kit")
	req.Images = nil
	if _, err := svc.CreateProduct(context.Background(), req); !domain.IsValidation(err) {
		t.Fatalf("no images: expected validation error, got %v", err)
	}
}

func TestGetProductBumpsViews(t *testing.T) {
	repo := newMockProductRepo()
	p := repo.seed("Kit")
	svc := NewProductService(repo, nil)

	if _, err := svc.GetProduct(context.Background(), p.ID); err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if repo.viewBumps[p.ID] != 1 {
		t.Errorf("expected 1 view bump, got %d", repo.viewBumps[p.ID])
	}

	if _, err := svc.GetProduct(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing product: expected ErrNotFound, got %v", err)
	}
}

func TestListProductsUnknownTechnology(t *testing.T) {
	repo := newMockProductRepo()
	repo.seed("Kit")
	svc := NewProductService(repo, nil)

	products, err := svc.ListProducts(context.Background(), &domain.ProductFilter{Technology: "COBOL"})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("unknown technology must match nothing, got %d products", len(products))
	}
}

func TestUpdateProductTechnologySemantics(t *testing.T) {
	repo := newMockProductRepo()
	bus := &mockPublisher{}
	svc := NewProductService(repo, bus)

	req := validCreateProduct("Kit")
	req.Technologies = []string{"React"}
	created, err := svc.CreateProduct(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	// nil leaves links alone.
	name := "Kit v2"
	updated, err := svc.UpdateProduct(context.Background(), created.ID, &domain.UpdateProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if len(updated.Technologies) != 1 {
		t.Errorf("omitted technologies must stay, got %d", len(updated.Technologies))
	}

	// Empty slice clears them.
	updated, err = svc.UpdateProduct(context.Background(), created.ID, &domain.UpdateProductRequest{Technologies: []string{}})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if len(updated.Technologies) != 0 {
		t.Errorf("empty technologies must clear links, got %d", len(updated.Technologies))
	}
}

func TestDeleteProductPublishesEvent(t *testing.T) {
	repo := newMockProductRepo()
	p := repo.seed("Kit")
	bus := &mockPublisher{}
	svc := NewProductService(repo, bus)

	if err := svc.DeleteProduct(context.Background(), p.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if len(bus.subjects) != 1 || bus.subjects[0] != "product.deleted" {
		t.Errorf("expected product.deleted event, got %v", bus.subjects)
	}

	if err := svc.DeleteProduct(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing product: expected ErrNotFound, got %v", err)
	}
}

func TestAddReview(t *testing.T) {
	repo := newMockProductRepo()
	p := repo.seed("Kit")
	svc := NewProductService(repo, nil)

	product, err := svc.AddReview(context.Background(), p.ID, 7, "Ann", &domain.AddReviewRequest{
		Rating:  5,
		Comment: "great",
	})
	if err != nil {
		t.Fatalf("AddReview failed: %v", err)
	}
	if len(product.Reviews) != 1 {
		t.Fatalf("expected 1 review on the returned product, got %d", len(product.Reviews))
	}
	review := product.Reviews[0]
	if review.AuthorName != "Ann" || review.Rating != 5 {
		t.Errorf("unexpected review %+v", review)
	}
	if !strings.Contains(review.Avatar, "seed=7") {
		t.Errorf("avatar must be seeded by the author id, got %q", review.Avatar)
	}

	if _, err := svc.AddReview(context.Background(), p.ID, 7, "Ann", &domain.AddReviewRequest{Rating: 6, Comment: "x"}); !domain.IsValidation(err) {
		t.Fatalf("rating 6: expected validation error, got %v", err)
	}
	if _, err := svc.AddReview(context.Background(), 999, 7, "Ann", &domain.AddReviewRequest{Rating: 4, Comment: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing product: expected ErrNotFound, got %v", err)
	}
}

func TestIncrementDownloads(t *testing.T) {
	repo := newMockProductRepo()
	p := repo.seed("Kit")
	svc := NewProductService(repo, nil)

	for want := int64(1); want <= 3; want++ {
		got, err := svc.IncrementDownloads(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("IncrementDownloads failed: %v", err)
		}
		if got != want {
			t.Errorf("downloads = %d, want %d", got, want)
		}
	}
}
