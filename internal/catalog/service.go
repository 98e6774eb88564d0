package catalog

import (
	"context"
	"fmt"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int64, req UpdateProductRequest) error
}

// Invalidator drops stale cached snapshots after writes.
type Invalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

// Service provides catalog business logic.
type Service struct {
	repo  RepositoryPort
	cache Invalidator
}

// NewService constructs a catalog service.
func NewService(repo RepositoryPort, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// CreateProduct registers a new sellable product.
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (Product, error) {
	product := Product{
		SKU:      req.SKU,
		Name:     req.Name,
		Price:    req.Price,
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// UpdateProduct applies partial updates and invalidates the cached snapshot
// so the next pricing run sees the new price.
func (s *Service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (Product, error) {
	if err := s.repo.Update(ctx, id, req); err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}
	return s.repo.Get(ctx, id)
}

// GetProduct retrieves a product by id.
func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// ListProducts returns a paginated product list.
func (s *Service) ListProducts(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	if req.PerPage <= 0 {
		req.PerPage = 20
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	return s.repo.List(ctx, req)
}
