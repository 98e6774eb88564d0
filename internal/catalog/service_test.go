package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryProducts struct {
	products map[int64]Product
	bySKU    map[string]int64
	nextID   int64
}

func newMemoryProducts() *memoryProducts {
	return &memoryProducts{products: make(map[int64]Product), bySKU: make(map[string]int64)}
}

func (r *memoryProducts) Get(ctx context.Context, id int64) (Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return Product{}, ErrNotFound
}

func (r *memoryProducts) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	result := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (r *memoryProducts) Create(ctx context.Context, p Product) (Product, error) {
	if _, exists := r.bySKU[p.SKU]; exists {
		return Product{}, ErrAlreadyExists
	}
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	r.bySKU[p.SKU] = p.ID
	return p, nil
}

func (r *memoryProducts) Update(ctx context.Context, id int64, req UpdateProductRequest) error {
	p, ok := r.products[id]
	if !ok {
		return ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	r.products[id] = p
	return nil
}

type captureInvalidator struct {
	ids []int64
}

func (c *captureInvalidator) Invalidate(ctx context.Context, id int64) error {
	c.ids = append(c.ids, id)
	return nil
}

func TestCreateProduct(t *testing.T) {
	repo := newMemoryProducts()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductRequest{SKU: "SKU-1", Name: "Espresso Beans", Price: 12.50})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.True(t, created.IsActive)

	_, err = svc.CreateProduct(ctx, CreateProductRequest{SKU: "SKU-1", Name: "Duplicate", Price: 1})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateProductInvalidatesCache(t *testing.T) {
	repo := newMemoryProducts()
	inv := &captureInvalidator{}
	svc := NewService(repo, inv)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductRequest{SKU: "SKU-1", Name: "Espresso Beans", Price: 12.50})
	require.NoError(t, err)

	price := 14.00
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	require.InDelta(t, 14.00, updated.Price, 0.001)
	require.Equal(t, []int64{created.ID}, inv.ids)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := NewService(newMemoryProducts(), nil)

	price := 1.0
	_, err := svc.UpdateProduct(context.Background(), 99, UpdateProductRequest{Price: &price})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsDefaults(t *testing.T) {
	repo := newMemoryProducts()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductRequest{SKU: "SKU-1", Name: "Espresso Beans", Price: 12.50})
	require.NoError(t, err)

	products, total, err := svc.ListProducts(ctx, ListProductsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, products, 1)
}
