package catalog

import (
	"errors"
	"time"
)

// Product is a sellable catalog entry. Price is the current list price;
// sales snapshot it at pricing time and are not affected by later changes.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	SKU       string    `json:"sku" db:"sku"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateProductRequest struct {
	SKU   string  `json:"sku" validate:"required,max=50"`
	Name  string  `json:"name" validate:"required,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	Search  string `json:"search,omitempty"`
	Page    int    `json:"page" validate:"gte=0"`
	PerPage int    `json:"per_page" validate:"gte=0,lte=1000"`
}

// ErrNotFound indicates a missing product.
var ErrNotFound = errors.New("catalog: product not found")

// ErrAlreadyExists indicates a duplicate SKU.
var ErrAlreadyExists = errors.New("catalog: sku already exists")
