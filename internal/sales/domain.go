package sales

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxItemQuantity is the largest quantity a single sale item may carry.
const MaxItemQuantity = 20

// Sale aggregates the items sold in a single retail transaction. The total
// is always derived from the non-cancelled items and never written directly.
type Sale struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Number      string     `json:"number" db:"number"`
	CustomerID  int64      `json:"customer_id" db:"customer_id"`
	BranchID    int64      `json:"branch_id" db:"branch_id"`
	Items       []SaleItem `json:"items" db:"-"`
	TotalAmount float64    `json:"total_amount" db:"total_amount"`
	IsCancelled bool       `json:"is_cancelled" db:"is_cancelled"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	events []Event
}

// SaleItem is a single priced product line within a sale. Once priced its
// amounts only change through cancellation; a cancelled item keeps the last
// computed amounts for the audit trail.
type SaleItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SaleID      uuid.UUID `json:"sale_id" db:"sale_id"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Discount    float64   `json:"discount" db:"discount"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	Cancelled   bool      `json:"cancelled" db:"cancelled"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SaleSummary is the listing projection without item lines.
type SaleSummary struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Number      string    `json:"number" db:"number"`
	CustomerID  int64     `json:"customer_id" db:"customer_id"`
	BranchID    int64     `json:"branch_id" db:"branch_id"`
	ItemCount   int       `json:"item_count" db:"item_count"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	IsCancelled bool      `json:"is_cancelled" db:"is_cancelled"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ============================================================================
// REQUESTS
// ============================================================================

type CreateSaleRequest struct {
	CustomerID int64                   `json:"customer_id" validate:"required,gt=0"`
	BranchID   int64                   `json:"branch_id" validate:"required,gt=0"`
	Items      []CreateSaleItemRequest `json:"items" validate:"omitempty,dive"`
}

type CreateSaleItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=20"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type ListSalesRequest struct {
	CustomerID *int64 `json:"customer_id,omitempty"`
	BranchID   *int64 `json:"branch_id,omitempty"`
	Cancelled  *bool  `json:"cancelled,omitempty"`
	Limit      int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int    `json:"offset" validate:"gte=0"`
}

// ============================================================================
// ERRORS
// ============================================================================

// ErrQuantityExceeded indicates a quantity above the 20 unit ceiling.
var ErrQuantityExceeded = errors.New("sales: cannot sell more than 20 identical items")

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("sales: quantity must be positive")

// ErrProductNotFound indicates the referenced product does not exist.
var ErrProductNotFound = errors.New("sales: product not found")

// ErrSaleCancelled indicates a mutation attempted on a cancelled sale.
var ErrSaleCancelled = errors.New("sales: sale is cancelled")

// ErrAlreadyCancelled indicates cancelling a sale twice.
var ErrAlreadyCancelled = errors.New("sales: sale already cancelled")

// ErrItemCancelled indicates cancelling an item twice.
var ErrItemCancelled = errors.New("sales: item already cancelled")

// ErrItemNotFound indicates the item does not belong to the sale.
var ErrItemNotFound = errors.New("sales: item not found")

// ErrSaleNotFound indicates the sale does not exist.
var ErrSaleNotFound = errors.New("sales: sale not found")

// ErrAlreadyExists indicates a duplicate sale number.
var ErrAlreadyExists = errors.New("sales: sale number already exists")
