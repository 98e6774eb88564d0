package sales

import (
	"context"
	"fmt"
)

// ProductSnapshot is the read-only view of a product taken at pricing time.
type ProductSnapshot struct {
	ID    int64
	Price float64
}

// ProductLookup resolves the current product price. Implementations return
// ErrProductNotFound when the product does not exist. Lookups are expected to
// honour the caller's context deadline.
type ProductLookup interface {
	GetByID(ctx context.Context, productID int64) (ProductSnapshot, error)
}

// PricingEngine stamps sale items with a price snapshot and volume discount.
type PricingEngine struct {
	products ProductLookup
}

// NewPricingEngine builds a PricingEngine.
func NewPricingEngine(products ProductLookup) *PricingEngine {
	return &PricingEngine{products: products}
}

// PriceItem resolves the item's product, applies the volume discount and
// stamps unit price, discount and total. Repricing an unchanged item yields
// the same result; repricing after a product price change yields a new
// snapshot, which is the intended price-at-sale-time semantics.
func (e *PricingEngine) PriceItem(ctx context.Context, item *SaleItem) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	product, err := e.products.GetByID(ctx, item.ProductID)
	if err != nil {
		return fmt.Errorf("lookup product %d: %w", item.ProductID, err)
	}
	discount, err := CalculateDiscount(item.Quantity, product.Price)
	if err != nil {
		return err
	}
	item.UnitPrice = product.Price
	item.Discount = discount
	item.TotalAmount = round2(product.Price*float64(item.Quantity) - discount)
	return nil
}
