package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NewSale opens an empty, active sale and records its SaleCreated event.
//
// Mutating operations on one sale (AddItem, CancelItem, Cancel) are not safe
// for concurrent use; callers must serialise writers per aggregate, which the
// repository does by locking the sale row for the duration of the
// transaction.
func NewSale(number string, customerID, branchID int64) *Sale {
	now := time.Now().UTC()
	sale := &Sale{
		ID:         uuid.New(),
		Number:     number,
		CustomerID: customerID,
		BranchID:   branchID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	sale.record(SaleCreatedEvent{
		SaleNumber:  number,
		TotalAmount: 0,
		CreatedAt:   now,
	})
	return sale
}

// AddItem prices a new item through the engine, appends it and recomputes
// the sale total. Nothing is mutated when validation or pricing fails.
func (s *Sale) AddItem(ctx context.Context, engine *PricingEngine, productID int64, quantity int) (*SaleItem, error) {
	if s.IsCancelled {
		return nil, ErrSaleCancelled
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	now := time.Now().UTC()
	item := SaleItem{
		ID:        uuid.New(),
		SaleID:    s.ID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := engine.PriceItem(ctx, &item); err != nil {
		return nil, err
	}
	s.Items = append(s.Items, item)
	s.recomputeTotal()
	s.UpdatedAt = now
	s.record(SaleUpdatedEvent{
		SaleNumber:  s.Number,
		TotalAmount: s.TotalAmount,
		UpdatedAt:   now,
	})
	return &s.Items[len(s.Items)-1], nil
}

// CancelItem marks one item cancelled and excludes it from the total. The
// item keeps its last computed amounts.
func (s *Sale) CancelItem(itemID uuid.UUID) error {
	if s.IsCancelled {
		return ErrSaleCancelled
	}
	idx := -1
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}
	if s.Items[idx].Cancelled {
		return ErrItemCancelled
	}
	now := time.Now().UTC()
	oldTotal := s.TotalAmount
	s.Items[idx].Cancelled = true
	s.Items[idx].UpdatedAt = now
	s.recomputeTotal()
	s.UpdatedAt = now
	s.record(SaleItemCanceledEvent{
		SaleNumber:     s.Number,
		OldTotalAmount: oldTotal,
		TotalAmount:    s.TotalAmount,
		UpdatedAt:      now,
	})
	return nil
}

// Cancel terminates the sale. Item states are left untouched; cancellation
// is irreversible.
func (s *Sale) Cancel() error {
	if s.IsCancelled {
		return ErrAlreadyCancelled
	}
	now := time.Now().UTC()
	s.IsCancelled = true
	s.UpdatedAt = now
	s.record(SaleCanceledEvent{
		SaleNumber:  s.Number,
		TotalAmount: s.TotalAmount,
		UpdatedAt:   now,
	})
	return nil
}

// Item returns the item with the given id, or nil.
func (s *Sale) Item(itemID uuid.UUID) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

// DrainEvents returns the events recorded since the last drain and clears
// the buffer. The service publishes drained events after the transaction
// that persisted the mutation commits.
func (s *Sale) DrainEvents() []Event {
	events := s.events
	s.events = nil
	return events
}

func (s *Sale) record(evt Event) {
	s.events = append(s.events, evt)
}

func (s *Sale) recomputeTotal() {
	var total float64
	for i := range s.Items {
		if !s.Items[i].Cancelled {
			total += s.Items[i].TotalAmount
		}
	}
	s.TotalAmount = round2(total)
}
