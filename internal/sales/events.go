package sales

import (
	"context"
	"time"
)

// Task type names for sale lifecycle events.
const (
	EventSaleCreated      = "sale:created"
	EventSaleUpdated      = "sale:updated"
	EventSaleCanceled     = "sale:canceled"
	EventSaleItemCanceled = "sale:item-canceled"
)

// Event is an immutable lifecycle notification produced by the sale
// aggregate. Payload fields are value snapshots taken at mutation time, not
// references into the live aggregate.
type Event interface {
	EventType() string
}

// SaleCreatedEvent is emitted once when a sale is opened.
type SaleCreatedEvent struct {
	SaleNumber  string    `json:"saleNumber"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (SaleCreatedEvent) EventType() string { return EventSaleCreated }

// SaleUpdatedEvent is emitted whenever an item is added to a sale.
type SaleUpdatedEvent struct {
	SaleNumber  string    `json:"saleNumber"`
	TotalAmount float64   `json:"totalAmount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (SaleUpdatedEvent) EventType() string { return EventSaleUpdated }

// SaleCanceledEvent is emitted when a whole sale is cancelled.
type SaleCanceledEvent struct {
	SaleNumber  string    `json:"saleNumber"`
	TotalAmount float64   `json:"totalAmount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (SaleCanceledEvent) EventType() string { return EventSaleCanceled }

// SaleItemCanceledEvent is emitted when a single item is cancelled. It
// carries the total before and after the item was excluded.
type SaleItemCanceledEvent struct {
	SaleNumber     string    `json:"saleNumber"`
	OldTotalAmount float64   `json:"oldTotalAmount"`
	TotalAmount    float64   `json:"totalAmount"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (SaleItemCanceledEvent) EventType() string { return EventSaleItemCanceled }

// EventPublisher delivers lifecycle events to interested consumers.
// Publishing is fire-and-forget: implementations must not block the caller
// beyond enqueueing, and failures are logged rather than returned since the
// aggregate mutation is already committed when Publish runs.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event)
}
