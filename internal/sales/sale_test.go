package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func catalogEngine() *PricingEngine {
	return newTestEngine(map[int64]ProductSnapshot{
		1: {ID: 1, Price: 10.00},
		2: {ID: 2, Price: 25.00},
	})
}

func TestNewSaleRecordsCreatedEvent(t *testing.T) {
	sale := NewSale("SAL-1-202609-0001", 7, 1)
	require.False(t, sale.IsCancelled)
	require.Zero(t, sale.TotalAmount)
	require.Empty(t, sale.Items)

	events := sale.DrainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(SaleCreatedEvent)
	require.True(t, ok)
	require.Equal(t, "SAL-1-202609-0001", created.SaleNumber)
	require.Zero(t, created.TotalAmount)
	require.False(t, created.CreatedAt.IsZero())

	require.Empty(t, sale.DrainEvents())
}

func TestAddItemRecomputesTotalAndEmitsUpdated(t *testing.T) {
	sale := NewSale("SAL-1-202609-0001", 7, 1)
	sale.DrainEvents()

	item, err := sale.AddItem(context.Background(), catalogEngine(), 1, 5)
	require.NoError(t, err)
	require.InDelta(t, 45.00, item.TotalAmount, 0.001)
	require.InDelta(t, 45.00, sale.TotalAmount, 0.001)

	_, err = sale.AddItem(context.Background(), catalogEngine(), 2, 2)
	require.NoError(t, err)
	require.InDelta(t, 95.00, sale.TotalAmount, 0.001)

	events := sale.DrainEvents()
	require.Len(t, events, 2)
	updated, ok := events[1].(SaleUpdatedEvent)
	require.True(t, ok)
	require.InDelta(t, 95.00, updated.TotalAmount, 0.001)
}

func TestAddItemFailureLeavesSaleUntouched(t *testing.T) {
	sale := NewSale("SAL-1-202609-0001", 7, 1)
	sale.DrainEvents()

	_, err := sale.AddItem(context.Background(), catalogEngine(), 1, 21)
	require.ErrorIs(t, err, ErrQuantityExceeded)
	require.Empty(t, sale.Items)
	require.Zero(t, sale.TotalAmount)
	require.Empty(t, sale.DrainEvents())

	_, err = sale.AddItem(context.Background(), catalogEngine(), 99, 2)
	require.ErrorIs(t, err, ErrProductNotFound)
	require.Empty(t, sale.Items)
	require.Empty(t, sale.DrainEvents())

	_, err = sale.AddItem(context.Background(), catalogEngine(), 1, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Empty(t, sale.DrainEvents())
}

func TestCancelItemEmitsOldAndNewTotals(t *testing.T) {
	sale := NewSale("SAL-1-202609-0001", 7, 1)
	item1, err := sale.AddItem(context.Background(), catalogEngine(), 1, 5)
	require.NoError(t, err)
	itemID := item1.ID
	_, err = sale.AddItem(context.Background(), catalogEngine(), 2, 3)
	require.NoError(t, err)
	require.InDelta(t, 100.00, sale.TotalAmount, 0.001)
	sale.DrainEvents()

	require.NoError(t, sale.CancelItem(itemID))
	require.InDelta(t, 55.00, sale.TotalAmount, 0.001)
	require.True(t, sale.Item(itemID).Cancelled)
	// cancelled items keep their last computed amounts
	require.InDelta(t, 45.00, sale.Item(itemID).TotalAmount, 0.001)

	events := sale.DrainEvents()
	require.Len(t, events, 1)
	canceled, ok := events[0].(SaleItemCanceledEvent)
	require.True(t, ok)
	require.InDelta(t, 100.00, canceled.OldTotalAmount, 0.001)
	require.InDelta(t, 55.00, canceled.TotalAmount, 0.001)
}

func TestCancelItemErrors(t *testing.T) {
	sale := NewSale("SAL-1-202609-0001", 7, 1)
	item, err := sale.AddItem(context.Background(), catalogEngine(), 1, 5)
	require.NoError(t, err)
	itemID := item.ID
	sale.DrainEvents()

	require.ErrorIs(t, sale.CancelItem(uuid.New()), ErrItemNotFound)

	require.NoError(t, sale.CancelItem(itemID))
	sale.DrainEvents()
	require.ErrorIs(t, sale.CancelItem(itemID), ErrItemCancelled)
	require.Empty(t, sale.DrainEvents())
}

func TestCancelSale(t *testing.T) {
	sale := NewSale("SAL-1-202609-0001", 7, 1)
	_, err := sale.AddItem(context.Background(), catalogEngine(), 1, 5)
	require.NoError(t, err)
	sale.DrainEvents()

	require.NoError(t, sale.Cancel())
	require.True(t, sale.IsCancelled)
	// items keep their individual states
	require.False(t, sale.Items[0].Cancelled)

	events := sale.DrainEvents()
	require.Len(t, events, 1)
	canceled, ok := events[0].(SaleCanceledEvent)
	require.True(t, ok)
	require.InDelta(t, 45.00, canceled.TotalAmount, 0.001)

	require.ErrorIs(t, sale.Cancel(), ErrAlreadyCancelled)
	require.Empty(t, sale.DrainEvents())
}

func TestCancelledSaleRejectsMutations(t *testing.T) {
	sale := NewSale("SAL-1-202609-0001", 7, 1)
	item, err := sale.AddItem(context.Background(), catalogEngine(), 1, 5)
	require.NoError(t, err)
	require.NoError(t, sale.Cancel())
	sale.DrainEvents()

	_, err = sale.AddItem(context.Background(), catalogEngine(), 2, 1)
	require.ErrorIs(t, err, ErrSaleCancelled)
	require.ErrorIs(t, sale.CancelItem(item.ID), ErrSaleCancelled)
	require.Empty(t, sale.DrainEvents())
}
