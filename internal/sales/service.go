package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, req ListSalesRequest) ([]SaleSummary, int, error)
	GenerateSaleNumber(ctx context.Context, branchID int64, date time.Time) (string, error)
}

// TxRepository exposes the mutations available inside a transaction. The
// sale row stays locked until commit, which serialises writers per
// aggregate.
type TxRepository interface {
	GetSaleForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	InsertSale(ctx context.Context, sale *Sale) error
	InsertSaleItem(ctx context.Context, item *SaleItem) error
	UpdateSale(ctx context.Context, sale *Sale) error
	UpdateSaleItem(ctx context.Context, item *SaleItem) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates sale mutations: it loads the aggregate, applies the
// operation, persists the outcome and publishes the resulting lifecycle
// events. Event publication happens after commit and is best-effort.
type Service struct {
	repo      RepositoryPort
	pricing   *PricingEngine
	publisher EventPublisher
	audit     AuditPort
}

// NewService builds Service.
func NewService(repo RepositoryPort, pricing *PricingEngine, publisher EventPublisher, audit AuditPort) *Service {
	return &Service{repo: repo, pricing: pricing, publisher: publisher, audit: audit}
}

// CreateSale opens a sale, prices any initial items and persists everything
// in one transaction.
func (s *Service) CreateSale(ctx context.Context, req CreateSaleRequest, actorID int64) (*Sale, error) {
	number, err := s.repo.GenerateSaleNumber(ctx, req.BranchID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("generate sale number: %w", err)
	}

	sale := NewSale(number, req.CustomerID, req.BranchID)
	for _, itemReq := range req.Items {
		if _, err := sale.AddItem(ctx, s.pricing, itemReq.ProductID, itemReq.Quantity); err != nil {
			return nil, err
		}
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertSale(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		for i := range sale.Items {
			if err := tx.InsertSaleItem(ctx, &sale.Items[i]); err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, sale.DrainEvents())
	s.recordAudit(ctx, actorID, "sales:create", sale, map[string]any{
		"number": sale.Number,
		"items":  len(sale.Items),
		"total":  sale.TotalAmount,
	})
	return sale, nil
}

// AddItem prices and appends one item to an existing sale.
func (s *Service) AddItem(ctx context.Context, saleID uuid.UUID, req AddItemRequest, actorID int64) (*Sale, error) {
	var sale *Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		sale, err = tx.GetSaleForUpdate(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get sale: %w", err)
		}
		item, err := sale.AddItem(ctx, s.pricing, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}
		if err := tx.InsertSaleItem(ctx, item); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
		if err := tx.UpdateSale(ctx, sale); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, sale.DrainEvents())
	s.recordAudit(ctx, actorID, "sales:add-item", sale, map[string]any{
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
		"total":      sale.TotalAmount,
	})
	return sale, nil
}

// CancelItem cancels one item and recomputes the sale total.
func (s *Service) CancelItem(ctx context.Context, saleID, itemID uuid.UUID, actorID int64) (*Sale, error) {
	var sale *Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		sale, err = tx.GetSaleForUpdate(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get sale: %w", err)
		}
		if err := sale.CancelItem(itemID); err != nil {
			return err
		}
		if err := tx.UpdateSaleItem(ctx, sale.Item(itemID)); err != nil {
			return fmt.Errorf("update sale item: %w", err)
		}
		if err := tx.UpdateSale(ctx, sale); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, sale.DrainEvents())
	s.recordAudit(ctx, actorID, "sales:cancel-item", sale, map[string]any{
		"item_id": itemID.String(),
		"total":   sale.TotalAmount,
	})
	return sale, nil
}

// CancelSale terminates a sale. Items keep their individual states.
func (s *Service) CancelSale(ctx context.Context, saleID uuid.UUID, actorID int64) (*Sale, error) {
	var sale *Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		sale, err = tx.GetSaleForUpdate(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get sale: %w", err)
		}
		if err := sale.Cancel(); err != nil {
			return err
		}
		if err := tx.UpdateSale(ctx, sale); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, sale.DrainEvents())
	s.recordAudit(ctx, actorID, "sales:cancel", sale, map[string]any{
		"number": sale.Number,
		"total":  sale.TotalAmount,
	})
	return sale, nil
}

// GetSale retrieves a sale with its items.
func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

// ListSales returns a paginated list of sale summaries.
func (s *Service) ListSales(ctx context.Context, req ListSalesRequest) ([]SaleSummary, int, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	return s.repo.ListSales(ctx, req)
}

func (s *Service) publish(ctx context.Context, events []Event) {
	if s.publisher == nil {
		return
	}
	for _, evt := range events {
		s.publisher.Publish(ctx, evt)
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, sale *Sale, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "sale",
		EntityID: sale.ID.String(),
		Meta:     meta,
	})
}
