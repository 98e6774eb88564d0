package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for sales.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepo{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

const saleColumns = `id, number, customer_id, branch_id, total_amount, is_cancelled, created_at, updated_at`

const saleItemColumns = `id, sale_id, product_id, quantity, unit_price, discount, total_amount, cancelled, created_at, updated_at`

// GetSale loads a sale with its items.
func (r *Repository) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return getSale(ctx, r.pool, id, "")
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getSale(ctx context.Context, q queryer, id uuid.UUID, lock string) (*Sale, error) {
	var sale Sale
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1` + lock
	err := q.QueryRow(ctx, query, id).Scan(
		&sale.ID, &sale.Number, &sale.CustomerID, &sale.BranchID,
		&sale.TotalAmount, &sale.IsCancelled, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.Discount, &item.TotalAmount, &item.Cancelled,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales returns sale summaries and total count for the filter.
func (r *Repository) ListSales(ctx context.Context, req ListSalesRequest) ([]SaleSummary, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argCount := 0

	if req.CustomerID != nil {
		argCount++
		where += ` AND s.customer_id = $` + strconv.Itoa(argCount)
		args = append(args, *req.CustomerID)
	}
	if req.BranchID != nil {
		argCount++
		where += ` AND s.branch_id = $` + strconv.Itoa(argCount)
		args = append(args, *req.BranchID)
	}
	if req.Cancelled != nil {
		argCount++
		where += ` AND s.is_cancelled = $` + strconv.Itoa(argCount)
		args = append(args, *req.Cancelled)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales s`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT s.id, s.number, s.customer_id, s.branch_id,
		(SELECT COUNT(*) FROM sale_items i WHERE i.sale_id = s.id AND NOT i.cancelled),
		s.total_amount, s.is_cancelled, s.created_at
		FROM sales s` + where + ` ORDER BY s.created_at DESC`
	if req.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, req.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []SaleSummary
	for rows.Next() {
		var s SaleSummary
		if err := rows.Scan(&s.ID, &s.Number, &s.CustomerID, &s.BranchID, &s.ItemCount, &s.TotalAmount, &s.IsCancelled, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// GenerateSaleNumber builds the next SAL-<branch>-<yyyymm>-<seq> number for
// the branch and month. Uniqueness is enforced by the constraint on
// sales.number; collisions surface as ErrAlreadyExists on insert.
func (r *Repository) GenerateSaleNumber(ctx context.Context, branchID int64, date time.Time) (string, error) {
	var seq int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) + 1 FROM sales WHERE branch_id = $1 AND date_trunc('month', created_at) = date_trunc('month', $2::timestamptz)`,
		branchID, date,
	).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SAL-%d-%s-%04d", branchID, date.Format("200601"), seq), nil
}

// ============================================================================
// TRANSACTIONAL OPERATIONS
// ============================================================================

func (t *txRepo) GetSaleForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return getSale(ctx, t.tx, id, " FOR UPDATE")
}

func (t *txRepo) InsertSale(ctx context.Context, sale *Sale) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sale.ID, sale.Number, sale.CustomerID, sale.BranchID,
		sale.TotalAmount, sale.IsCancelled, sale.CreatedAt, sale.UpdatedAt,
	)
	return mapPgError(err)
}

func (t *txRepo) InsertSaleItem(ctx context.Context, item *SaleItem) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO sale_items (`+saleItemColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		item.ID, item.SaleID, item.ProductID, item.Quantity,
		item.UnitPrice, item.Discount, item.TotalAmount, item.Cancelled,
		item.CreatedAt, item.UpdatedAt,
	)
	return mapPgError(err)
}

func (t *txRepo) UpdateSale(ctx context.Context, sale *Sale) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE sales SET total_amount = $2, is_cancelled = $3, updated_at = $4 WHERE id = $1`,
		sale.ID, sale.TotalAmount, sale.IsCancelled, sale.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func (t *txRepo) UpdateSaleItem(ctx context.Context, item *SaleItem) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE sale_items SET cancelled = $2, updated_at = $3 WHERE id = $1`,
		item.ID, item.Cancelled, item.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}
