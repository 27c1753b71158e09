package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	cropsdomain "github.com/agrochain/agrochain/internal/crops/domain"
	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Settle runs the entire placement inside one transaction. The crop row is
// locked with FOR UPDATE so concurrent purchases of the same crop serialize;
// the guard runs on the locked row, then the stock decrement and order insert
// commit together. The decrement repeats the quantity condition so it can
// never drive stock below zero even if the lock is somehow bypassed.
func (r *Repository) Settle(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	var crop cropsdomain.Crop
	err = tx.QueryRow(ctx, `
		SELECT id, name, quantity, price_cents, farmer_id, status, created_at, updated_at
		FROM crops
		WHERE id = $1
		FOR UPDATE
	`, cropID).Scan(
		&crop.ID,
		&crop.Name,
		&crop.Quantity,
		&crop.PriceCents,
		&crop.FarmerID,
		&crop.Status,
		&crop.CreatedAt,
		&crop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, ports.ErrCropNotFound
		}
		return domain.Order{}, fmt.Errorf("lock crop: %w", err)
	}

	if err := domain.CheckPurchase(crop, buyerID, quantity); err != nil {
		return domain.Order{}, err
	}

	order := domain.NewOrder(crop, buyerID, quantity)

	tag, err := tx.Exec(ctx, `
		UPDATE crops
		SET quantity = quantity - $1,
		    status = CASE WHEN quantity - $1 = 0 THEN 'Sold' ELSE 'Available' END,
		    updated_at = $2
		WHERE id = $3 AND quantity >= $1 AND status = 'Available'
	`, quantity, order.CreatedAt, cropID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Order{}, domain.ErrInsufficientStock
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, crop_id, buyer_id, farmer_id, quantity, total_cents, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		order.ID,
		order.CropID,
		order.BuyerID,
		order.FarmerID,
		order.Quantity,
		order.TotalCents,
		order.Status,
		order.PaymentStatus,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("commit settlement: %w", err)
	}

	return order, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	query := `
		SELECT id, crop_id, buyer_id, farmer_id, quantity, total_cents, status, payment_status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CropID,
		&order.BuyerID,
		&order.FarmerID,
		&order.Quantity,
		&order.TotalCents,
		&order.Status,
		&order.PaymentStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, ports.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

// ListByBuyer returns the buyer's orders with the farmer as counterparty.
// Crops are LEFT JOINed because a farmer may delete a listing after it has
// been ordered from.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Detail, error) {
	query := `
		SELECT o.id, o.crop_id, o.buyer_id, o.farmer_id, o.quantity, o.total_cents,
		       o.status, o.payment_status, o.created_at, o.updated_at,
		       c.id, c.name, c.quantity, c.price_cents, c.farmer_id, c.status, c.created_at, c.updated_at,
		       u.id, u.name, u.email
		FROM orders o
		LEFT JOIN crops c ON c.id = o.crop_id
		JOIN users u ON u.id = o.farmer_id
		WHERE o.buyer_id = $1
		ORDER BY o.created_at DESC
	`
	return r.listDetails(ctx, query, buyerID)
}

// ListByFarmer returns the farmer's received orders with the buyer as
// counterparty.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Detail, error) {
	query := `
		SELECT o.id, o.crop_id, o.buyer_id, o.farmer_id, o.quantity, o.total_cents,
		       o.status, o.payment_status, o.created_at, o.updated_at,
		       c.id, c.name, c.quantity, c.price_cents, c.farmer_id, c.status, c.created_at, c.updated_at,
		       u.id, u.name, u.email
		FROM orders o
		LEFT JOIN crops c ON c.id = o.crop_id
		JOIN users u ON u.id = o.buyer_id
		WHERE o.farmer_id = $1
		ORDER BY o.created_at DESC
	`
	return r.listDetails(ctx, query, farmerID)
}

func (r *Repository) listDetails(ctx context.Context, query, partyID string) ([]domain.Detail, error) {
	rows, err := r.pool.Query(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	details := make([]domain.Detail, 0)
	for rows.Next() {
		var (
			detail domain.Detail
			crop   scannedCrop
		)
		err := rows.Scan(
			&detail.ID,
			&detail.CropID,
			&detail.BuyerID,
			&detail.FarmerID,
			&detail.Quantity,
			&detail.TotalCents,
			&detail.Status,
			&detail.PaymentStatus,
			&detail.CreatedAt,
			&detail.UpdatedAt,
			&crop.ID,
			&crop.Name,
			&crop.Quantity,
			&crop.PriceCents,
			&crop.FarmerID,
			&crop.Status,
			&crop.CreatedAt,
			&crop.UpdatedAt,
			&detail.Counterparty.ID,
			&detail.Counterparty.Name,
			&detail.Counterparty.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		detail.Crop = crop.toDomain()
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return details, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrMissing(ctx, id)
	}
	return nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET payment_status = $1, updated_at = now()
		WHERE id = $2 AND payment_status = $3
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrMissing(ctx, id)
	}
	return nil
}

func (r *Repository) conflictOrMissing(ctx context.Context, id string) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check order existence: %w", err)
	}
	if !exists {
		return ports.ErrNotFound
	}
	return ports.ErrConflict
}

// scannedCrop holds the nullable columns from the LEFT JOIN on crops.
type scannedCrop struct {
	ID         *string
	Name       *string
	Quantity   *int
	PriceCents *int64
	FarmerID   *string
	Status     *string
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

func (c scannedCrop) toDomain() *cropsdomain.Crop {
	if c.ID == nil {
		return nil
	}
	return &cropsdomain.Crop{
		ID:         *c.ID,
		Name:       *c.Name,
		Quantity:   *c.Quantity,
		PriceCents: *c.PriceCents,
		FarmerID:   *c.FarmerID,
		Status:     cropsdomain.Status(*c.Status),
		CreatedAt:  *c.CreatedAt,
		UpdatedAt:  *c.UpdatedAt,
	}
}
