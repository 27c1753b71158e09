package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrochain/agrochain/internal/crops/domain"
	"github.com/agrochain/agrochain/internal/crops/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, crop domain.Crop) error {
	query := `
		INSERT INTO crops (id, name, quantity, price_cents, farmer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		crop.ID,
		crop.Name,
		crop.Quantity,
		crop.PriceCents,
		crop.FarmerID,
		crop.Status,
		crop.CreatedAt,
		crop.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert crop: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Crop, error) {
	query := `
		SELECT id, name, quantity, price_cents, farmer_id, status, created_at, updated_at
		FROM crops
		WHERE id = $1
	`

	var crop domain.Crop
	err := r.pool.QueryRow(ctx, query, id).Scan(
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
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select crop: %w", err)
	}

	return &crop, nil
}

func (r *Repository) ListAvailable(ctx context.Context) ([]domain.Listing, error) {
	query := `
		SELECT c.id, c.name, c.quantity, c.price_cents, c.farmer_id, c.status, c.created_at, c.updated_at,
		       u.id, u.name, u.email, u.location
		FROM crops c
		JOIN users u ON u.id = c.farmer_id
		WHERE c.status = $1
		ORDER BY c.created_at
	`

	rows, err := r.pool.Query(ctx, query, domain.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("query available crops: %w", err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		var listing domain.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.Name,
			&listing.Quantity,
			&listing.PriceCents,
			&listing.FarmerID,
			&listing.Status,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.Farmer.ID,
			&listing.Farmer.Name,
			&listing.Farmer.Email,
			&listing.Farmer.Location,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	return listings, nil
}

func (r *Repository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Crop, error) {
	query := `
		SELECT id, name, quantity, price_cents, farmer_id, status, created_at, updated_at
		FROM crops
		WHERE farmer_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, farmerID)
	if err != nil {
		return nil, fmt.Errorf("query farmer crops: %w", err)
	}
	defer rows.Close()

	crops := []domain.Crop{}
	for rows.Next() {
		var crop domain.Crop
		if err := rows.Scan(
			&crop.ID,
			&crop.Name,
			&crop.Quantity,
			&crop.PriceCents,
			&crop.FarmerID,
			&crop.Status,
			&crop.CreatedAt,
			&crop.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan crop: %w", err)
		}
		crops = append(crops, crop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crops: %w", err)
	}

	return crops, nil
}

func (r *Repository) Update(ctx context.Context, crop domain.Crop) error {
	query := `
		UPDATE crops
		SET name = $1, quantity = $2, price_cents = $3, status = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.pool.Exec(ctx, query,
		crop.Name,
		crop.Quantity,
		crop.PriceCents,
		crop.Status,
		crop.UpdatedAt,
		crop.ID,
	)
	if err != nil {
		return fmt.Errorf("update crop: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM crops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}
