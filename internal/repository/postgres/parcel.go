package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dtroode/landregistry-server/internal/model"
)

var _ model.ParcelStore = (*ParcelRepository)(nil)

// price travels as text so NUMERIC keeps its exact value end to end.
const parcelColumns = `id, ledger_id, owner_id, title, location, description, price::text, image, for_sale, created_at, updated_at`

type ParcelRepository struct {
	db querier
}

func NewParcelRepository(db *Connection) *ParcelRepository {
	return &ParcelRepository{
		db: db,
	}
}

func scanParcel(row rowScanner) (model.Parcel, error) {
	var (
		parcel model.Parcel
		price  string
	)
	err := row.Scan(
		&parcel.ID, &parcel.LedgerID, &parcel.OwnerID, &parcel.Title, &parcel.Location, &parcel.Description,
		&price, &parcel.Image, &parcel.ForSale, &parcel.CreatedAt, &parcel.UpdatedAt,
	)
	if err != nil {
		return model.Parcel{}, err
	}

	parcel.Price, err = decimal.NewFromString(price)
	if err != nil {
		return model.Parcel{}, fmt.Errorf("failed to parse parcel price: %w", err)
	}

	return parcel, nil
}

func (r *ParcelRepository) Create(ctx context.Context, parcel model.Parcel) (model.Parcel, error) {
	query := `INSERT INTO parcels (id, ledger_id, owner_id, title, location, description, price, image, for_sale, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11)
			  RETURNING ` + parcelColumns

	saved, err := scanParcel(r.db.QueryRow(ctx, query,
		parcel.ID, parcel.LedgerID, parcel.OwnerID, parcel.Title, parcel.Location, parcel.Description,
		parcel.Price.String(), parcel.Image, parcel.ForSale, parcel.CreatedAt, parcel.UpdatedAt,
	))
	if err != nil {
		return model.Parcel{}, fmt.Errorf("failed to create parcel: %w", mapConstraintError(err))
	}

	return saved, nil
}

func (r *ParcelRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Parcel, error) {
	query := `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1`

	parcel, err := scanParcel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Parcel{}, model.ErrNotFound
		}
		return model.Parcel{}, fmt.Errorf("failed to get parcel by id: %w", err)
	}

	return parcel, nil
}

func (r *ParcelRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Parcel, error) {
	query := `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1 FOR UPDATE`

	parcel, err := scanParcel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Parcel{}, model.ErrNotFound
		}
		return model.Parcel{}, fmt.Errorf("failed to lock parcel: %w", err)
	}

	return parcel, nil
}

func (r *ParcelRepository) List(ctx context.Context, filter model.ParcelFilter) ([]model.Parcel, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.ForSale != nil {
		args = append(args, *filter.ForSale)
		conditions = append(conditions, "for_sale = $"+strconv.Itoa(len(args)))
	}
	if filter.OwnerID != uuid.Nil {
		args = append(args, filter.OwnerID)
		conditions = append(conditions, "owner_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions, "(title ILIKE $"+n+" OR location ILIKE $"+n+" OR description ILIKE $"+n+")")
	}

	query := `SELECT ` + parcelColumns + ` FROM parcels`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	defer rows.Close()

	var parcels []model.Parcel
	for rows.Next() {
		parcel, err := scanParcel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parcel: %w", err)
		}
		parcels = append(parcels, parcel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parcels: %w", err)
	}

	return parcels, nil
}

func (r *ParcelRepository) Update(ctx context.Context, parcel model.Parcel) (model.Parcel, error) {
	query := `UPDATE parcels
			  SET title = $2, location = $3, description = $4, price = $5::numeric, image = $6, for_sale = $7, updated_at = now()
			  WHERE id = $1
			  RETURNING ` + parcelColumns

	saved, err := scanParcel(r.db.QueryRow(ctx, query,
		parcel.ID, parcel.Title, parcel.Location, parcel.Description, parcel.Price.String(), parcel.Image, parcel.ForSale,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Parcel{}, model.ErrNotFound
		}
		return model.Parcel{}, fmt.Errorf("failed to update parcel: %w", err)
	}

	return saved, nil
}

func (r *ParcelRepository) UpdateOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `UPDATE parcels SET owner_id = $2, for_sale = FALSE, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update parcel owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
