package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dtroode/landregistry-server/internal/model"
)

var _ model.TransferStore = (*TransferRepository)(nil)

const transferColumns = `id, ledger_ref, parcel_id, seller_id, buyer_id, price::text, created_at`

type TransferRepository struct {
	db querier
}

func NewTransferRepository(db *Connection) *TransferRepository {
	return &TransferRepository{
		db: db,
	}
}

func scanTransfer(row rowScanner) (model.Transfer, error) {
	var (
		transfer model.Transfer
		price    string
	)
	err := row.Scan(
		&transfer.ID, &transfer.LedgerRef, &transfer.ParcelID, &transfer.SellerID, &transfer.BuyerID,
		&price, &transfer.CreatedAt,
	)
	if err != nil {
		return model.Transfer{}, err
	}

	transfer.Price, err = decimal.NewFromString(price)
	if err != nil {
		return model.Transfer{}, fmt.Errorf("failed to parse transfer price: %w", err)
	}

	return transfer, nil
}

func (r *TransferRepository) Create(ctx context.Context, transfer model.Transfer) (model.Transfer, error) {
	query := `INSERT INTO transfers (id, ledger_ref, parcel_id, seller_id, buyer_id, price, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)
			  RETURNING ` + transferColumns

	saved, err := scanTransfer(r.db.QueryRow(ctx, query,
		transfer.ID, transfer.LedgerRef, transfer.ParcelID, transfer.SellerID, transfer.BuyerID,
		transfer.Price.String(), transfer.CreatedAt,
	))
	if err != nil {
		return model.Transfer{}, fmt.Errorf("failed to create transfer: %w", mapConstraintError(err))
	}

	return saved, nil
}

func (r *TransferRepository) GetByLedgerRef(ctx context.Context, ref string) (model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE ledger_ref = $1`

	transfer, err := scanTransfer(r.db.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Transfer{}, model.ErrNotFound
		}
		return model.Transfer{}, fmt.Errorf("failed to get transfer by ledger ref: %w", err)
	}

	return transfer, nil
}

func (r *TransferRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
			  WHERE seller_id = $1 OR buyer_id = $1
			  ORDER BY created_at DESC, id`

	return r.list(ctx, query, userID)
}

func (r *TransferRepository) ListByParcel(ctx context.Context, parcelID uuid.UUID) ([]model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
			  WHERE parcel_id = $1
			  ORDER BY created_at DESC, id`

	return r.list(ctx, query, parcelID)
}

func (r *TransferRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]model.Transfer, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}

	return transfers, nil
}
