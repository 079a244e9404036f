package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/landregistry-server/internal/model"
)

var _ model.TxManager = (*TxManager)(nil)

// TxManager runs units of work inside a single pgx transaction.
type TxManager struct {
	db *Connection
}

func NewTxManager(db *Connection) *TxManager {
	return &TxManager{
		db: db,
	}
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, stores model.Stores) error) (err error) {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(ctx, newTxStores(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapConstraintError(err))
	}

	return nil
}

type txStores struct {
	users     *UserRepository
	parcels   *ParcelRepository
	transfers *TransferRepository
}

func newTxStores(tx pgx.Tx) *txStores {
	return &txStores{
		users:     &UserRepository{db: tx},
		parcels:   &ParcelRepository{db: tx},
		transfers: &TransferRepository{db: tx},
	}
}

func (s *txStores) Users() model.UserStore {
	return s.users
}

func (s *txStores) Parcels() model.ParcelStore {
	return s.parcels
}

func (s *txStores) Transfers() model.TransferStore {
	return s.transfers
}
