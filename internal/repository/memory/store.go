// Package memory keeps users, parcels and transfers in process memory. It
// enforces the same uniqueness rules as the postgres schema and serializes
// transactions with a store-wide lock.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/model"
)

var _ model.TxManager = (*Store)(nil)

type Store struct {
	// txMu serializes transactions; mu guards the maps.
	txMu sync.Mutex
	mu   sync.RWMutex

	users       map[uuid.UUID]model.User
	parcels     map[uuid.UUID]model.Parcel
	parcelOrder []uuid.UUID
	transfers   []model.Transfer
}

func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]model.User),
		parcels: make(map[uuid.UUID]model.Parcel),
	}
}

func (s *Store) Users() model.UserStore {
	return &UserStore{s: s}
}

func (s *Store) Parcels() model.ParcelStore {
	return &ParcelStore{s: s}
}

func (s *Store) Transfers() model.TransferStore {
	return &TransferStore{s: s}
}

// RunInTx holds the store-wide transaction lock for the duration of fn and
// undoes every write made through the supplied stores when fn fails.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, stores model.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &undoLog{}
	if err := fn(ctx, &txStores{s: s, log: log}); err != nil {
		s.mu.Lock()
		log.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

type undoLog struct {
	ops []func()
}

func (l *undoLog) record(op func()) {
	if l != nil {
		l.ops = append(l.ops, op)
	}
}

func (l *undoLog) rollback() {
	for i := len(l.ops) - 1; i >= 0; i-- {
		l.ops[i]()
	}
	l.ops = nil
}

type txStores struct {
	s   *Store
	log *undoLog
}

func (t *txStores) Users() model.UserStore {
	return &UserStore{s: t.s, log: t.log}
}

func (t *txStores) Parcels() model.ParcelStore {
	return &ParcelStore{s: t.s, log: t.log}
}

func (t *txStores) Transfers() model.TransferStore {
	return &TransferStore{s: t.s, log: t.log}
}
