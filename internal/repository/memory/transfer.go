package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/model"
)

var _ model.TransferStore = (*TransferStore)(nil)

type TransferStore struct {
	s   *Store
	log *undoLog
}

func (t *TransferStore) Create(_ context.Context, transfer model.Transfer) (model.Transfer, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if transfer.BuyerID == transfer.SellerID {
		return model.Transfer{}, model.ErrAlreadyOwner
	}
	if _, ok := t.s.parcels[transfer.ParcelID]; !ok {
		return model.Transfer{}, model.ErrParcelNotFound
	}
	for _, existing := range t.s.transfers {
		if strings.EqualFold(existing.LedgerRef, transfer.LedgerRef) {
			return model.Transfer{}, model.ErrDuplicateLedgerReference
		}
	}

	t.s.transfers = append(t.s.transfers, transfer)
	t.log.record(func() {
		t.s.transfers = slices.DeleteFunc(t.s.transfers, func(x model.Transfer) bool { return x.ID == transfer.ID })
	})

	return transfer, nil
}

func (t *TransferStore) GetByLedgerRef(_ context.Context, ref string) (model.Transfer, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	for _, transfer := range t.s.transfers {
		if strings.EqualFold(transfer.LedgerRef, ref) {
			return transfer, nil
		}
	}
	return model.Transfer{}, model.ErrNotFound
}

func (t *TransferStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Transfer, error) {
	return t.list(func(transfer model.Transfer) bool {
		return transfer.BuyerID == userID || transfer.SellerID == userID
	}), nil
}

func (t *TransferStore) ListByParcel(_ context.Context, parcelID uuid.UUID) ([]model.Transfer, error) {
	return t.list(func(transfer model.Transfer) bool {
		return transfer.ParcelID == parcelID
	}), nil
}

// list returns matching transfers newest first; equal timestamps keep
// reverse insertion order.
func (t *TransferStore) list(match func(model.Transfer) bool) []model.Transfer {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var transfers []model.Transfer
	for i := len(t.s.transfers) - 1; i >= 0; i-- {
		if match(t.s.transfers[i]) {
			transfers = append(transfers, t.s.transfers[i])
		}
	}
	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
	})
	return transfers
}
