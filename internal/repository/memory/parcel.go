package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/model"
)

var _ model.ParcelStore = (*ParcelStore)(nil)

type ParcelStore struct {
	s   *Store
	log *undoLog
}

func (p *ParcelStore) Create(_ context.Context, parcel model.Parcel) (model.Parcel, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if _, ok := p.s.users[parcel.OwnerID]; !ok {
		return model.Parcel{}, model.ErrUserNotFound
	}
	for _, existing := range p.s.parcels {
		if existing.LedgerID == parcel.LedgerID {
			return model.Parcel{}, model.ErrDuplicateLedgerID
		}
	}

	p.s.parcels[parcel.ID] = parcel
	p.s.parcelOrder = append(p.s.parcelOrder, parcel.ID)
	p.log.record(func() {
		delete(p.s.parcels, parcel.ID)
		p.s.parcelOrder = slices.DeleteFunc(p.s.parcelOrder, func(id uuid.UUID) bool { return id == parcel.ID })
	})

	return parcel, nil
}

func (p *ParcelStore) GetByID(_ context.Context, id uuid.UUID) (model.Parcel, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	parcel, ok := p.s.parcels[id]
	if !ok {
		return model.Parcel{}, model.ErrNotFound
	}
	return parcel, nil
}

// GetForUpdate is a plain read: the transaction lock already excludes
// every other writer that goes through RunInTx.
func (p *ParcelStore) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Parcel, error) {
	return p.GetByID(ctx, id)
}

func (p *ParcelStore) List(_ context.Context, filter model.ParcelFilter) ([]model.Parcel, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	var parcels []model.Parcel
	for i := len(p.s.parcelOrder) - 1; i >= 0; i-- {
		parcel := p.s.parcels[p.s.parcelOrder[i]]
		if filter.Matches(parcel) {
			parcels = append(parcels, parcel)
		}
	}
	return parcels, nil
}

func (p *ParcelStore) Update(_ context.Context, parcel model.Parcel) (model.Parcel, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	prev, ok := p.s.parcels[parcel.ID]
	if !ok {
		return model.Parcel{}, model.ErrNotFound
	}

	next := prev
	next.Title = parcel.Title
	next.Location = parcel.Location
	next.Description = parcel.Description
	next.Price = parcel.Price
	next.Image = parcel.Image
	next.ForSale = parcel.ForSale
	next.UpdatedAt = time.Now()
	p.put(prev, next)

	return next, nil
}

func (p *ParcelStore) UpdateOwner(_ context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	prev, ok := p.s.parcels[id]
	if !ok {
		return model.ErrNotFound
	}
	if _, ok := p.s.users[ownerID]; !ok {
		return model.ErrUserNotFound
	}

	next := prev
	next.OwnerID = ownerID
	next.ForSale = false
	next.UpdatedAt = time.Now()
	p.put(prev, next)

	return nil
}

// put stores next and records how to restore prev. Callers hold mu.
func (p *ParcelStore) put(prev, next model.Parcel) {
	p.s.parcels[next.ID] = next
	p.log.record(func() { p.s.parcels[prev.ID] = prev })
}
