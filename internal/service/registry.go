package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/metrics"
	"github.com/dtroode/landregistry-server/internal/model"
)

// Registry owns parcel records. Ownership only changes through applyTransfer,
// which the Coordinator calls from inside its commit.
type Registry struct {
	parcels model.ParcelStore
	users   model.UserStore
	tx      model.TxManager
	blobs   model.BlobStore
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewRegistry(
	parcels model.ParcelStore,
	users model.UserStore,
	tx model.TxManager,
	blobs model.BlobStore,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Registry {
	return &Registry{
		parcels: parcels,
		users:   users,
		tx:      tx,
		blobs:   blobs,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Registry) Register(ctx context.Context, params model.RegisterParcelParams) (model.Parcel, error) {
	if err := params.Validate(); err != nil {
		return model.Parcel{}, err
	}

	if _, err := s.users.GetByID(ctx, params.OwnerID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Parcel{}, model.ErrUserNotFound
		}
		return model.Parcel{}, fmt.Errorf("failed to get owner: %w", err)
	}

	image := params.Image
	if image == "" {
		image = model.DefaultParcelImage
	}

	now := time.Now()
	parcel, err := s.parcels.Create(ctx, model.Parcel{
		ID:          uuid.New(),
		LedgerID:    params.LedgerID,
		OwnerID:     params.OwnerID,
		Title:       params.Title,
		Location:    params.Location,
		Description: params.Description,
		Price:       params.Price,
		Image:       image,
		ForSale:     params.ForSale,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Parcel{}, fmt.Errorf("failed to create parcel: %w", err)
	}

	s.metrics.IncRegistration("parcel")
	s.logger.Info("Registry service: parcel registered",
		"parcel_id", parcel.ID,
		"ledger_id", parcel.LedgerID,
		"owner_id", parcel.OwnerID)

	return parcel, nil
}

func (s *Registry) Get(ctx context.Context, id uuid.UUID) (model.Parcel, error) {
	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Parcel{}, model.ErrParcelNotFound
		}
		return model.Parcel{}, fmt.Errorf("failed to get parcel: %w", err)
	}
	return parcel, nil
}

func (s *Registry) List(ctx context.Context, filter model.ParcelFilter) ([]model.Parcel, error) {
	parcels, err := s.parcels.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	return parcels, nil
}

// SetSaleState lists or unlists a parcel. Only the owner may do this.
func (s *Registry) SetSaleState(ctx context.Context, parcelID, callerID uuid.UUID, forSale bool) (model.Parcel, error) {
	return s.Edit(ctx, parcelID, callerID, model.EditParcelParams{ForSale: &forSale})
}

// Edit applies a partial update on behalf of the owner. The parcel row is
// locked so that a concurrent transfer cannot slip between the ownership
// check and the write.
func (s *Registry) Edit(ctx context.Context, parcelID, callerID uuid.UUID, params model.EditParcelParams) (model.Parcel, error) {
	if err := params.Validate(); err != nil {
		return model.Parcel{}, err
	}

	return s.updateOwned(ctx, parcelID, callerID, func(p *model.Parcel) {
		params.Apply(p)
	})
}

func (s *Registry) UpdateImage(ctx context.Context, parcelID, callerID uuid.UUID, image model.Image) (model.Parcel, error) {
	ext, err := image.Extension()
	if err != nil {
		return model.Parcel{}, err
	}

	current, err := s.Get(ctx, parcelID)
	if err != nil {
		return model.Parcel{}, err
	}
	if current.OwnerID != callerID {
		return model.Parcel{}, model.ErrNotOwner
	}

	key, err := s.blobs.Put(ctx, model.FolderParcels, ext, image.Reader, image.Size)
	if err != nil {
		return model.Parcel{}, fmt.Errorf("failed to store parcel image: %w", err)
	}

	var previous string
	parcel, err := s.updateOwned(ctx, parcelID, callerID, func(p *model.Parcel) {
		previous = p.Image
		p.Image = key
	})
	if err != nil {
		s.discardBlob(ctx, key)
		return model.Parcel{}, err
	}

	if previous != model.DefaultParcelImage {
		s.discardBlob(ctx, previous)
	}

	return parcel, nil
}

func (s *Registry) updateOwned(ctx context.Context, parcelID, callerID uuid.UUID, change func(*model.Parcel)) (model.Parcel, error) {
	var updated model.Parcel
	err := s.tx.RunInTx(ctx, func(ctx context.Context, stores model.Stores) error {
		parcel, err := stores.Parcels().GetForUpdate(ctx, parcelID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrParcelNotFound
			}
			return fmt.Errorf("failed to lock parcel: %w", err)
		}
		if parcel.OwnerID != callerID {
			return model.ErrNotOwner
		}

		change(&parcel)
		updated, err = stores.Parcels().Update(ctx, parcel)
		if err != nil {
			return fmt.Errorf("failed to update parcel: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Parcel{}, err
	}

	s.logger.Debug("Registry service: parcel updated",
		"parcel_id", parcelID,
		"for_sale", updated.ForSale)

	return updated, nil
}

// applyTransfer moves the parcel to its new owner and takes it off the
// market. It must run inside the transaction that records the Transfer.
func (s *Registry) applyTransfer(ctx context.Context, stores model.Stores, parcelID, newOwnerID uuid.UUID) error {
	if err := stores.Parcels().UpdateOwner(ctx, parcelID, newOwnerID); err != nil {
		return fmt.Errorf("failed to apply transfer: %w", err)
	}
	return nil
}

func (s *Registry) discardBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn("Registry service: failed to delete image",
			"key", key,
			"error", err.Error())
	}
}
