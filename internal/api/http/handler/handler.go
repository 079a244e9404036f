// Package handler serves the JSON API on top of the registry services.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/model"
)

// IdentityService defines user, session and profile operations.
type IdentityService interface {
	CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.SessionToken, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	RelinkAddress(ctx context.Context, userID uuid.UUID, address string) error
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, image model.Image) (model.User, error)
}

// RegistryService defines parcel operations.
type RegistryService interface {
	Register(ctx context.Context, params model.RegisterParcelParams) (model.Parcel, error)
	Get(ctx context.Context, id uuid.UUID) (model.Parcel, error)
	List(ctx context.Context, filter model.ParcelFilter) ([]model.Parcel, error)
	SetSaleState(ctx context.Context, parcelID, callerID uuid.UUID, forSale bool) (model.Parcel, error)
	Edit(ctx context.Context, parcelID, callerID uuid.UUID, params model.EditParcelParams) (model.Parcel, error)
	UpdateImage(ctx context.Context, parcelID, callerID uuid.UUID, image model.Image) (model.Parcel, error)
}

// TransferService defines purchase and transfer history operations.
type TransferService interface {
	Purchase(ctx context.Context, req model.PurchaseRequest) (model.PurchaseAttempt, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Transfer, error)
	History(ctx context.Context, parcelID uuid.UUID) ([]model.Transfer, error)
	Verify(ctx context.Context, ref string) (model.TransferVerification, error)
}

const maxJSONBody = 1 << 20

// MaxPurchaseTimeout bounds the ledger wait a buyer may ask for.
const MaxPurchaseTimeout = 10 * time.Minute

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return model.ErrInvalidInput.WithMessage("invalid request body: %v", err)
	}
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.ErrInvalidInput.WithMessage("invalid id %q", raw)
	}
	return id, nil
}

func callerID(cm model.ContextManager, r *http.Request) (uuid.UUID, error) {
	id, ok := cm.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, model.ErrInvalidSession
	}
	return id, nil
}

// readImage reads the "image" part of a multipart upload.
func readImage(w http.ResponseWriter, r *http.Request) (model.Image, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxUploadSize+1<<20)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Image{}, nil, model.ErrInvalidImage.WithMessage("image exceeds %d bytes", model.MaxUploadSize)
		}
		return model.Image{}, nil, model.ErrInvalidImage.WithMessage("missing image: %v", err)
	}
	image := model.Image{Filename: header.Filename, Size: header.Size, Reader: file}
	return image, func() { _ = file.Close() }, nil
}

func imageURL(key string) string {
	return fmt.Sprintf("/images/%s", key)
}
