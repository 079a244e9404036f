package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultParcelImage is used for parcels registered without an image.
const DefaultParcelImage = "default_land.png"

// ParcelStore defines persistence operations for land parcels.
type ParcelStore interface {
	Create(ctx context.Context, parcel Parcel) (Parcel, error)
	GetByID(ctx context.Context, id uuid.UUID) (Parcel, error)
	// GetForUpdate reads the parcel and holds it until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (Parcel, error)
	List(ctx context.Context, filter ParcelFilter) ([]Parcel, error)
	// Update writes the mutable descriptive fields and the sale flag.
	Update(ctx context.Context, parcel Parcel) (Parcel, error)
	// UpdateOwner reassigns ownership and clears the sale flag.
	UpdateOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

// Parcel is a land record owned by exactly one user.
type Parcel struct {
	ID          uuid.UUID
	LedgerID    int64
	OwnerID     uuid.UUID
	Title       string
	Location    string
	Description string
	Price       decimal.Decimal
	Image       string
	ForSale     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParcelFilter narrows parcel listings. Zero values mean "any".
type ParcelFilter struct {
	ForSale *bool
	OwnerID uuid.UUID
	Query   string
}

// Matches reports whether p satisfies the filter.
func (f ParcelFilter) Matches(p Parcel) bool {
	if f.ForSale != nil && p.ForSale != *f.ForSale {
		return false
	}
	if f.OwnerID != uuid.Nil && p.OwnerID != f.OwnerID {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Location), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	}
	return true
}

// Prices are stored as NUMERIC(20,8).
const (
	PriceScale         = 8
	priceIntegerDigits = 12
)

var maxPrice = decimal.New(1, priceIntegerDigits)

// ValidatePrice rejects prices the parcels table cannot hold exactly.
func ValidatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return ErrInvalidInput.WithMessage("price must be non-negative")
	case !price.Equal(price.Truncate(PriceScale)):
		return ErrInvalidInput.WithMessage("price allows at most %d decimal places", PriceScale)
	case price.GreaterThanOrEqual(maxPrice):
		return ErrInvalidInput.WithMessage("price must be below %s", maxPrice)
	}
	return nil
}

// RegisterParcelParams carries a parcel registration request.
type RegisterParcelParams struct {
	OwnerID     uuid.UUID
	LedgerID    int64
	Title       string
	Location    string
	Description string
	Price       decimal.Decimal
	ForSale     bool
	Image       string
}

// Validate checks the registration request.
func (p RegisterParcelParams) Validate() error {
	switch {
	case p.OwnerID == uuid.Nil:
		return ErrInvalidInput.WithMessage("owner is required")
	case p.LedgerID <= 0:
		return ErrInvalidInput.WithMessage("ledger id must be positive")
	case strings.TrimSpace(p.Title) == "":
		return ErrInvalidInput.WithMessage("title is required")
	case len(p.Title) > 100:
		return ErrInvalidInput.WithMessage("title too long (max 100 characters)")
	case strings.TrimSpace(p.Location) == "":
		return ErrInvalidInput.WithMessage("location is required")
	case len(p.Location) > 200:
		return ErrInvalidInput.WithMessage("location too long (max 200 characters)")
	}
	return ValidatePrice(p.Price)
}

// EditParcelParams is a partial update; nil fields are left untouched.
type EditParcelParams struct {
	Title       *string
	Location    *string
	Description *string
	Price       *decimal.Decimal
	ForSale     *bool
}

// Validate checks the fields that are present.
func (p EditParcelParams) Validate() error {
	if p.Title != nil && (strings.TrimSpace(*p.Title) == "" || len(*p.Title) > 100) {
		return ErrInvalidInput.WithMessage("title must be 1-100 characters")
	}
	if p.Location != nil && (strings.TrimSpace(*p.Location) == "" || len(*p.Location) > 200) {
		return ErrInvalidInput.WithMessage("location must be 1-200 characters")
	}
	if p.Price != nil {
		return ValidatePrice(*p.Price)
	}
	return nil
}

// Apply copies the present fields onto parcel.
func (p EditParcelParams) Apply(parcel *Parcel) {
	if p.Title != nil {
		parcel.Title = *p.Title
	}
	if p.Location != nil {
		parcel.Location = *p.Location
	}
	if p.Description != nil {
		parcel.Description = *p.Description
	}
	if p.Price != nil {
		parcel.Price = *p.Price
	}
	if p.ForSale != nil {
		parcel.ForSale = *p.ForSale
	}
}
