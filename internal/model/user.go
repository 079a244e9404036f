package model

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultProfileImage is assigned to users who never uploaded an image.
const DefaultProfileImage = "default_profile.jpg"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdateAddress(ctx context.Context, id uuid.UUID, address string) error
	UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) error
}

// User is a registered identity linked to exactly one ledger address.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte
	Address      string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserParams carries a registration request.
type CreateUserParams struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks the request shape before it reaches the identity store.
func (p CreateUserParams) Validate() error {
	switch {
	case strings.TrimSpace(p.Username) == "":
		return ErrInvalidInput.WithMessage("username is required")
	case len(p.Username) > 80:
		return ErrInvalidInput.WithMessage("username too long (max 80 characters)")
	case len(p.Email) > 120:
		return ErrInvalidInput.WithMessage("email too long (max 120 characters)")
	case p.Password == "":
		return ErrInvalidInput.WithMessage("password is required")
	case p.Password != p.ConfirmPassword:
		return ErrInvalidInput.WithMessage("passwords do not match")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidInput.WithMessage("invalid email address")
	}
	return nil
}

// ValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// SameAddress compares two hex addresses ignoring checksum casing.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
