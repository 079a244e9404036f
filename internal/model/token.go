package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionToken is an issued session credential.
type SessionToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// SessionClaims is what a valid session token asserts.
type SessionClaims struct {
	UserID    uuid.UUID
	ID        string
	ExpiresAt time.Time
}

// TokenManager generates and validates session tokens.
type TokenManager interface {
	GenerateSessionToken(userID uuid.UUID) (SessionToken, error)
	ParseSessionToken(token string) (SessionClaims, error)
}

// SessionRevoker remembers logged out sessions until they would expire anyway.
type SessionRevoker interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}
