package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/metrics"
	"github.com/dtroode/landregistry-server/internal/model"
)

// Identity registers users, authenticates them and manages their wallet
// address and profile image.
type Identity struct {
	users   model.UserStore
	ledger  model.LedgerGateway
	tokens  model.TokenManager
	revoker model.SessionRevoker
	blobs   model.BlobStore
	metrics *metrics.Metrics
	logger  *logger.Logger

	bcryptCost int
	dummyOnce  sync.Once
	dummyHash  []byte
}

func NewIdentity(
	users model.UserStore,
	ledger model.LedgerGateway,
	tokens model.TokenManager,
	revoker model.SessionRevoker,
	blobs model.BlobStore,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	bcryptCost int,
) *Identity {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Identity{
		users:      users,
		ledger:     ledger,
		tokens:     tokens,
		revoker:    revoker,
		blobs:      blobs,
		metrics:    metrics,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Identity) CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	s.logger.Debug("Identity service: creating user",
		"username", params.Username)

	if err := params.Validate(); err != nil {
		return model.User{}, err
	}

	if _, err := s.users.GetByUsername(ctx, params.Username); err == nil {
		return model.User{}, model.ErrDuplicateUsername
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, params.Email); err == nil {
		return model.User{}, model.ErrDuplicateEmail
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	wallet, err := s.ledger.IssueWallet(ctx)
	if err != nil {
		s.logger.Error("Identity service: failed to issue wallet",
			"username", params.Username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to issue wallet: %w", err)
	}

	now := time.Now()
	user, err := s.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		Address:      wallet.Address,
		ProfileImage: model.DefaultProfileImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncRegistration("user")
	s.logger.Info("Identity service: user created",
		"user_id", user.ID,
		"address", user.Address)

	return user, nil
}

// Authenticate checks credentials and issues a session token. A missing user
// costs the same bcrypt comparison as a wrong password.
func (s *Identity) Authenticate(ctx context.Context, username, password string) (model.SessionToken, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return model.SessionToken{}, fmt.Errorf("failed to get user by username: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.logger.Info("Identity service: login for unknown user",
			"username", username)
		return model.SessionToken{}, model.ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		s.logger.Info("Identity service: wrong password",
			"user_id", user.ID)
		return model.SessionToken{}, model.ErrInvalidCredential
	}

	token, err := s.tokens.GenerateSessionToken(user.ID)
	if err != nil {
		return model.SessionToken{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	return token, nil
}

func (s *Identity) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("landregistry-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}

// ResolveSession returns the user a session token belongs to.
func (s *Identity) ResolveSession(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.tokens.ParseSessionToken(token)
	if err != nil {
		return uuid.Nil, model.ErrInvalidSession.Wrap(err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return uuid.Nil, model.ErrInvalidSession
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrInvalidSession
		}
		return uuid.Nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return claims.UserID, nil
}

// Logout revokes the session until the token would have expired.
func (s *Identity) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseSessionToken(token)
	if err != nil {
		return model.ErrInvalidSession.Wrap(err)
	}

	if err := s.revoker.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("Identity service: session revoked",
		"user_id", claims.UserID)
	return nil
}

func (s *Identity) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// RelinkAddress points the user at a different ledger address.
func (s *Identity) RelinkAddress(ctx context.Context, userID uuid.UUID, address string) error {
	if !model.ValidAddress(address) {
		return model.ErrInvalidAddressFormat
	}

	if err := s.users.UpdateAddress(ctx, userID, address); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrUserNotFound
		}
		return fmt.Errorf("failed to update address: %w", err)
	}

	s.logger.Info("Identity service: address relinked",
		"user_id", userID,
		"address", address)
	return nil
}

func (s *Identity) UpdateProfileImage(ctx context.Context, userID uuid.UUID, image model.Image) (model.User, error) {
	ext, err := image.Extension()
	if err != nil {
		return model.User{}, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	key, err := s.blobs.Put(ctx, model.FolderProfiles, ext, image.Reader, image.Size)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to store profile image: %w", err)
	}

	if err := s.users.UpdateProfileImage(ctx, userID, key); err != nil {
		s.discardBlob(ctx, key)
		return model.User{}, fmt.Errorf("failed to update profile image: %w", err)
	}

	if user.ProfileImage != model.DefaultProfileImage {
		s.discardBlob(ctx, user.ProfileImage)
	}

	user.ProfileImage = key
	return user, nil
}

func (s *Identity) discardBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn("Identity service: failed to delete image",
			"key", key,
			"error", err.Error())
	}
}
