package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/landregistry-server/internal/events"
	"github.com/dtroode/landregistry-server/internal/ledger"
	"github.com/dtroode/landregistry-server/internal/model"
	"github.com/dtroode/landregistry-server/internal/repository/memory"
	"github.com/dtroode/landregistry-server/internal/repository/session"
	blobmemory "github.com/dtroode/landregistry-server/internal/storage/memory"
	"github.com/dtroode/landregistry-server/internal/testutil"
	"github.com/dtroode/landregistry-server/internal/token"
)

// env wires the services over the in-memory store and the simulated ledger.
type env struct {
	store       *memory.Store
	ledger      *ledger.Simulated
	blobs       *blobmemory.BlobStore
	identity    *Identity
	registry    *Registry
	coordinator *Coordinator
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.New()
	sim := ledger.NewSimulated()
	blobs := blobmemory.NewBlobStore()
	log := testutil.MakeNoopLogger()

	identity := NewIdentity(store.Users(), sim, token.NewJWT("secret", "test", time.Hour), session.NewMemoryRevoker(), blobs, nil, log, bcrypt.MinCost)
	registry := NewRegistry(store.Parcels(), store.Users(), store, blobs, nil, log)
	coordinator := NewCoordinator(store, store.Parcels(), store.Users(), store.Transfers(), sim, registry, events.Noop{}, nil, log,
		CoordinatorConfig{VerifyTimeout: 200 * time.Millisecond, PollInterval: 10 * time.Millisecond})

	return &env{
		store:       store,
		ledger:      sim,
		blobs:       blobs,
		identity:    identity,
		registry:    registry,
		coordinator: coordinator,
	}
}

func (e *env) user(t *testing.T, name string) model.User {
	t.Helper()
	u, err := e.identity.CreateUser(context.Background(), model.CreateUserParams{
		Username:        name,
		Email:           name + "@example.com",
		Password:        "pass-" + name,
		ConfirmPassword: "pass-" + name,
	})
	require.NoError(t, err)
	return u
}

var nextLedgerID int64

func (e *env) parcel(t *testing.T, owner model.User, price string, forSale bool) model.Parcel {
	t.Helper()
	nextLedgerID++
	p, err := e.registry.Register(context.Background(), model.RegisterParcelParams{
		OwnerID:  owner.ID,
		LedgerID: nextLedgerID,
		Title:    "Parcel " + owner.Username,
		Location: "Valley",
		Price:    decimal.RequireFromString(price),
		ForSale:  forSale,
	})
	require.NoError(t, err)
	return p
}

// pay records a confirmed payment on the simulated ledger.
func (e *env) pay(t *testing.T, from, to model.User, value string) string {
	t.Helper()
	ref, err := e.ledger.Record(from.Address, to.Address, decimal.RequireFromString(value))
	require.NoError(t, err)
	return ref
}
