package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/landregistry-server/internal/mocks"
	"github.com/dtroode/landregistry-server/internal/model"
	"github.com/dtroode/landregistry-server/internal/testutil"
)

func TestRegistry_Register(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.user(t, "alice")

	parcel, err := e.registry.Register(ctx, model.RegisterParcelParams{
		OwnerID:  alice.ID,
		LedgerID: 1001,
		Title:    "Hill farm",
		Location: "North ridge",
		Price:    decimal.RequireFromString("12.5"),
		ForSale:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, parcel.OwnerID)
	assert.Equal(t, model.DefaultParcelImage, parcel.Image)

	tests := []struct {
		name   string
		params model.RegisterParcelParams
		want   error
	}{
		{
			name:   "duplicate ledger id",
			params: model.RegisterParcelParams{OwnerID: alice.ID, LedgerID: 1001, Title: "Other", Location: "South"},
			want:   model.ErrDuplicateLedgerID,
		},
		{
			name:   "negative price",
			params: model.RegisterParcelParams{OwnerID: alice.ID, LedgerID: 1002, Title: "Other", Location: "South", Price: decimal.NewFromInt(-1)},
			want:   model.ErrInvalidInput,
		},
		{
			name:   "price finer than the column scale",
			params: model.RegisterParcelParams{OwnerID: alice.ID, LedgerID: 1005, Title: "Other", Location: "South", Price: decimal.RequireFromString("0.123456789")},
			want:   model.ErrInvalidInput,
		},
		{
			name:   "price beyond the column range",
			params: model.RegisterParcelParams{OwnerID: alice.ID, LedgerID: 1006, Title: "Other", Location: "South", Price: decimal.RequireFromString("10000000000000")},
			want:   model.ErrInvalidInput,
		},
		{
			name:   "non-positive ledger id",
			params: model.RegisterParcelParams{OwnerID: alice.ID, LedgerID: 0, Title: "Other", Location: "South"},
			want:   model.ErrInvalidInput,
		},
		{
			name:   "missing title",
			params: model.RegisterParcelParams{OwnerID: alice.ID, LedgerID: 1003, Location: "South"},
			want:   model.ErrInvalidInput,
		},
		{
			name:   "unknown owner",
			params: model.RegisterParcelParams{OwnerID: uuid.New(), LedgerID: 1004, Title: "Other", Location: "South"},
			want:   model.ErrUserNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.registry.Register(ctx, tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := e.registry.List(ctx, model.ParcelFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRegistry_OwnerMutations(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.user(t, "alice")
	parcel := e.parcel(t, alice, "100", false)

	listed, err := e.registry.SetSaleState(ctx, parcel.ID, alice.ID, true)
	require.NoError(t, err)
	assert.True(t, listed.ForSale)

	title := "Renamed"
	price := decimal.RequireFromString("150.25")
	edited, err := e.registry.Edit(ctx, parcel.ID, alice.ID, model.EditParcelParams{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", edited.Title)
	assert.True(t, price.Equal(edited.Price))
	assert.Equal(t, parcel.Location, edited.Location, "absent fields are kept")
	assert.True(t, edited.ForSale)

	negative := decimal.NewFromInt(-5)
	_, err = e.registry.Edit(ctx, parcel.ID, alice.ID, model.EditParcelParams{Price: &negative})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = e.registry.SetSaleState(ctx, uuid.New(), alice.ID, true)
	assert.ErrorIs(t, err, model.ErrParcelNotFound)
}

func TestRegistry_NonOwnerNeverMutates(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.user(t, "alice")
	mallory := e.user(t, "mallory")
	parcel := e.parcel(t, alice, "100", true)

	title := "Stolen"
	price := decimal.Zero
	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "set sale state",
			call: func() error {
				_, err := e.registry.SetSaleState(ctx, parcel.ID, mallory.ID, false)
				return err
			},
		},
		{
			name: "edit",
			call: func() error {
				_, err := e.registry.Edit(ctx, parcel.ID, mallory.ID, model.EditParcelParams{Title: &title, Price: &price})
				return err
			},
		},
		{
			name: "update image",
			call: func() error {
				_, err := e.registry.UpdateImage(ctx, parcel.ID, mallory.ID, model.Image{Filename: "x.png", Size: 1, Reader: strings.NewReader("x")})
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, model.ErrNotOwner)
			assert.Equal(t, model.KindAuthorization, model.KindOf(err))

			got, err := e.registry.Get(ctx, parcel.ID)
			require.NoError(t, err)
			assert.Equal(t, parcel, got)
		})
	}
}

func TestRegistry_List(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	p1 := e.parcel(t, alice, "1", true)
	p2 := e.parcel(t, alice, "2", false)
	p3 := e.parcel(t, bob, "3", true)

	lake := "Lakeside cottage"
	_, err := e.registry.Edit(ctx, p3.ID, bob.ID, model.EditParcelParams{Title: &lake})
	require.NoError(t, err)

	yes, no := true, false
	tests := []struct {
		name   string
		filter model.ParcelFilter
		want   []uuid.UUID
	}{
		{name: "all newest first", filter: model.ParcelFilter{}, want: []uuid.UUID{p3.ID, p2.ID, p1.ID}},
		{name: "for sale", filter: model.ParcelFilter{ForSale: &yes}, want: []uuid.UUID{p3.ID, p1.ID}},
		{name: "not for sale", filter: model.ParcelFilter{ForSale: &no}, want: []uuid.UUID{p2.ID}},
		{name: "by owner", filter: model.ParcelFilter{OwnerID: alice.ID}, want: []uuid.UUID{p2.ID, p1.ID}},
		{name: "text search", filter: model.ParcelFilter{Query: "LAKESIDE"}, want: []uuid.UUID{p3.ID}},
		{name: "no match", filter: model.ParcelFilter{Query: "desert"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parcels, err := e.registry.List(ctx, tt.filter)
			require.NoError(t, err)
			var ids []uuid.UUID
			for _, p := range parcels {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRegistry_UpdateImage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.user(t, "alice")
	parcel := e.parcel(t, alice, "1", true)

	updated, err := e.registry.UpdateImage(ctx, parcel.ID, alice.ID, model.Image{Filename: "plot.jpg", Size: 3, Reader: strings.NewReader("img")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Image, model.FolderParcels+"/"))

	exists, err := e.blobs.Exists(ctx, updated.Image)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = e.registry.UpdateImage(ctx, parcel.ID, alice.ID, model.Image{Filename: "plot.bmp", Size: 3, Reader: strings.NewReader("img")})
	assert.ErrorIs(t, err, model.ErrInvalidImage)
}

func TestRegistry_StoreFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dbErr := errors.New("connection refused")
	missing := uuid.New()
	broken := uuid.New()

	parcels := mocks.NewParcelStore(t)
	parcels.On("GetByID", mock.Anything, missing).Return(model.Parcel{}, model.ErrNotFound).Once()
	parcels.On("GetByID", mock.Anything, broken).Return(model.Parcel{}, dbErr).Once()
	parcels.On("List", mock.Anything, model.ParcelFilter{}).Return(nil, dbErr).Once()

	registry := NewRegistry(parcels, e.store.Users(), e.store, e.blobs, nil, testutil.MakeNoopLogger())

	_, err := registry.Get(ctx, missing)
	assert.ErrorIs(t, err, model.ErrParcelNotFound)

	_, err = registry.Get(ctx, broken)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, model.ErrParcelNotFound)

	_, err = registry.List(ctx, model.ParcelFilter{})
	assert.ErrorIs(t, err, dbErr)
}
