package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/landregistry-server/internal/model"
)

func TestSimulated_IssueWallet(t *testing.T) {
	s := NewSimulated()
	ctx := context.Background()

	first, err := s.IssueWallet(ctx)
	require.NoError(t, err)
	second, err := s.IssueWallet(ctx)
	require.NoError(t, err)

	assert.True(t, model.ValidAddress(first.Address))
	assert.NotEqual(t, first.Address, second.Address)
	assert.Equal(t, model.LedgerModeSimulated, s.Mode())

	payload := []byte("parcel 42")
	sig, err := first.Signer.Sign(ctx, payload)
	require.NoError(t, err)
	assert.True(t, first.Signer.(*keySigner).verify(payload, sig))
	assert.False(t, second.Signer.(*keySigner).verify(payload, sig))
}

func TestSimulated_VerifyTransaction(t *testing.T) {
	ctx := context.Background()
	from := "0x" + strings.Repeat("a", 40)
	to := "0x" + strings.Repeat("b", 40)
	price := decimal.RequireFromString("1.5")

	t.Run("recorded transaction is confirmed", func(t *testing.T) {
		s := NewSimulated()
		ref, err := s.Record(from, to, price)
		require.NoError(t, err)
		require.True(t, model.ValidLedgerRef(ref))

		tx, err := s.VerifyTransaction(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, model.LedgerTxConfirmed, tx.Status)
		assert.Equal(t, from, tx.From)
		assert.Equal(t, to, tx.To)
		assert.True(t, price.Equal(tx.Value))
	})

	t.Run("upper case reference resolves", func(t *testing.T) {
		s := NewSimulated()
		ref, err := s.Record(from, to, price)
		require.NoError(t, err)

		_, err = s.VerifyTransaction(ctx, "0x"+strings.ToUpper(ref[2:]))
		require.NoError(t, err)
	})

	t.Run("pending until confirmed", func(t *testing.T) {
		s := NewSimulated()
		ref, err := s.RecordPending(from, to, price)
		require.NoError(t, err)

		tx, err := s.VerifyTransaction(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, model.LedgerTxPending, tx.Status)

		require.NoError(t, s.Confirm(ref))
		tx, err = s.VerifyTransaction(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, model.LedgerTxConfirmed, tx.Status)
	})

	t.Run("unknown reference", func(t *testing.T) {
		s := NewSimulated()
		_, err := s.VerifyTransaction(ctx, "0x"+strings.Repeat("0", 64))
		assert.ErrorIs(t, err, model.ErrLedgerTxNotFound)
		assert.ErrorIs(t, s.Confirm("0x"+strings.Repeat("0", 64)), model.ErrLedgerTxNotFound)
	})

	t.Run("malformed reference", func(t *testing.T) {
		s := NewSimulated()
		for _, ref := range []string{"", "0x1234", strings.Repeat("a", 66), "0x" + strings.Repeat("g", 64)} {
			_, err := s.VerifyTransaction(ctx, ref)
			assert.ErrorIs(t, err, model.ErrInvalidReference, ref)
		}
		assert.Equal(t, int64(4), s.Verifications())
	})

	t.Run("scripted answer", func(t *testing.T) {
		s := NewSimulated()
		ref := "0x" + strings.Repeat("C", 64)
		s.Set(model.LedgerTx{Ref: ref, Status: model.LedgerTxFailed, From: from, To: to, Value: price})

		tx, err := s.VerifyTransaction(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, model.LedgerTxFailed, tx.Status)
	})
}

func TestAddressFromPublicKey(t *testing.T) {
	signer, err := newKeySigner()
	require.NoError(t, err)

	addr, err := addressFromPublicKey(&signer.key.PublicKey)
	require.NoError(t, err)
	again, err := addressFromPublicKey(&signer.key.PublicKey)
	require.NoError(t, err)

	assert.True(t, model.ValidAddress(addr))
	assert.Equal(t, addr, again)
}

func TestKeccak256(t *testing.T) {
	// Keccak-256 of the empty string.
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hexString(keccak256()),
	)
}
