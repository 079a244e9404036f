package model

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerMode tells which ledger variant is active.
type LedgerMode string

const (
	LedgerModeLive      LedgerMode = "live"
	LedgerModeSimulated LedgerMode = "simulated"
)

// LedgerTxStatus is the confirmation state of a ledger transaction.
type LedgerTxStatus string

const (
	LedgerTxPending   LedgerTxStatus = "pending"
	LedgerTxConfirmed LedgerTxStatus = "confirmed"
	LedgerTxFailed    LedgerTxStatus = "failed"
)

// LedgerTx is the ledger's view of a transaction.
type LedgerTx struct {
	Ref    string
	Status LedgerTxStatus
	From   string
	To     string
	Value  decimal.Decimal
}

// Signer signs payloads with a wallet's key.
type Signer interface {
	Sign(ctx context.Context, payload []byte) ([]byte, error)
}

// WalletIdentity is a freshly issued ledger account.
type WalletIdentity struct {
	Address string
	Signer  Signer
}

// LedgerGateway is the narrow boundary to the authoritative external ledger.
type LedgerGateway interface {
	Mode() LedgerMode
	IssueWallet(ctx context.Context) (WalletIdentity, error)
	// VerifyTransaction returns ErrLedgerTxNotFound when the ledger has no such
	// transaction and ErrInvalidReference when ref is malformed.
	VerifyTransaction(ctx context.Context, ref string) (LedgerTx, error)
}

// PaymentSimulator is implemented by gateways that can fabricate a payment
// themselves. Purchases without a reference use it on a simulated ledger.
type PaymentSimulator interface {
	SimulatePayment(ctx context.Context, from, to string, value decimal.Decimal) (string, error)
}
