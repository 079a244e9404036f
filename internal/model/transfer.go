package model

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ledgerRefPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// TransferStore defines persistence operations for the append-only transfer log.
type TransferStore interface {
	Create(ctx context.Context, transfer Transfer) (Transfer, error)
	GetByLedgerRef(ctx context.Context, ref string) (Transfer, error)
	// ListByUser returns transfers where the user is buyer or seller, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Transfer, error)
	ListByParcel(ctx context.Context, parcelID uuid.UUID) ([]Transfer, error)
}

// Transfer records one committed change of ownership. Never mutated.
type Transfer struct {
	ID        uuid.UUID
	LedgerRef string
	ParcelID  uuid.UUID
	SellerID  uuid.UUID
	BuyerID   uuid.UUID
	Price     decimal.Decimal
	CreatedAt time.Time
}

// TransferState is the lifecycle stage of a purchase attempt.
type TransferState string

const (
	TransferRequested     TransferState = "requested"
	TransferLedgerPending TransferState = "ledger_pending"
	TransferConfirmed     TransferState = "confirmed"
	TransferCommitted     TransferState = "committed"
	TransferRejected      TransferState = "rejected"
)

// PurchaseRequest asks to move a parcel to the buyer against a ledger transaction.
type PurchaseRequest struct {
	ParcelID  uuid.UUID
	BuyerID   uuid.UUID
	LedgerRef string
	// Timeout bounds ledger verification. Zero uses the configured default.
	Timeout time.Duration
}

// PurchaseAttempt is the outcome of a purchase. Reason is set only when
// State is TransferRejected; Transfer only when State is TransferCommitted.
type PurchaseAttempt struct {
	ParcelID  uuid.UUID
	BuyerID   uuid.UUID
	LedgerRef string
	State     TransferState
	Reason    string
	Transfer  *Transfer
}

// TransferVerification is the read model behind the verify page.
type TransferVerification struct {
	Transfer       Transfer
	ParcelTitle    string
	SellerUsername string
	BuyerUsername  string
	LedgerStatus   string
}

// ValidLedgerRef reports whether ref is a 0x-prefixed 32-byte hex reference.
func ValidLedgerRef(ref string) bool {
	return ledgerRefPattern.MatchString(ref)
}

// NormalizeHex lowercases a hex reference or address so that equal values
// compare and index identically.
func NormalizeHex(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
