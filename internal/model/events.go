package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferEvent is published after a transfer commits.
type TransferEvent struct {
	TransferID  uuid.UUID       `json:"transfer_id"`
	LedgerRef   string          `json:"ledger_ref"`
	ParcelID    uuid.UUID       `json:"parcel_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	BuyerID     uuid.UUID       `json:"buyer_id"`
	Price       decimal.Decimal `json:"price"`
	CommittedAt time.Time       `json:"committed_at"`
}

// NewTransferEvent builds the event for a committed transfer.
func NewTransferEvent(t Transfer) TransferEvent {
	return TransferEvent{
		TransferID:  t.ID,
		LedgerRef:   t.LedgerRef,
		ParcelID:    t.ParcelID,
		SellerID:    t.SellerID,
		BuyerID:     t.BuyerID,
		Price:       t.Price,
		CommittedAt: t.CreatedAt,
	}
}

// EventPublisher announces committed transfers to downstream consumers.
type EventPublisher interface {
	PublishTransfer(ctx context.Context, event TransferEvent) error
}
