package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/metrics"
	"github.com/dtroode/landregistry-server/internal/model"
)

const tracerName = "github.com/dtroode/landregistry-server/internal/service"

// CoordinatorConfig tunes ledger verification.
type CoordinatorConfig struct {
	// VerifyTimeout applies when a purchase request carries no timeout.
	VerifyTimeout time.Duration
	// PollInterval is the wait between checks of a pending transaction.
	PollInterval time.Duration
}

// Coordinator moves parcels between owners once the ledger confirms payment.
type Coordinator struct {
	tx        model.TxManager
	parcels   model.ParcelStore
	users     model.UserStore
	transfers model.TransferStore
	ledger    model.LedgerGateway
	registry  *Registry
	events    model.EventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
	tracer    trace.Tracer
	cfg       CoordinatorConfig
}

func NewCoordinator(
	tx model.TxManager,
	parcels model.ParcelStore,
	users model.UserStore,
	transfers model.TransferStore,
	ledger model.LedgerGateway,
	registry *Registry,
	events model.EventPublisher,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	cfg CoordinatorConfig,
) *Coordinator {
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Coordinator{
		tx:        tx,
		parcels:   parcels,
		users:     users,
		transfers: transfers,
		ledger:    ledger,
		registry:  registry,
		events:    events,
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		cfg:       cfg,
	}
}

// Purchase runs one purchase to completion. The returned error is non-nil
// exactly when the attempt ends Rejected, and then carries the reason.
func (c *Coordinator) Purchase(ctx context.Context, req model.PurchaseRequest) (attempt model.PurchaseAttempt, err error) {
	ref := model.NormalizeHex(req.LedgerRef)
	ctx, span := c.tracer.Start(ctx, "Coordinator.Purchase", trace.WithAttributes(
		attribute.String("parcel.id", req.ParcelID.String()),
		attribute.String("buyer.id", req.BuyerID.String()),
		attribute.String("ledger.ref", ref),
	))
	start := time.Now()
	attempt = model.PurchaseAttempt{
		ParcelID:  req.ParcelID,
		BuyerID:   req.BuyerID,
		LedgerRef: ref,
		State:     model.TransferRequested,
	}
	defer func() {
		c.metrics.ObservePurchase(attempt.State, attempt.Reason, time.Since(start))
		span.SetAttributes(attribute.String("purchase.state", string(attempt.State)))
		if err != nil {
			span.SetStatus(codes.Error, attempt.Reason)
		}
		span.End()
	}()

	// A simulated ledger pays on the buyer's behalf when no reference is given.
	synthesize := ref == "" && c.ledger.Mode() == model.LedgerModeSimulated
	if !synthesize && !model.ValidLedgerRef(ref) {
		return c.reject(ctx, attempt, model.ErrInvalidReference)
	}

	parcel, err := c.parcels.GetByID(ctx, req.ParcelID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.reject(ctx, attempt, model.ErrParcelNotFound)
		}
		return c.reject(ctx, attempt, model.ErrPersistence.Wrap(err))
	}

	buyer, err := c.users.GetByID(ctx, req.BuyerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.reject(ctx, attempt, model.ErrUserNotFound)
		}
		return c.reject(ctx, attempt, model.ErrPersistence.Wrap(err))
	}

	if parcel.OwnerID == buyer.ID {
		return c.reject(ctx, attempt, model.ErrAlreadyOwner)
	}
	if !parcel.ForSale {
		return c.reject(ctx, attempt, model.ErrNotForSale)
	}

	if !synthesize {
		if _, err := c.transfers.GetByLedgerRef(ctx, ref); err == nil {
			return c.reject(ctx, attempt, model.ErrDuplicateLedgerReference)
		} else if !errors.Is(err, model.ErrNotFound) {
			return c.reject(ctx, attempt, model.ErrPersistence.Wrap(err))
		}
	}

	seller, err := c.users.GetByID(ctx, parcel.OwnerID)
	if err != nil {
		return c.reject(ctx, attempt, model.ErrPersistence.Wrap(fmt.Errorf("failed to get seller: %w", err)))
	}

	if synthesize {
		ref, err = c.simulatePayment(ctx, seller, buyer, parcel)
		if err != nil {
			return c.reject(ctx, attempt, err)
		}
		attempt.LedgerRef = ref
		span.SetAttributes(attribute.String("ledger.ref", ref))
	}

	attempt.State = model.TransferLedgerPending
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.cfg.VerifyTimeout
	}
	ledgerTx, err := c.awaitConfirmation(ctx, ref, timeout)
	if err != nil {
		return c.reject(ctx, attempt, err)
	}

	if err := matchPayment(ledgerTx, seller, buyer, parcel); err != nil {
		return c.reject(ctx, attempt, err)
	}
	attempt.State = model.TransferConfirmed

	transfer, err := c.commit(ctx, ref, parcel, seller.ID, buyer.ID)
	if err != nil {
		return c.reject(ctx, attempt, err)
	}
	attempt.State = model.TransferCommitted
	attempt.Transfer = &transfer

	c.logger.Info("Coordinator service: transfer committed",
		"transfer_id", transfer.ID,
		"parcel_id", parcel.ID,
		"seller_id", seller.ID,
		"buyer_id", buyer.ID,
		"ledger_ref", ref)

	if err := c.events.PublishTransfer(ctx, model.NewTransferEvent(transfer)); err != nil {
		c.logger.Warn("Coordinator service: failed to publish transfer event",
			"transfer_id", transfer.ID,
			"error", err.Error())
	}

	return attempt, nil
}

func (c *Coordinator) reject(ctx context.Context, attempt model.PurchaseAttempt, err error) (model.PurchaseAttempt, error) {
	if model.CodeOf(err) == "" {
		err = model.ErrPersistence.Wrap(err)
	}
	attempt.State = model.TransferRejected
	attempt.Reason = model.CodeOf(err)
	attempt.Transfer = nil

	level := c.logger.Info
	if model.KindOf(err) == model.KindPersistence {
		level = c.logger.Error
	}
	level("Coordinator service: purchase rejected",
		"parcel_id", attempt.ParcelID,
		"buyer_id", attempt.BuyerID,
		"ledger_ref", attempt.LedgerRef,
		"reason", attempt.Reason,
		"error", err.Error())
	trace.SpanFromContext(ctx).RecordError(err)

	return attempt, err
}

// simulatePayment has the simulated ledger record the seller to buyer
// payment at the parcel price. The result still goes through verification.
func (c *Coordinator) simulatePayment(ctx context.Context, seller, buyer model.User, parcel model.Parcel) (string, error) {
	simulator, ok := c.ledger.(model.PaymentSimulator)
	if !ok {
		return "", model.ErrInvalidReference.WithMessage("ledger reference is required")
	}
	ref, err := simulator.SimulatePayment(ctx, seller.Address, buyer.Address, parcel.Price)
	if err != nil {
		return "", model.ErrLedgerUnavailable.Wrap(err)
	}
	c.logger.Info("Coordinator service: simulated ledger payment",
		"parcel_id", parcel.ID,
		"ledger_ref", ref)
	return model.NormalizeHex(ref), nil
}

// awaitConfirmation asks the ledger until the transaction leaves the pending
// state or the deadline passes. Transport failures are retried on the same
// schedule as pending answers.
func (c *Coordinator) awaitConfirmation(ctx context.Context, ref string, timeout time.Duration) (model.LedgerTx, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		start := time.Now()
		tx, err := c.ledger.VerifyTransaction(ctx, ref)
		c.metrics.ObserveLedgerVerification(verificationOutcome(tx, err), time.Since(start))

		switch {
		case err == nil && tx.Status != model.LedgerTxPending:
			return tx, nil
		case err == nil:
			lastErr = nil
		case errors.Is(err, model.ErrLedgerTxNotFound), errors.Is(err, model.ErrInvalidReference):
			return model.LedgerTx{}, err
		case ctx.Err() != nil:
			return model.LedgerTx{}, model.ErrLedgerTimeout.Wrap(err)
		default:
			lastErr = err
			c.logger.Warn("Coordinator service: ledger verification failed, retrying",
				"ledger_ref", ref,
				"error", err.Error())
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return model.LedgerTx{}, model.ErrLedgerTimeout.Wrap(lastErr)
			}
			return model.LedgerTx{}, model.ErrLedgerTimeout
		case <-ticker.C:
		}
	}
}

func verificationOutcome(tx model.LedgerTx, err error) string {
	switch {
	case err == nil:
		return string(tx.Status)
	case errors.Is(err, model.ErrLedgerTxNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// matchPayment checks that the ledger transaction is exactly the payment
// this purchase needs.
func matchPayment(tx model.LedgerTx, seller, buyer model.User, parcel model.Parcel) error {
	switch {
	case tx.Status != model.LedgerTxConfirmed:
		return model.ErrLedgerMismatch.WithMessage("ledger transaction status is %s", tx.Status)
	case !model.SameAddress(tx.From, seller.Address):
		return model.ErrLedgerMismatch.WithMessage("payment was not sent from the seller's address")
	case !model.SameAddress(tx.To, buyer.Address):
		return model.ErrLedgerMismatch.WithMessage("payment was not sent to the buyer's address")
	case !tx.Value.Equal(parcel.Price):
		return model.ErrLedgerMismatch.WithMessage("payment value %s does not match price %s", tx.Value, parcel.Price)
	}
	return nil
}

// commit records the transfer and moves ownership in one transaction. The
// parcel is re-read under a row lock, so of two concurrent buyers only the
// first to lock still sees it for sale.
func (c *Coordinator) commit(ctx context.Context, ref string, verified model.Parcel, sellerID, buyerID uuid.UUID) (model.Transfer, error) {
	var transfer model.Transfer
	err := c.tx.RunInTx(ctx, func(ctx context.Context, stores model.Stores) error {
		parcel, err := stores.Parcels().GetForUpdate(ctx, verified.ID)
		if err != nil {
			return fmt.Errorf("failed to lock parcel: %w", err)
		}
		switch {
		case parcel.OwnerID == buyerID:
			return model.ErrAlreadyOwner
		case parcel.OwnerID != sellerID, !parcel.ForSale:
			return model.ErrNotForSale
		case !parcel.Price.Equal(verified.Price):
			return model.ErrLedgerMismatch.WithMessage("price changed during verification")
		}

		transfer, err = stores.Transfers().Create(ctx, model.Transfer{
			ID:        uuid.New(),
			LedgerRef: ref,
			ParcelID:  parcel.ID,
			SellerID:  sellerID,
			BuyerID:   buyerID,
			Price:     parcel.Price,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}

		return c.registry.applyTransfer(ctx, stores, parcel.ID, buyerID)
	})
	if err == nil {
		return transfer, nil
	}

	switch model.CodeOf(err) {
	case model.ErrAlreadyOwner.Code, model.ErrNotForSale.Code,
		model.ErrDuplicateLedgerReference.Code, model.ErrLedgerMismatch.Code:
		return model.Transfer{}, err
	}
	return model.Transfer{}, model.ErrPersistence.Wrap(err)
}

// ListForUser returns the user's transfers as buyer or seller, newest first.
func (c *Coordinator) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Transfer, error) {
	transfers, err := c.transfers.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

// History returns the transfers of one parcel, newest first.
func (c *Coordinator) History(ctx context.Context, parcelID uuid.UUID) ([]model.Transfer, error) {
	transfers, err := c.transfers.ListByParcel(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcel transfers: %w", err)
	}
	return transfers, nil
}

// Verify resolves a stored transfer by its ledger reference together with
// the parties' usernames and what the ledger currently says about it.
func (c *Coordinator) Verify(ctx context.Context, ref string) (model.TransferVerification, error) {
	ref = model.NormalizeHex(ref)
	if !model.ValidLedgerRef(ref) {
		return model.TransferVerification{}, model.ErrInvalidReference
	}

	transfer, err := c.transfers.GetByLedgerRef(ctx, ref)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TransferVerification{}, model.ErrTransferNotFound
		}
		return model.TransferVerification{}, fmt.Errorf("failed to get transfer: %w", err)
	}

	seller, err := c.users.GetByID(ctx, transfer.SellerID)
	if err != nil {
		return model.TransferVerification{}, fmt.Errorf("failed to get seller: %w", err)
	}
	buyer, err := c.users.GetByID(ctx, transfer.BuyerID)
	if err != nil {
		return model.TransferVerification{}, fmt.Errorf("failed to get buyer: %w", err)
	}
	parcel, err := c.parcels.GetByID(ctx, transfer.ParcelID)
	if err != nil {
		return model.TransferVerification{}, fmt.Errorf("failed to get parcel: %w", err)
	}

	ledgerCtx, cancel := context.WithTimeout(ctx, c.cfg.VerifyTimeout)
	defer cancel()
	ledgerTx, err := c.ledger.VerifyTransaction(ledgerCtx, ref)

	return model.TransferVerification{
		Transfer:       transfer,
		ParcelTitle:    parcel.Title,
		SellerUsername: seller.Username,
		BuyerUsername:  buyer.Username,
		LedgerStatus:   verificationOutcome(ledgerTx, err),
	}, nil
}
