package ledger

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/dtroode/landregistry-server/internal/model"
)

var (
	_ model.LedgerGateway    = (*Simulated)(nil)
	_ model.PaymentSimulator = (*Simulated)(nil)
)

// Simulated is an in-process ledger for development and tests. Transactions
// exist only once recorded and can be scripted with Set and Confirm.
type Simulated struct {
	mu  sync.RWMutex
	txs map[string]model.LedgerTx

	verifications atomic.Int64
}

func NewSimulated() *Simulated {
	return &Simulated{
		txs: make(map[string]model.LedgerTx),
	}
}

func (s *Simulated) Mode() model.LedgerMode {
	return model.LedgerModeSimulated
}

func (s *Simulated) IssueWallet(ctx context.Context) (model.WalletIdentity, error) {
	if err := ctx.Err(); err != nil {
		return model.WalletIdentity{}, err
	}

	signer, err := newKeySigner()
	if err != nil {
		return model.WalletIdentity{}, err
	}
	address, err := addressFromPublicKey(&signer.key.PublicKey)
	if err != nil {
		return model.WalletIdentity{}, err
	}

	return model.WalletIdentity{Address: address, Signer: signer}, nil
}

// Record stores a confirmed payment and returns its fresh reference.
func (s *Simulated) Record(from, to string, value decimal.Decimal) (string, error) {
	return s.record(from, to, value, model.LedgerTxConfirmed)
}

// SimulatePayment records a confirmed payment on behalf of a purchase that
// came without a ledger reference.
func (s *Simulated) SimulatePayment(ctx context.Context, from, to string, value decimal.Decimal) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Record(from, to, value)
}

// RecordPending stores a payment that has not been mined yet.
func (s *Simulated) RecordPending(from, to string, value decimal.Decimal) (string, error) {
	return s.record(from, to, value, model.LedgerTxPending)
}

func (s *Simulated) record(from, to string, value decimal.Decimal, status model.LedgerTxStatus) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		ref, err := randomRef()
		if err != nil {
			return "", err
		}
		if _, taken := s.txs[ref]; taken {
			continue
		}
		s.txs[ref] = model.LedgerTx{Ref: ref, Status: status, From: from, To: to, Value: value}
		return ref, nil
	}
}

// Set stores tx under its reference, replacing any previous answer.
func (s *Simulated) Set(tx model.LedgerTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.Ref = model.NormalizeHex(tx.Ref)
	s.txs[tx.Ref] = tx
}

// Confirm marks a pending transaction as mined.
func (s *Simulated) Confirm(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref = model.NormalizeHex(ref)
	tx, ok := s.txs[ref]
	if !ok {
		return model.ErrLedgerTxNotFound
	}
	tx.Status = model.LedgerTxConfirmed
	s.txs[ref] = tx
	return nil
}

// Verifications reports how many times VerifyTransaction was called.
func (s *Simulated) Verifications() int64 {
	return s.verifications.Load()
}

func (s *Simulated) VerifyTransaction(ctx context.Context, ref string) (model.LedgerTx, error) {
	s.verifications.Add(1)

	if err := ctx.Err(); err != nil {
		return model.LedgerTx{}, err
	}
	if !model.ValidLedgerRef(ref) {
		return model.LedgerTx{}, model.ErrInvalidReference
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[model.NormalizeHex(ref)]
	if !ok {
		return model.LedgerTx{}, model.ErrLedgerTxNotFound
	}
	return tx, nil
}
