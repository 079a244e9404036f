package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/landregistry-server/internal/model"
)

// weiExponent converts wei to ether.
const weiExponent = -18

var _ model.LedgerGateway = (*Live)(nil)

// Live talks to an Ethereum node over JSON-RPC.
type Live struct {
	endpoint   string
	passphrase string
	client     *http.Client
	timeout    time.Duration

	ids   atomic.Uint64
	group singleflight.Group
}

type LiveOption func(*Live)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) LiveOption {
	return func(l *Live) {
		l.client = client
	}
}

// WithPassphrase sets the passphrase for accounts created by IssueWallet.
func WithPassphrase(passphrase string) LiveOption {
	return func(l *Live) {
		l.passphrase = passphrase
	}
}

// WithCallTimeout bounds a single RPC round trip.
func WithCallTimeout(timeout time.Duration) LiveOption {
	return func(l *Live) {
		l.timeout = timeout
	}
}

func NewLive(endpoint string, opts ...LiveOption) *Live {
	l := &Live{
		endpoint: endpoint,
		client:   http.DefaultClient,
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *Live) Mode() model.LedgerMode {
	return model.LedgerModeLive
}

func (l *Live) IssueWallet(ctx context.Context) (model.WalletIdentity, error) {
	var address string
	if err := l.call(ctx, "personal_newAccount", []any{l.passphrase}, &address); err != nil {
		return model.WalletIdentity{}, err
	}
	if !model.ValidAddress(address) {
		return model.WalletIdentity{}, model.ErrLedgerUnavailable.WithMessage("node returned invalid address %q", address)
	}

	return model.WalletIdentity{
		Address: address,
		Signer:  &nodeSigner{ledger: l, address: address},
	}, nil
}

// VerifyTransaction collapses concurrent lookups of the same reference into
// one round trip. Each caller still honors its own context.
func (l *Live) VerifyTransaction(ctx context.Context, ref string) (model.LedgerTx, error) {
	if !model.ValidLedgerRef(ref) {
		return model.LedgerTx{}, model.ErrInvalidReference
	}
	ref = model.NormalizeHex(ref)

	ch := l.group.DoChan(ref, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.fetchTransaction(callCtx, ref)
	})

	select {
	case <-ctx.Done():
		return model.LedgerTx{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.LedgerTx{}, res.Err
		}
		return res.Val.(model.LedgerTx), nil
	}
}

type rpcTransaction struct {
	From        string  `json:"from"`
	To          *string `json:"to"`
	Value       string  `json:"value"`
	BlockNumber *string `json:"blockNumber"`
}

type rpcReceipt struct {
	Status string `json:"status"`
}

func (l *Live) fetchTransaction(ctx context.Context, ref string) (model.LedgerTx, error) {
	var tx *rpcTransaction
	if err := l.call(ctx, "eth_getTransactionByHash", []any{ref}, &tx); err != nil {
		return model.LedgerTx{}, err
	}
	if tx == nil {
		return model.LedgerTx{}, model.ErrLedgerTxNotFound
	}

	value, err := parseWei(tx.Value)
	if err != nil {
		return model.LedgerTx{}, model.ErrLedgerUnavailable.Wrap(err)
	}

	result := model.LedgerTx{
		Ref:    ref,
		Status: model.LedgerTxPending,
		From:   tx.From,
		Value:  value,
	}
	if tx.To != nil {
		result.To = *tx.To
	}
	if tx.BlockNumber == nil {
		return result, nil
	}

	var receipt *rpcReceipt
	if err := l.call(ctx, "eth_getTransactionReceipt", []any{ref}, &receipt); err != nil {
		return model.LedgerTx{}, err
	}
	switch {
	case receipt == nil:
	case receipt.Status == "0x1":
		result.Status = model.LedgerTxConfirmed
	default:
		result.Status = model.LedgerTxFailed
	}

	return result, nil
}

// parseWei converts a hex quantity in wei into ether.
func parseWei(quantity string) (decimal.Decimal, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(quantity, "0x"), "0X")
	if digits == "" {
		return decimal.Zero, nil
	}
	wei, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("invalid hex quantity %q", quantity)
	}
	return decimal.NewFromBigInt(wei, weiExponent), nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (l *Live) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: l.ids.Add(1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return model.ErrLedgerUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ErrLedgerUnavailable.WithMessage("ledger node answered %s to %s", resp.Status, method)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return model.ErrLedgerUnavailable.Wrap(fmt.Errorf("failed to decode %s response: %w", method, err))
	}
	if rpcResp.Error != nil {
		return model.ErrLedgerUnavailable.Wrap(rpcResp.Error)
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return model.ErrLedgerUnavailable.Wrap(fmt.Errorf("failed to decode %s result: %w", method, err))
	}

	return nil
}

// nodeSigner signs with an account held by the node.
type nodeSigner struct {
	ledger  *Live
	address string
}

func (s *nodeSigner) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	var sig string
	if err := s.ledger.call(ctx, "eth_sign", []any{s.address, "0x" + hex.EncodeToString(payload)}, &sig); err != nil {
		return nil, err
	}
	out, err := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return out, nil
}
