package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/landregistry-server/internal/model"
)

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}

type fakeNode struct {
	mu       sync.Mutex
	answers  map[string]any
	calls    atomic.Int64
	delay    time.Duration
	status   int
	rpcError bool
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls.Add(1)
	if n.delay > 0 {
		time.Sleep(n.delay)
	}
	if n.status != 0 {
		w.WriteHeader(n.status)
		return
	}

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if n.rpcError {
		resp["error"] = map[string]any{"code": -32000, "message": "boom"}
	} else {
		n.mu.Lock()
		resp["result"] = n.answers[req.Method]
		n.mu.Unlock()
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newLive(t *testing.T, node *fakeNode) *Live {
	t.Helper()
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return NewLive(srv.URL, WithHTTPClient(srv.Client()), WithPassphrase("secret"), WithCallTimeout(time.Second))
}

var liveRef = "0x" + strings.Repeat("ab", 32)

func TestLive_VerifyTransaction(t *testing.T) {
	ctx := context.Background()
	block := "0x10"
	to := "0x" + strings.Repeat("b", 40)

	t.Run("confirmed", func(t *testing.T) {
		node := &fakeNode{answers: map[string]any{
			"eth_getTransactionByHash": map[string]any{
				"from": "0x" + strings.Repeat("a", 40), "to": to,
				"value": "0xde0b6b3a7640000", "blockNumber": block,
			},
			"eth_getTransactionReceipt": map[string]any{"status": "0x1"},
		}}
		l := newLive(t, node)

		tx, err := l.VerifyTransaction(ctx, liveRef)
		require.NoError(t, err)
		assert.Equal(t, model.LedgerTxConfirmed, tx.Status)
		assert.Equal(t, to, tx.To)
		assert.True(t, decimal.NewFromInt(1).Equal(tx.Value), tx.Value.String())
		assert.Equal(t, model.LedgerModeLive, l.Mode())
	})

	t.Run("pending without block", func(t *testing.T) {
		node := &fakeNode{answers: map[string]any{
			"eth_getTransactionByHash": map[string]any{"from": "0x" + strings.Repeat("a", 40), "to": to, "value": "0x0"},
		}}
		tx, err := newLive(t, node).VerifyTransaction(ctx, liveRef)
		require.NoError(t, err)
		assert.Equal(t, model.LedgerTxPending, tx.Status)
		assert.Equal(t, int64(1), node.calls.Load())
	})

	t.Run("reverted", func(t *testing.T) {
		node := &fakeNode{answers: map[string]any{
			"eth_getTransactionByHash":  map[string]any{"from": "0x" + strings.Repeat("a", 40), "to": to, "value": "0x1", "blockNumber": block},
			"eth_getTransactionReceipt": map[string]any{"status": "0x0"},
		}}
		tx, err := newLive(t, node).VerifyTransaction(ctx, liveRef)
		require.NoError(t, err)
		assert.Equal(t, model.LedgerTxFailed, tx.Status)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		node := &fakeNode{answers: map[string]any{}}
		_, err := newLive(t, node).VerifyTransaction(ctx, liveRef)
		assert.ErrorIs(t, err, model.ErrLedgerTxNotFound)
	})

	t.Run("malformed reference never reaches the node", func(t *testing.T) {
		node := &fakeNode{}
		_, err := newLive(t, node).VerifyTransaction(ctx, "0x1234")
		assert.ErrorIs(t, err, model.ErrInvalidReference)
		assert.Zero(t, node.calls.Load())
	})

	t.Run("rpc error", func(t *testing.T) {
		_, err := newLive(t, &fakeNode{rpcError: true}).VerifyTransaction(ctx, liveRef)
		assert.ErrorIs(t, err, model.ErrLedgerUnavailable)
	})

	t.Run("http error", func(t *testing.T) {
		_, err := newLive(t, &fakeNode{status: http.StatusBadGateway}).VerifyTransaction(ctx, liveRef)
		assert.ErrorIs(t, err, model.ErrLedgerUnavailable)
	})

	t.Run("caller deadline", func(t *testing.T) {
		node := &fakeNode{delay: 200 * time.Millisecond, answers: map[string]any{}}
		l := newLive(t, node)
		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := l.VerifyTransaction(ctx, liveRef)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("concurrent lookups share one round trip", func(t *testing.T) {
		node := &fakeNode{delay: 100 * time.Millisecond, answers: map[string]any{
			"eth_getTransactionByHash": map[string]any{"from": "0x" + strings.Repeat("a", 40), "to": to, "value": "0x0"},
		}}
		l := newLive(t, node)

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.VerifyTransaction(ctx, liveRef)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(1), node.calls.Load())
	})
}

func TestLive_IssueWallet(t *testing.T) {
	ctx := context.Background()
	address := "0x" + strings.Repeat("c", 40)

	node := &fakeNode{answers: map[string]any{
		"personal_newAccount": address,
		"eth_sign":            "0x0102",
	}}
	l := newLive(t, node)

	wallet, err := l.IssueWallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, address, wallet.Address)

	sig, err := wallet.Signer.Sign(ctx, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, sig)

	bad := &fakeNode{answers: map[string]any{"personal_newAccount": "nope"}}
	_, err = newLive(t, bad).IssueWallet(ctx)
	assert.ErrorIs(t, err, model.ErrLedgerUnavailable)
}

func TestParseWei(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0x0", "0"},
		{"0x", "0"},
		{"0xde0b6b3a7640000", "1"},
		{"0x6f05b59d3b20000", "0.5"},
		{"0x1", "0.000000000000000001"},
	}
	for _, tt := range tests {
		got, err := parseWei(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s => %s", tt.in, got)
	}

	_, err := parseWei("0xzz")
	assert.Error(t, err)
}
