package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpctx "github.com/dtroode/landregistry-server/internal/api/http/context"
	"github.com/dtroode/landregistry-server/internal/events"
	"github.com/dtroode/landregistry-server/internal/ledger"
	"github.com/dtroode/landregistry-server/internal/metrics"
	"github.com/dtroode/landregistry-server/internal/repository/memory"
	"github.com/dtroode/landregistry-server/internal/repository/session"
	"github.com/dtroode/landregistry-server/internal/service"
	blobmemory "github.com/dtroode/landregistry-server/internal/storage/memory"
	"github.com/dtroode/landregistry-server/internal/testutil"
	"github.com/dtroode/landregistry-server/internal/token"
)

type api struct {
	t      *testing.T
	srv    *httptest.Server
	ledger *ledger.Simulated
}

func newAPI(t *testing.T) *api {
	t.Helper()

	store := memory.New()
	sim := ledger.NewSimulated()
	blobs := blobmemory.NewBlobStore()
	log := testutil.MakeNoopLogger()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	identity := service.NewIdentity(store.Users(), sim, token.NewJWT("secret", "test", time.Hour), session.NewMemoryRevoker(), blobs, m, log, bcrypt.MinCost)
	registry := service.NewRegistry(store.Parcels(), store.Users(), store, blobs, m, log)
	coordinator := service.NewCoordinator(store, store.Parcels(), store.Users(), store.Transfers(), sim, registry, events.Noop{}, m, log,
		service.CoordinatorConfig{VerifyTimeout: 200 * time.Millisecond, PollInterval: 10 * time.Millisecond})

	h := New(identity, registry, coordinator, blobs, httpctx.NewManager(), reg, m, log, 5*time.Second).Register()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &api{t: t, srv: srv, ledger: sim}
}

func (a *api) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.send(req)
}

func (a *api) send(req *http.Request) (int, map[string]any) {
	a.t.Helper()

	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	var out map[string]any
	if len(data) > 0 && data[0] == '{' {
		require.NoError(a.t, json.Unmarshal(data, &out))
	}
	return resp.StatusCode, out
}

func (a *api) list(path, token string) []map[string]any {
	a.t.Helper()

	req, err := http.NewRequest(http.MethodGet, a.srv.URL+path, nil)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	require.Equal(a.t, http.StatusOK, resp.StatusCode)

	var out []map[string]any
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signup registers a user and returns their id, address and session token.
func (a *api) signup(name string) (id, address, token string) {
	a.t.Helper()

	status, user := a.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"username": name, "email": name + "@example.com", "password": "pw-" + name, "confirm_password": "pw-" + name,
	})
	require.Equal(a.t, http.StatusCreated, status, user)

	status, session := a.do(http.MethodPost, "/api/v1/sessions", "", map[string]string{"username": name, "password": "pw-" + name})
	require.Equal(a.t, http.StatusCreated, status, session)

	return user["id"].(string), user["address"].(string), session["token"].(string)
}

func TestRouter_PurchaseFlow(t *testing.T) {
	a := newAPI(t)
	aliceID, aliceAddr, alice := a.signup("alice")
	bobID, bobAddr, bob := a.signup("bob")

	status, parcel := a.do(http.MethodPost, "/api/v1/parcels", alice, map[string]any{
		"ledger_id": 7, "title": "Orchard", "location": "East valley", "price": "100", "for_sale": true,
	})
	require.Equal(t, http.StatusCreated, status, parcel)
	parcelID := parcel["id"].(string)
	assert.Equal(t, aliceID, parcel["owner_id"])
	assert.Equal(t, "100", parcel["price"])

	forSale := a.list("/api/v1/parcels?for_sale=true", "")
	require.Len(t, forSale, 1)

	short, err := a.ledger.Record(aliceAddr, bobAddr, decimal.NewFromInt(90))
	require.NoError(t, err)
	status, attempt := a.do(http.MethodPost, "/api/v1/parcels/"+parcelID+"/purchase", bob, map[string]string{"ledger_ref": short})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "rejected", attempt["state"])
	assert.Equal(t, "ledger_mismatch", attempt["reason"])

	ref, err := a.ledger.Record(aliceAddr, bobAddr, decimal.NewFromInt(100))
	require.NoError(t, err)
	status, attempt = a.do(http.MethodPost, "/api/v1/parcels/"+parcelID+"/purchase", bob, map[string]string{"ledger_ref": ref})
	require.Equal(t, http.StatusOK, status, attempt)
	assert.Equal(t, "committed", attempt["state"])
	transfer := attempt["transfer"].(map[string]any)
	assert.Equal(t, ref, transfer["ledger_ref"])

	status, parcel = a.do(http.MethodGet, "/api/v1/parcels/"+parcelID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, bobID, parcel["owner_id"])
	assert.Equal(t, false, parcel["for_sale"])

	status, attempt = a.do(http.MethodPost, "/api/v1/parcels/"+parcelID+"/purchase", bob, map[string]string{"ledger_ref": ref})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_owner", attempt["reason"])

	status, _ = a.do(http.MethodGet, "/api/v1/transfers/"+ref, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, v := a.do(http.MethodGet, "/api/v1/transfers/"+ref, bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", v["seller_username"])
	assert.Equal(t, "bob", v["buyer_username"])
	assert.Equal(t, "confirmed", v["ledger_status"])

	assert.Len(t, a.list("/api/v1/transfers", alice), 1)
	assert.Len(t, a.list("/api/v1/parcels/"+parcelID+"/transfers", ""), 1)
	assert.Len(t, a.list("/api/v1/parcels?owner="+bobID, ""), 1)
}

func TestRouter_SimulatedLedgerPurchase(t *testing.T) {
	a := newAPI(t)
	aliceID, _, alice := a.signup("alice")
	bobID, _, bob := a.signup("bob")
	_, _, carol := a.signup("carol")

	status, parcel := a.do(http.MethodPost, "/api/v1/parcels", alice, map[string]any{
		"ledger_id": 11, "title": "Vineyard", "location": "South slope", "price": "250.75", "for_sale": true,
	})
	require.Equal(t, http.StatusCreated, status, parcel)
	parcelID := parcel["id"].(string)

	status, attempt := a.do(http.MethodPost, "/api/v1/parcels/"+parcelID+"/purchase", alice, map[string]any{})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_owner", attempt["reason"])

	status, attempt = a.do(http.MethodPost, "/api/v1/parcels/"+parcelID+"/purchase", bob, map[string]any{})
	require.Equal(t, http.StatusOK, status, attempt)
	assert.Equal(t, "committed", attempt["state"])
	transfer := attempt["transfer"].(map[string]any)
	ref := transfer["ledger_ref"].(string)
	assert.Len(t, ref, 66)
	assert.Equal(t, aliceID, transfer["seller_id"])
	assert.Equal(t, bobID, transfer["buyer_id"])
	assert.Equal(t, "250.75", transfer["price"])

	status, parcel = a.do(http.MethodGet, "/api/v1/parcels/"+parcelID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, bobID, parcel["owner_id"])
	assert.Equal(t, false, parcel["for_sale"])

	status, attempt = a.do(http.MethodPost, "/api/v1/parcels/"+parcelID+"/purchase", carol, map[string]any{})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "not_for_sale", attempt["reason"])

	status, v := a.do(http.MethodGet, "/api/v1/transfers/"+ref, alice, nil)
	require.Equal(t, http.StatusOK, status, v)
	assert.Equal(t, "confirmed", v["ledger_status"])
	assert.Len(t, a.list("/api/v1/transfers", bob), 1)
}

func TestRouter_PurchaseTimeoutBounds(t *testing.T) {
	a := newAPI(t)
	_, _, alice := a.signup("alice")
	_, _, bob := a.signup("bob")

	status, parcel := a.do(http.MethodPost, "/api/v1/parcels", alice, map[string]any{
		"ledger_id": 12, "title": "Field", "location": "North", "price": "1", "for_sale": true,
	})
	require.Equal(t, http.StatusCreated, status, parcel)
	path := "/api/v1/parcels/" + parcel["id"].(string) + "/purchase"

	for _, timeout := range []int64{-1, 9223372036854775807, 600001} {
		status, body := a.do(http.MethodPost, path, bob, map[string]any{"timeout_ms": timeout})
		assert.Equal(t, http.StatusBadRequest, status, timeout)
		assert.Equal(t, "invalid_input", body["error"])
	}

	status, parcel = a.do(http.MethodGet, "/api/v1/parcels/"+parcel["id"].(string), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, parcel["for_sale"])
}

func TestRouter_OwnerOnlyMutations(t *testing.T) {
	a := newAPI(t)
	_, _, alice := a.signup("alice")
	_, _, mallory := a.signup("mallory")

	status, parcel := a.do(http.MethodPost, "/api/v1/parcels", alice, map[string]any{
		"ledger_id": 1, "title": "Meadow", "location": "West", "price": "5", "for_sale": false,
	})
	require.Equal(t, http.StatusCreated, status)
	id := parcel["id"].(string)

	status, body := a.do(http.MethodPut, "/api/v1/parcels/"+id+"/sale", mallory, map[string]bool{"for_sale": true})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "not_owner", body["error"])

	status, body = a.do(http.MethodPatch, "/api/v1/parcels/"+id, mallory, map[string]string{"title": "Mine"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = a.do(http.MethodPatch, "/api/v1/parcels/"+id, alice, map[string]any{"title": "Big meadow", "price": "6.5"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Big meadow", body["title"])
	assert.Equal(t, "6.5", body["price"])
	assert.Equal(t, false, body["for_sale"])

	status, body = a.do(http.MethodPatch, "/api/v1/parcels/"+id, alice, map[string]any{"price": "-1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", body["error"])

	status, body = a.do(http.MethodPost, "/api/v1/parcels", alice, map[string]any{
		"ledger_id": 1, "title": "Copy", "location": "West", "price": "5",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate_ledger_id", body["error"])
}

func TestRouter_Sessions(t *testing.T) {
	a := newAPI(t)
	_, address, token := a.signup("alice")

	status, body := a.do(http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_session", body["error"])

	status, body = a.do(http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, address, body["address"])
	assert.NotContains(t, body, "password_hash")

	status, body = a.do(http.MethodPost, "/api/v1/sessions", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credential", body["error"])

	status, body = a.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"username": "alice", "email": "x@example.com", "password": "p", "confirm_password": "p",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate_username", body["error"])

	status, _ = a.do(http.MethodDelete, "/api/v1/sessions", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = a.do(http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_RelinkAddress(t *testing.T) {
	a := newAPI(t)
	_, _, token := a.signup("alice")

	fresh := "0x" + strings.Repeat("1f", 20)
	status, body := a.do(http.MethodPut, "/api/v1/me/address", token, map[string]string{"address": fresh})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, fresh, body["address"])

	status, body = a.do(http.MethodPut, "/api/v1/me/address", token, map[string]string{"address": "0x12"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_address_format", body["error"])
}

func TestRouter_ImageUpload(t *testing.T) {
	a := newAPI(t)
	_, _, token := a.signup("alice")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPut, a.srv.URL+"/api/v1/me/image", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	status, body := a.send(req)
	require.Equal(t, http.StatusOK, status, body)
	url := body["profile_image"].(string)
	assert.True(t, strings.HasPrefix(url, "/images/profiles/"))

	resp, err := a.srv.Client().Get(a.srv.URL + url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))

	status, _ = a.do(http.MethodGet, "/images/profiles/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_BadInput(t *testing.T) {
	a := newAPI(t)
	_, _, token := a.signup("alice")

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
	}{
		{name: "bad parcel id", method: http.MethodGet, path: "/api/v1/parcels/not-a-uuid", wantCode: http.StatusBadRequest},
		{name: "unknown parcel", method: http.MethodGet, path: "/api/v1/parcels/6f1c1f5e-8c55-4a53-9f38-5d9f35f0c2a1", wantCode: http.StatusNotFound},
		{name: "bad for_sale", method: http.MethodGet, path: "/api/v1/parcels?for_sale=maybe", wantCode: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/api/v1/parcels", body: map[string]any{"owner_id": "x"}, wantCode: http.StatusBadRequest},
		{name: "bad reference", method: http.MethodGet, path: "/api/v1/transfers/0x12", wantCode: http.StatusBadRequest},
		{name: "unknown reference", method: http.MethodGet, path: "/api/v1/transfers/0x" + strings.Repeat("a", 64), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := a.do(tt.method, tt.path, token, tt.body)
			assert.Equal(t, tt.wantCode, status)
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	resp, err := a.srv.Client().Get(a.srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	a.signup("alice")

	resp, err = a.srv.Client().Get(a.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "landregistry_registrations_total")
	assert.Contains(t, string(data), `route="/api/v1/users"`)
}
