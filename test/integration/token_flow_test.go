package integration_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/eventstore"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/server"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/wallet"
)

// Well-known throwaway test key.
const (
	ownerKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	ownerAddr   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	aliceAddr   = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	bobAddr     = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

var supply = uint256.MustFromDecimal("1000000000000000000000") // 1000 tokens

type harness struct {
	ledger *ledger.Ledger
	store  *eventstore.Store
	srv    *httptest.Server

	dataDir string
}

// newHarness wires a full stack the way `btcx serve` does: ledger with a
// SQLite event sink, HTTP API, and a persist hook writing the snapshot
// to disk after every mutation.
func newHarness(t *testing.T, dataDir string) *harness {
	t.Helper()

	store, err := eventstore.NewStore(filepath.Join(dataDir, "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	l := ledger.New(ledger.Params{
		Name:     "BTCX Digital Currency",
		Symbol:   "BTCX",
		Decimals: 18,
		Version:  "1",
		ChainID:  1,
	},
		ledger.WithSink(eventstore.NewSink(store, nil)),
		ledger.WithRecoverer(wallet.Recoverer{}),
	)

	statePath := filepath.Join(dataDir, "state.json")
	if data, err := os.ReadFile(statePath); err == nil {
		var snap ledger.Snapshot
		require.NoError(t, json.Unmarshal(data, &snap))
		require.NoError(t, l.Restore(&snap))
	}

	// Jump past any events the log holds beyond the snapshot, as the CLI
	// does on startup.
	last, err := store.LastSeq()
	require.NoError(t, err)
	l.AdvanceSeq(last)

	persist := func() error {
		data, err := json.Marshal(l.Snapshot())
		if err != nil {
			return err
		}
		return os.WriteFile(statePath, data, 0o600)
	}

	srv := httptest.NewServer(server.New(l, store, nil, persist).Handler())
	t.Cleanup(srv.Close)

	return &harness{ledger: l, store: store, srv: srv, dataDir: dataDir}
}

func (h *harness) post(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(h.srv.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func (h *harness) get(t *testing.T, path string) map[string]any {
	t.Helper()
	resp, err := http.Get(h.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func signPermit(t *testing.T, l *ledger.Ledger, spender common.Address, value *uint256.Int, deadline uint64) string {
	t.Helper()
	key, err := crypto.HexToECDSA(ownerKeyHex)
	require.NoError(t, err)

	owner := common.HexToAddress(ownerAddr)
	digest := l.PermitDigest(owner, spender, value, l.Nonces(owner), deadline)
	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig)
}

func TestTokenLifecycleOverHTTP(t *testing.T) {
	dataDir := t.TempDir()
	h := newHarness(t, dataDir)

	require.NoError(t, h.ledger.Initialize(common.HexToAddress(ownerAddr), supply))

	// Direct transfer: owner → alice.
	resp, out := h.post(t, "/transfer", server.TransferRequest{
		Caller: ownerAddr,
		To:     aliceAddr,
		Amount: "100000000000000000000", // 100 tokens
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["ok"])

	bal := h.get(t, "/balance/"+aliceAddr)
	assert.Equal(t, "100000000000000000000", bal["amount"])

	// Permit: owner authorizes alice by signature, no owner call needed.
	deadline := uint64(time.Now().Add(time.Hour).Unix())
	sig := signPermit(t, h.ledger, common.HexToAddress(aliceAddr),
		uint256.MustFromDecimal("50000000000000000000"), deadline)

	resp, _ = h.post(t, "/permit", server.PermitRequest{
		Owner:     ownerAddr,
		Spender:   aliceAddr,
		Value:     "50000000000000000000",
		Deadline:  deadline,
		Signature: sig,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	allowance := h.get(t, "/allowance/"+ownerAddr+"/"+aliceAddr)
	assert.Equal(t, "50000000000000000000", allowance["amount"])

	nonce := h.get(t, "/nonce/"+ownerAddr)
	assert.Equal(t, float64(1), nonce["nonce"])

	// Alice spends part of the permitted allowance toward bob.
	resp, _ = h.post(t, "/transferfrom", server.TransferFromRequest{
		Spender: aliceAddr,
		From:    ownerAddr,
		To:      bobAddr,
		Amount:  "20000000000000000000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	allowance = h.get(t, "/allowance/"+ownerAddr+"/"+aliceAddr)
	assert.Equal(t, "30000000000000000000", allowance["amount"])

	// Replaying the same permit must fail: the nonce moved on.
	resp, out = h.post(t, "/permit", server.PermitRequest{
		Owner:     ownerAddr,
		Spender:   aliceAddr,
		Value:     "50000000000000000000",
		Deadline:  deadline,
		Signature: sig,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "invalid_signer", out["kind"])

	// Supply is conserved through it all.
	total := h.get(t, "/supply")
	assert.Equal(t, supply.Dec(), total["amount"])
}

func TestStateSurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()

	h := newHarness(t, dataDir)
	require.NoError(t, h.ledger.Initialize(common.HexToAddress(ownerAddr), supply))

	resp, _ := h.post(t, "/transfer", server.TransferRequest{
		Caller: ownerAddr,
		To:     aliceAddr,
		Amount: "250000000000000000000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h.srv.Close()
	h.store.Close()

	// Restart: a fresh stack over the same data directory sees the same
	// balances and the same event log.
	h2 := newHarness(t, dataDir)

	bal := h2.get(t, "/balance/"+aliceAddr)
	assert.Equal(t, "250000000000000000000", bal["amount"])

	total := h2.get(t, "/supply")
	assert.Equal(t, supply.Dec(), total["amount"])

	recs, err := h2.store.List(eventstore.Filter{Type: ledger.EventTransfer})
	require.NoError(t, err)
	require.Len(t, recs, 2) // genesis mint + the transfer
	assert.Equal(t, common.HexToAddress(aliceAddr), recs[1].To)
}

func TestEventLogAheadOfSnapshot(t *testing.T) {
	dataDir := t.TempDir()

	h := newHarness(t, dataDir)
	require.NoError(t, h.ledger.Initialize(common.HexToAddress(ownerAddr), supply))

	// First mutation persists a snapshot; keep a copy of it.
	resp, _ := h.post(t, "/transfer", server.TransferRequest{
		Caller: ownerAddr,
		To:     aliceAddr,
		Amount: "100000000000000000000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	statePath := filepath.Join(dataDir, "state.json")
	stale, err := os.ReadFile(statePath)
	require.NoError(t, err)

	// Second mutation lands in the event log, then the snapshot write is
	// "lost": roll state.json back to the stale copy, as if the process
	// died between event insert and snapshot write.
	resp, _ = h.post(t, "/transfer", server.TransferRequest{
		Caller: ownerAddr,
		To:     bobAddr,
		Amount: "10000000000000000000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, os.WriteFile(statePath, stale, 0o600))

	lastBefore, err := h.store.LastSeq()
	require.NoError(t, err)
	h.srv.Close()
	h.store.Close()

	// Restart over the stale snapshot: new events must continue past the
	// log's last sequence number instead of reusing it.
	h2 := newHarness(t, dataDir)
	resp, _ = h2.post(t, "/transfer", server.TransferRequest{
		Caller: ownerAddr,
		To:     aliceAddr,
		Amount: "5000000000000000000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	recs, err := h2.store.List(eventstore.Filter{AfterSeq: lastBefore})
	require.NoError(t, err)
	require.Len(t, recs, 1, "post-restart event recorded under a fresh sequence number")
	assert.Equal(t, lastBefore+1, recs[0].Seq)
}
