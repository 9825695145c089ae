package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0 — never fund on mainnet.
const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func testManager() *Manager {
	return NewManager(WithInMemoryStore(), WithKeystore(NewInMemoryKeystore()))
}

// ---------------------------------------------------------------------------
// Add / Get / Remove
// ---------------------------------------------------------------------------

func TestManagerAddAndGet(t *testing.T) {
	m := testManager()

	require.NoError(t, m.Add("watcher", &Wallet{
		Name:    "watcher",
		Address: testSignerAddr,
		Type:    TypeWatchOnly,
	}))

	w, err := m.Get("watcher")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, w.Address)
	assert.Equal(t, TypeWatchOnly, w.Type)
	assert.NotEmpty(t, w.CreatedAt)
}

func TestManagerAddDuplicate(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Add("w", &Wallet{Name: "w", Type: TypeWatchOnly}))

	err := m.Add("w", &Wallet{Name: "w", Type: TypeWatchOnly})
	assert.ErrorIs(t, err, ErrWalletExists)
}

func TestManagerGetMissing(t *testing.T) {
	m := testManager()
	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestManagerAddWithKey_DerivesAddress(t *testing.T) {
	m := testManager()

	require.NoError(t, m.AddWithKey("signer", testPrivKeyHex))

	w, err := m.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, w.Address, "address is derived from the key")
	assert.Equal(t, TypeSigning, w.Type)
	assert.NotEmpty(t, w.KeyRef)
}

func TestManagerAddWithKey_AcceptsHexPrefix(t *testing.T) {
	m := testManager()
	require.NoError(t, m.AddWithKey("signer", "0x"+testPrivKeyHex))

	w, err := m.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, w.Address)
}

func TestManagerAddWithKey_RejectsGarbage(t *testing.T) {
	m := testManager()
	err := m.AddWithKey("bad", "not-a-key")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestManagerRemove_DeletesKey(t *testing.T) {
	ks := NewInMemoryKeystore()
	m := NewManager(WithInMemoryStore(), WithKeystore(ks))
	require.NoError(t, m.AddWithKey("signer", testPrivKeyHex))
	w, err := m.Get("signer")
	require.NoError(t, err)

	require.NoError(t, m.Remove("signer"))

	_, err = m.Get("signer")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	_, err = ks.Retrieve(w.KeyRef)
	assert.Error(t, err, "key must be gone from the keystore")
}

// ---------------------------------------------------------------------------
// Default wallet
// ---------------------------------------------------------------------------

func TestManagerSetDefault(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Add("a", &Wallet{Name: "a", Type: TypeWatchOnly}))
	require.NoError(t, m.Add("b", &Wallet{Name: "b", Type: TypeWatchOnly}))

	require.NoError(t, m.SetDefault("b"))

	d := m.Default()
	require.NotNil(t, d)
	assert.Equal(t, "b", d.Name)
}

func TestManagerDefault_SingleWalletFallback(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Add("only", &Wallet{Name: "only", Type: TypeWatchOnly}))

	d := m.Default()
	require.NotNil(t, d)
	assert.Equal(t, "only", d.Name)
}

func TestManagerDefault_NoneReturnsNil(t *testing.T) {
	m := testManager()
	assert.Nil(t, m.Default())
}

// ---------------------------------------------------------------------------
// JSONStore persistence
// ---------------------------------------------------------------------------

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewJSONStore(path)

	m := NewManager(WithStore(store), WithKeystore(NewInMemoryKeystore()))
	require.NoError(t, m.Add("w", &Wallet{Name: "w", Address: testSignerAddr, Type: TypeWatchOnly}))

	// Fresh manager over the same file sees the wallet.
	m2 := NewManager(WithStore(NewJSONStore(path)), WithKeystore(NewInMemoryKeystore()))
	w, err := m2.Get("w")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, w.Address)
}

func TestJSONStoreMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "absent.json"))
	wallets, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

	_, err := NewJSONStore(path).Load()
	assert.Error(t, err)
}
