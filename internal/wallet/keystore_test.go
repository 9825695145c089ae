package wallet

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKeystore returns a file-backed Keystore isolated to a temp directory.
// Using the FileBackend avoids OS keychain prompts in CI.
func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      "btcx-test",
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: func(string) (string, error) { return "testpass", nil },
	})
	require.NoError(t, err)
	return &Keystore{ring: ring}
}

func TestKeystoreStoreRetrieve(t *testing.T) {
	ks := testKeystore(t)

	ref, err := ks.Store("signer", testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, "btcx.signer", ref)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)
}

func TestKeystoreRetrieveMissing(t *testing.T) {
	ks := testKeystore(t)
	_, err := ks.Retrieve("btcx.doesnotexist")
	assert.Error(t, err)
}

func TestKeystoreDelete(t *testing.T) {
	ks := testKeystore(t)
	ref, err := ks.Store("gone", testPrivKeyHex)
	require.NoError(t, err)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}

func TestKeystoreNilRing(t *testing.T) {
	ks := &Keystore{ring: nil}

	ref, err := ks.Store("x", testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, "x", ref, "nil ring falls back to the bare name")

	_, err = ks.Retrieve(ref)
	assert.ErrorContains(t, err, "keystore not available")
	assert.NoError(t, ks.Delete(ref))
}

func TestInMemoryKeystoreRoundTrip(t *testing.T) {
	ks := NewInMemoryKeystore()

	ref, err := ks.Store("mem", testPrivKeyHex)
	require.NoError(t, err)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}
