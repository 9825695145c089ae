package wallet

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signingWallet(t *testing.T, ks KeystoreBackend) *Wallet {
	t.Helper()
	ref, err := ks.Store("signer", testPrivKeyHex)
	require.NoError(t, err)
	return &Wallet{Name: "signer", Address: testSignerAddr, Type: TypeSigning, KeyRef: ref}
}

// ---------------------------------------------------------------------------
// SignDigest + Recoverer — round-trip
// ---------------------------------------------------------------------------

func TestSignDigestRoundTrip(t *testing.T) {
	ks := NewInMemoryKeystore()
	w := signingWallet(t, ks)
	digest := crypto.Keccak256Hash([]byte("permit test digest"))

	sig, err := SignDigest(w, ks, digest)
	require.NoError(t, err)
	assert.Len(t, sig, 65, "signature must be 65 bytes")
	assert.Contains(t, []byte{27, 28}, sig[64], "V must be in 27/28 form")

	recovered, err := Recoverer{}.Recover(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, recovered.Hex(), "recovered address must match signer")
}

func TestRecoverer_AcceptsRawVForm(t *testing.T) {
	ks := NewInMemoryKeystore()
	w := signingWallet(t, ks)
	digest := crypto.Keccak256Hash([]byte("raw v"))

	sig, err := SignDigest(w, ks, digest)
	require.NoError(t, err)
	sig[64] -= 27 // the 0/1 form some tooling emits

	recovered, err := Recoverer{}.Recover(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, recovered.Hex())
}

func TestSignDigest_WatchOnlyRefuses(t *testing.T) {
	ks := NewInMemoryKeystore()
	w := &Wallet{Name: "watcher", Address: testSignerAddr, Type: TypeWatchOnly}

	_, err := SignDigest(w, ks, common.Hash{})
	assert.ErrorContains(t, err, "watch-only")
}

func TestSignDigest_MissingKey(t *testing.T) {
	ks := NewInMemoryKeystore()
	w := &Wallet{Name: "ghost", Address: testSignerAddr, Type: TypeSigning, KeyRef: "btcx.ghost"}

	_, err := SignDigest(w, ks, common.Hash{})
	assert.ErrorContains(t, err, "retrieving key")
}

// ---------------------------------------------------------------------------
// Recoverer — malformed input
// ---------------------------------------------------------------------------

func TestRecoverer_WrongLength(t *testing.T) {
	_, err := Recoverer{}.Recover(common.Hash{}, []byte{1, 2, 3})
	assert.ErrorContains(t, err, "invalid signature length")
}

func TestRecoverer_ZeroSignature(t *testing.T) {
	_, err := Recoverer{}.Recover(common.Hash{}, make([]byte, 65))
	assert.Error(t, err, "all-zero R/S must be rejected")
}

func TestRecoverer_BadV(t *testing.T) {
	ks := NewInMemoryKeystore()
	w := signingWallet(t, ks)
	digest := crypto.Keccak256Hash([]byte("bad v"))

	sig, err := SignDigest(w, ks, digest)
	require.NoError(t, err)
	sig[64] = 99

	_, err = Recoverer{}.Recover(digest, sig)
	assert.Error(t, err)
}

func TestRecoverer_TamperedDigestRecoversDifferentAddress(t *testing.T) {
	ks := NewInMemoryKeystore()
	w := signingWallet(t, ks)

	sig, err := SignDigest(w, ks, crypto.Keccak256Hash([]byte("original")))
	require.NoError(t, err)

	recovered, err := Recoverer{}.Recover(crypto.Keccak256Hash([]byte("tampered")), sig)
	if err == nil {
		assert.NotEqual(t, testSignerAddr, recovered.Hex(),
			"a signature over different bytes must not recover the signer")
	}
}
