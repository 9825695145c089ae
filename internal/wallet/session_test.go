package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateSession redirects the session file into a temp dir via
// XDG_CACHE_HOME so tests never touch the real user cache.
func isolateSession(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func TestSessionPutGet(t *testing.T) {
	isolateSession(t)

	_, ok := GetSessionKey("btcx.signer")
	assert.False(t, ok)

	PutSessionKey("btcx.signer", testPrivKeyHex)

	got, ok := GetSessionKey("btcx.signer")
	require.True(t, ok)
	assert.Equal(t, testPrivKeyHex, got)
	assert.True(t, SessionActive())
}

func TestSessionRemove(t *testing.T) {
	isolateSession(t)
	PutSessionKey("btcx.a", "aa")
	PutSessionKey("btcx.b", "bb")

	RemoveSessionKey("btcx.a")

	_, ok := GetSessionKey("btcx.a")
	assert.False(t, ok)
	_, ok = GetSessionKey("btcx.b")
	assert.True(t, ok, "other entries survive")
}

func TestSessionClear(t *testing.T) {
	isolateSession(t)
	PutSessionKey("btcx.x", "xx")
	require.True(t, SessionActive())

	require.NoError(t, ClearSession())
	assert.False(t, SessionActive())

	// Clearing an absent session is a no-op.
	require.NoError(t, ClearSession())
}
