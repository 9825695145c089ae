package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultTokenName, cfg.TokenName)
	assert.Equal(t, DefaultTokenSymbol, cfg.TokenSymbol)
	assert.Equal(t, DefaultTokenDecimals, cfg.TokenDecimals)
	assert.Equal(t, DefaultChainID, cfg.ChainID)
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	cfg.DefaultWallet = "treasury"
	cfg.ChainID = 8453
	require.NoError(t, cfg.Save())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "treasury", reloaded.DefaultWallet)
	assert.Equal(t, uint64(8453), reloaded.ChainID)
}

func TestLoadCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{oops"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
	assert.Equal(t, filepath.Join(dir, "state.json"), cfg.StatePath())
	assert.Equal(t, filepath.Join(dir, "events.db"), cfg.EventsDBPath())
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	type state struct {
		Supply string `json:"supply"`
	}

	var got state
	found, err := cfg.LoadState(&got)
	require.NoError(t, err)
	assert.False(t, found, "no snapshot before first save")

	require.NoError(t, cfg.SaveState(state{Supply: "42"}))

	found, err = cfg.LoadState(&got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "42", got.Supply)
}
