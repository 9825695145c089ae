// Package config loads and persists btcx configuration: token parameters
// that feed the ledger's EIP-712 domain, file locations for the state
// snapshot and the event database, and CLI defaults. Everything lives as
// JSON files under one dot-directory (default ~/.btcx).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configFile  = "config.json"
	walletsFile = "wallets.json"
	stateFile   = "state.json"
	eventsFile  = "events.db"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.btcx.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".btcx")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the wallets file location.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// StatePath returns the ledger snapshot location.
func (c *Config) StatePath() string {
	return filepath.Join(c.configDir, stateFile)
}

// EventsDBPath returns the event database location.
func (c *Config) EventsDBPath() string {
	return filepath.Join(c.configDir, eventsFile)
}

// LoadState reads the persisted ledger snapshot into v. Returns
// (false, nil) when no snapshot exists yet.
func (c *Config) LoadState(v any) (bool, error) {
	data, err := os.ReadFile(c.StatePath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading state: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing state: %w", err)
	}
	return true, nil
}

// SaveState writes the ledger snapshot to disk.
func (c *Config) SaveState(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.StatePath(), data, 0o600)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		TokenName:     DefaultTokenName,
		TokenSymbol:   DefaultTokenSymbol,
		TokenDecimals: DefaultTokenDecimals,
		TokenVersion:  DefaultTokenVersion,
		ChainID:       DefaultChainID,
		LedgerAddress: DefaultLedgerAddress,
		ListenAddr:    DefaultListenAddr,
		configDir:     dir,
	}
}
