package config

import "time"

// Token defaults. Name, version, chain ID and ledger address feed the
// EIP-712 domain separator, so changing any of them after permits have
// been signed invalidates those signatures.
const (
	DefaultTokenName     = "BTCX Digital Currency"
	DefaultTokenSymbol   = "BTCX"
	DefaultTokenDecimals = uint8(18)
	DefaultTokenVersion  = "1"
	DefaultChainID       = uint64(1)
	DefaultLedgerAddress = "0x0000000000000000000000000000000000000000"

	DefaultListenAddr = "127.0.0.1:8720"
)

// DefaultInitialSupply is the fixed supply minted at initialization when
// no explicit amount is given: 1.2 billion tokens at 18 decimals.
const DefaultInitialSupply = "1200000000000000000000000000"

// Timeout constants shared by cmd and the server package.
const (
	ServerShutdownTimeout = 5 * time.Second
	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 30 * time.Second
)
