package config

// Config holds all btcx configuration.
type Config struct {
	TokenName     string `json:"token_name"`
	TokenSymbol   string `json:"token_symbol"`
	TokenDecimals uint8  `json:"token_decimals"`
	TokenVersion  string `json:"token_version"` // EIP-712 domain version tag
	ChainID       uint64 `json:"chain_id"`
	LedgerAddress string `json:"ledger_address"` // verifying-contract address in the domain separator

	DefaultWallet string `json:"default_wallet"`
	ListenAddr    string `json:"listen_addr"` // btcx serve bind address

	// internal: config dir path used for Save()
	configDir string
}
