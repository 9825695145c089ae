package cmd

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.StyleTitle.Render("Configuration"))
		rows := [][2]string{
			{"data dir", cfg.Dir()},
			{"token.name", cfg.TokenName},
			{"token.symbol", cfg.TokenSymbol},
			{"token.decimals", fmt.Sprintf("%d", cfg.TokenDecimals)},
			{"token.version", cfg.TokenVersion},
			{"chain-id", fmt.Sprintf("%d", cfg.ChainID)},
			{"ledger-address", cfg.LedgerAddress},
			{"default-wallet", cfg.DefaultWallet},
			{"listen-addr", cfg.ListenAddr},
		}
		for _, r := range rows {
			fmt.Printf("  %-16s %s\n", ui.StyleMeta.Render(r[0]), r[1])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration key. Keys: token.name, token.symbol,
token.decimals, token.version, chain-id, ledger-address,
default-wallet, listen-addr.

Changing a domain parameter (name, version, chain-id, ledger-address)
invalidates any permit signed under the old values.

Examples:
  btcx config set default-wallet treasury
  btcx config set listen-addr 0.0.0.0:8720`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case "token.name":
			cfg.TokenName = value
		case "token.symbol":
			cfg.TokenSymbol = value
		case "token.decimals":
			d, err := strconv.ParseUint(value, 10, 8)
			if err != nil {
				return fmt.Errorf("invalid decimals %q", value)
			}
			cfg.TokenDecimals = uint8(d)
		case "token.version":
			cfg.TokenVersion = value
		case "chain-id":
			id, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chain id %q", value)
			}
			cfg.ChainID = id
		case "ledger-address":
			if !common.IsHexAddress(value) {
				return fmt.Errorf("invalid address %q", value)
			}
			cfg.LedgerAddress = common.HexToAddress(value).Hex()
		case "default-wallet":
			if _, err := walletManager().Get(value); err != nil {
				return fmt.Errorf("unknown wallet %q", value)
			}
			cfg.DefaultWallet = value
		case "listen-addr":
			cfg.ListenAddr = value
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ %s = %s", key, value)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
