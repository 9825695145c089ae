package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/config"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var (
	initRecipient string
	initSupply    string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the ledger and mint the fixed supply",
	Long: `Mint the entire fixed supply to one recipient. This happens exactly
once; the supply can never increase afterwards.

The recipient may be a wallet name or a raw address. Without --supply the
default of 1,200,000,000 tokens (at 18 decimals) is minted.

Examples:
  btcx init --recipient treasury
  btcx init --recipient 0xf39F... --supply 1000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initRecipient == "" {
			initRecipient = ui.PromptInput("Supply recipient (wallet name or address)")
			if initRecipient == "" {
				return fmt.Errorf("recipient is required")
			}
		}
		recipient, err := resolveAccount(initRecipient)
		if err != nil {
			return err
		}

		supply := uint256.MustFromDecimal(config.DefaultInitialSupply)
		if initSupply != "" {
			supply, err = parseUnits(initSupply, cfg.TokenDecimals)
			if err != nil {
				return err
			}
		}

		l, store, err := openLedger(true)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := l.Initialize(recipient, supply); err != nil {
			return err
		}
		if err := saveLedger(l); err != nil {
			return err
		}

		fmt.Println(ui.StyleSuccess.Render("✓ ledger initialized"))
		fmt.Printf("  %s %s %s\n",
			ui.StyleValue.Render(formatUnits(supply, cfg.TokenDecimals)),
			ui.StyleToken.Render(cfg.TokenSymbol),
			ui.StyleMeta.Render("minted to"))
		fmt.Printf("  %s\n", ui.StyleAddress.Render(recipient.Hex()))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initRecipient, "recipient", "", "wallet name or address receiving the supply")
	initCmd.Flags().StringVar(&initSupply, "supply", "", "initial supply in whole tokens (default 1,200,000,000)")
	rootCmd.AddCommand(initCmd)
}
