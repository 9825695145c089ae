package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var (
	transferFromSpender string
	transferFromYes     bool
)

var transferFromCmd = &cobra.Command{
	Use:   "transfer-from <owner> <to> <amount>",
	Short: "Move tokens out of an account that approved you",
	Long: `Spend part of an allowance: move tokens from an owner's balance to
a recipient. Your wallet acts as the spender and must hold a sufficient
allowance from the owner. Unlimited allowances are never reduced.

Examples:
  btcx transfer-from treasury alice 250
  btcx transfer-from 0xf39F... 0x7099... 10 --spender exchange-hot`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		to, err := resolveAccount(args[1])
		if err != nil {
			return err
		}
		amount, err := parseUnits(args[2], cfg.TokenDecimals)
		if err != nil {
			return err
		}

		w, _, err := loadSigningWallet(transferFromSpender)
		if err != nil {
			return err
		}
		spender, err := resolveAccount(w.Address)
		if err != nil {
			return err
		}

		l, store, err := openLedger(true)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := requireInitialized(l); err != nil {
			return err
		}

		if !transferFromYes {
			prompt := fmt.Sprintf("Move %s %s from %s to %s?",
				formatUnits(amount, cfg.TokenDecimals), cfg.TokenSymbol,
				ui.TruncateAddress(owner.Hex()), ui.TruncateAddress(to.Hex()))
			if !ui.Confirm(prompt) {
				fmt.Println(ui.StyleMeta.Render("aborted"))
				return nil
			}
		}

		if err := l.TransferFrom(spender, owner, to, amount); err != nil {
			return err
		}
		if err := saveLedger(l); err != nil {
			return err
		}

		fmt.Println(ui.StyleSuccess.Render("✓ delegated transfer complete"))
		fmt.Printf("  %s %s: %s → %s\n",
			ui.StyleValue.Render(formatUnits(amount, cfg.TokenDecimals)),
			ui.StyleToken.Render(cfg.TokenSymbol),
			ui.StyleAddress.Render(ui.TruncateAddress(owner.Hex())),
			ui.StyleAddress.Render(ui.TruncateAddress(to.Hex())))
		fmt.Printf("  remaining allowance: %s\n",
			ui.StyleValue.Render(formatUnits(l.Allowance(owner, spender), cfg.TokenDecimals)))
		return nil
	},
}

func init() {
	transferFromCmd.Flags().StringVar(&transferFromSpender, "spender", "", "spending wallet (default: configured default wallet)")
	transferFromCmd.Flags().BoolVarP(&transferFromYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(transferFromCmd)
}
