package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var (
	transferFrom string
	transferYes  bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "Transfer tokens to another account",
	Long: `Transfer tokens from your wallet to another account. The recipient
may be a wallet name or a raw address; the amount is in whole tokens.

Examples:
  btcx transfer alice 100
  btcx transfer 0x7099... 0.5 --from treasury`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		amount, err := parseUnits(args[1], cfg.TokenDecimals)
		if err != nil {
			return err
		}

		w, _, err := loadSigningWallet(transferFrom)
		if err != nil {
			return err
		}
		from, err := resolveAccount(w.Address)
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

		if !transferYes {
			prompt := fmt.Sprintf("Send %s %s from %s to %s?",
				formatUnits(amount, cfg.TokenDecimals), cfg.TokenSymbol,
				ui.TruncateAddress(from.Hex()), ui.TruncateAddress(to.Hex()))
			if !ui.Confirm(prompt) {
				fmt.Println(ui.StyleMeta.Render("aborted"))
				return nil
			}
		}

		sp := ui.NewSpinner("transferring")
		sp.Start()
		err = l.Transfer(from, to, amount)
		sp.Stop()
		if err != nil {
			return err
		}
		if err := saveLedger(l); err != nil {
			return err
		}

		fmt.Println(ui.StyleSuccess.Render("✓ transfer complete"))
		fmt.Printf("  %s %s → %s\n",
			ui.StyleValue.Render(formatUnits(amount, cfg.TokenDecimals)),
			ui.StyleToken.Render(cfg.TokenSymbol),
			ui.StyleAddress.Render(to.Hex()))
		fmt.Printf("  remaining balance: %s\n",
			ui.StyleValue.Render(formatUnits(l.BalanceOf(from), cfg.TokenDecimals)))
		return nil
	},
}

func init() {
	transferCmd.Flags().StringVar(&transferFrom, "from", "", "sending wallet (default: configured default wallet)")
	transferCmd.Flags().BoolVarP(&transferYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(transferCmd)
}
