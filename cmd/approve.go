package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var (
	approveOwner string
	approveYes   bool
)

var approveCmd = &cobra.Command{
	Use:   "approve <spender> <amount>",
	Short: "Authorize a spender to move your tokens",
	Long: `Set the amount a spender may move out of your balance. A new
approval replaces the previous one; it does not add to it. Pass "max"
for an unlimited allowance, or 0 to revoke.

Examples:
  btcx approve exchange-hot 5000
  btcx approve 0x7099... max
  btcx approve 0x7099... 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spender, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		amount, err := parseUnits(args[1], cfg.TokenDecimals)
		if err != nil {
			return err
		}

		w, _, err := loadSigningWallet(approveOwner)
		if err != nil {
			return err
		}
		owner, err := resolveAccount(w.Address)
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

		rendered := formatUnits(amount, cfg.TokenDecimals)
		if !approveYes && rendered == "unlimited" {
			if !ui.ConfirmDanger(fmt.Sprintf("Grant %s an UNLIMITED allowance?", ui.TruncateAddress(spender.Hex()))) {
				fmt.Println(ui.StyleMeta.Render("aborted"))
				return nil
			}
		}

		if err := l.Approve(owner, spender, amount); err != nil {
			return err
		}
		if err := saveLedger(l); err != nil {
			return err
		}

		fmt.Println(ui.StyleSuccess.Render("✓ approval set"))
		fmt.Printf("  %s may spend %s %s\n",
			ui.StyleAddress.Render(spender.Hex()),
			ui.StyleValue.Render(rendered),
			ui.StyleToken.Render(cfg.TokenSymbol))
		return nil
	},
}

func init() {
	approveCmd.Flags().StringVar(&approveOwner, "from", "", "owner wallet (default: configured default wallet)")
	approveCmd.Flags().BoolVarP(&approveYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(approveCmd)
}
