package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <account>",
	Short: "Show an account's token balance",
	Long: `Show the balance held by an account. The account may be a wallet
name or a raw address.

Examples:
  btcx balance treasury
  btcx balance 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := resolveAccount(args[0])
		if err != nil {
			return err
		}

		l, _, err := openLedger(false)
		if err != nil {
			return err
		}
		if err := requireInitialized(l); err != nil {
			return err
		}

		bal := l.BalanceOf(account)
		fmt.Printf("%s  %s %s\n",
			ui.StyleAddress.Render(account.Hex()),
			ui.StyleValue.Render(formatUnits(bal, cfg.TokenDecimals)),
			ui.StyleToken.Render(cfg.TokenSymbol))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
