package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var nonceCmd = &cobra.Command{
	Use:   "nonce <account>",
	Short: "Show an account's next permit nonce",
	Long: `Show the nonce an account must sign over in its next permit.
Each accepted permit consumes exactly one nonce.`,
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

		fmt.Printf("%s  nonce %s\n",
			ui.StyleAddress.Render(account.Hex()),
			ui.StyleValue.Render(fmt.Sprintf("%d", l.Nonces(account))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nonceCmd)
}
