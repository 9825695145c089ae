package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var allowanceCmd = &cobra.Command{
	Use:   "allowance <owner> <spender>",
	Short: "Show how much a spender may move on an owner's behalf",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		spender, err := resolveAccount(args[1])
		if err != nil {
			return err
		}

		l, _, err := openLedger(false)
		if err != nil {
			return err
		}

		allowance := l.Allowance(owner, spender)
		fmt.Printf("%s → %s\n",
			ui.StyleAddress.Render(ui.TruncateAddress(owner.Hex())),
			ui.StyleAddress.Render(ui.TruncateAddress(spender.Hex())))
		fmt.Printf("  %s %s\n",
			ui.StyleValue.Render(formatUnits(allowance, cfg.TokenDecimals)),
			ui.StyleToken.Render(cfg.TokenSymbol))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(allowanceCmd)
}
