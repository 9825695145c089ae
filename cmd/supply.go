package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show the total token supply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(false)
		if err != nil {
			return err
		}
		if err := requireInitialized(l); err != nil {
			return err
		}

		fmt.Printf("%s %s\n",
			ui.StyleValue.Render(formatUnits(l.TotalSupply(), cfg.TokenDecimals)),
			ui.StyleToken.Render(cfg.TokenSymbol))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(supplyCmd)
}
