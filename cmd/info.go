package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show token parameters and signing domain",
	Long: `Show the token's identity: name, symbol, decimals, the signing
domain parameters (version, chain ID, verifying address) and the
resulting EIP-712 domain separator.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(false)
		if err != nil {
			return err
		}
		p := l.Params()

		fmt.Println(ui.StyleTitle.Render(p.Name))
		rows := [][2]string{
			{"Symbol", p.Symbol},
			{"Decimals", fmt.Sprintf("%d", p.Decimals)},
			{"Version", p.Version},
			{"Chain ID", fmt.Sprintf("%d", p.ChainID)},
			{"Address", p.Address.Hex()},
			{"Domain separator", l.DomainSeparator().Hex()},
		}
		if l.Initialized() {
			rows = append(rows, [2]string{
				"Total supply",
				formatUnits(l.TotalSupply(), p.Decimals) + " " + p.Symbol,
			})
		} else {
			rows = append(rows, [2]string{"Total supply", "not initialized"})
		}
		for _, r := range rows {
			fmt.Printf("  %-18s %s\n", ui.StyleMeta.Render(r[0]), r[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
