package cmd

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/eventstore"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var (
	eventsType    string
	eventsAddress string
	eventsAfter   uint64
	eventsLimit   int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded ledger events",
	Long: `List events from the durable log, oldest first. Filter by type,
by address (matches sender, recipient, owner, or spender), or by
sequence number.

Examples:
  btcx events --limit 20
  btcx events --type transfer --address treasury
  btcx events --after 1500`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var addr common.Address
		if eventsAddress != "" {
			var err error
			addr, err = resolveAccount(eventsAddress)
			if err != nil {
				return err
			}
		}

		store, err := eventstore.NewStore(cfg.EventsDBPath())
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(eventstore.Filter{
			Type:     eventsType,
			Address:  addr,
			AfterSeq: eventsAfter,
			Limit:    eventsLimit,
		})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println(ui.StyleMeta.Render("no events"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "SEQ", Width: 6},
			{Title: "TYPE", Width: 12},
			{Title: "FROM/OWNER", Width: 14},
			{Title: "TO/SPENDER", Width: 14},
			{Title: "AMOUNT", Width: 24},
			{Title: "TIME", Width: 20},
		})
		for _, r := range records {
			t.AddRow(eventRow(r))
		}
		fmt.Println(t.Render())
		return nil
	},
}

func eventRow(r eventstore.Record) ui.Row {
	left, right := r.From.Hex(), r.To.Hex()
	if r.Type == ledger.EventApproval {
		left, right = r.Owner.Hex(), r.Spender.Hex()
	}
	return ui.Row{
		fmt.Sprintf("%d", r.Seq),
		r.Type,
		ui.TruncateAddress(left),
		ui.TruncateAddress(right),
		formatUnits(r.Value, cfg.TokenDecimals),
		r.Time.Local().Format(time.DateTime),
	}
}

func init() {
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "event type: transfer, approval, initialized")
	eventsCmd.Flags().StringVar(&eventsAddress, "address", "", "only events touching this wallet or address")
	eventsCmd.Flags().Uint64Var(&eventsAfter, "after", 0, "only events with a higher sequence number")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum rows (0 = all)")
	rootCmd.AddCommand(eventsCmd)
}
