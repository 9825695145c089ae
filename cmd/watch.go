package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/eventstore"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
)

var watchAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream ledger events live",
	Long: `Connect to a running "btcx serve" instance and stream events as
they happen. Quit with q or ctrl+c.

Examples:
  btcx watch
  btcx watch --addr 10.0.0.5:8720`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := watchAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}
		url := fmt.Sprintf("ws://%s/events/ws", addr)

		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return fmt.Errorf("connecting to %s: %w (is `btcx serve` running?)", url, err)
		}
		defer conn.Close()

		model := ui.WatchModel{
			Token:  cfg.TokenSymbol,
			Status: ui.StatusMsg{Connected: true},
		}
		p := tea.NewProgram(model)

		go func() {
			for {
				var rec eventstore.Record
				if err := conn.ReadJSON(&rec); err != nil {
					p.Send(ui.StatusMsg{Connected: false, ErrMsg: err.Error()})
					return
				}
				p.Send(watchEventMsg(rec))
			}
		}()

		_, err = p.Run()
		return err
	},
}

func watchEventMsg(r eventstore.Record) ui.EventMsg {
	from, to := r.From.Hex(), r.To.Hex()
	if r.Type == ledger.EventApproval {
		from, to = r.Owner.Hex(), r.Spender.Hex()
	}
	return ui.EventMsg{
		Seq:     r.Seq,
		Type:    r.Type,
		From:    ui.TruncateAddress(from),
		To:      ui.TruncateAddress(to),
		Value:   formatUnits(r.Value, cfg.TokenDecimals),
		Symbol:  cfg.TokenSymbol,
		AtLocal: r.Time.Local().Format(time.TimeOnly),
	}
}

func init() {
	watchCmd.Flags().StringVar(&watchAddr, "addr", "", "server address (default: configured listen address)")
	rootCmd.AddCommand(watchCmd)
}
