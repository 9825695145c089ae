package cmd

import (
	"fmt"
	"os"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/config"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/BTCX-Investment-Ltd/btcx-digital-currency/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "btcx",
	Short: "BTCX fixed-supply token ledger",
	Long: `btcx — the BTCX Digital Currency ledger.

  A fixed-supply token ledger with delegated transfers and
  signature-authorized approvals (EIP-2612 permit semantics).
  State lives in a local snapshot; every transfer and approval is
  recorded to a durable event log.

Common flows:
  btcx init                      initialize the supply once
  btcx transfer <to> <amount>    move tokens
  btcx permit sign / submit      gasless-style approvals via signature
  btcx serve                     expose the ledger over HTTP`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "data-dir", "", "data directory (default ~/.btcx)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
