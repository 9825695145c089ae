package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
	Long: `Create, import, and manage the wallets that hold and sign for
tokens. Signing keys live in the OS keychain; the wallets file only
holds addresses and metadata.`,
}

var walletCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new signing wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		key, err := crypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("generating key: %w", err)
		}
		hexKey := hex.EncodeToString(crypto.FromECDSA(key))

		m := walletManager()
		if err := m.AddWithKey(name, hexKey); err != nil {
			return err
		}
		w, err := m.Get(name)
		if err != nil {
			return err
		}

		fmt.Println(ui.StyleSuccess.Render("✓ wallet created"))
		fmt.Printf("  %s  %s\n", ui.StyleValue.Render(name), ui.StyleAddress.Render(w.Address))
		maybeSetFirstDefault(m, name)
		return nil
	},
}

var walletImportCmd = &cobra.Command{
	Use:   "import <name> <private-key-hex>",
	Short: "Import a signing wallet from a private key",
	Long: `Import an existing secp256k1 private key. The key goes straight
into the OS keychain; prefer pasting it here over leaving it in shell
history or files.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		m := walletManager()
		if err := m.AddWithKey(name, args[1]); err != nil {
			return err
		}
		w, err := m.Get(name)
		if err != nil {
			return err
		}

		fmt.Println(ui.StyleSuccess.Render("✓ wallet imported"))
		fmt.Printf("  %s  %s\n", ui.StyleValue.Render(name), ui.StyleAddress.Render(w.Address))
		maybeSetFirstDefault(m, name)
		return nil
	},
}

var walletWatchCmd = &cobra.Command{
	Use:   "add-watch <name> <address>",
	Short: "Add a watch-only wallet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		addr, err := resolveAccount(args[1])
		if err != nil {
			return err
		}
		m := walletManager()
		err = m.Add(name, &wallet.Wallet{
			Name:    name,
			Address: addr.Hex(),
			Type:    wallet.TypeWatchOnly,
		})
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleSuccess.Render("✓ watch-only wallet added"))
		fmt.Printf("  %s  %s\n", ui.StyleValue.Render(name), ui.StyleAddress.Render(addr.Hex()))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets := walletManager().List()
		if len(wallets) == 0 {
			fmt.Println(ui.StyleMeta.Render("no wallets — run `btcx wallet create <name>`"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "NAME", Width: 16},
			{Title: "ADDRESS", Width: 44},
			{Title: "TYPE", Width: 12},
			{Title: "DEFAULT", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, w.Type, def})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var walletRemoveYes bool

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !walletRemoveYes && !ui.ConfirmDanger(fmt.Sprintf("Remove wallet %q and delete its key?", name)) {
			fmt.Println(ui.StyleMeta.Render("aborted"))
			return nil
		}
		if err := walletManager().Remove(name); err != nil {
			return err
		}
		fmt.Println(ui.StyleSuccess.Render("✓ wallet removed"))
		return nil
	},
}

var walletDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := walletManager().SetDefault(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.StyleSuccess.Render("✓ default wallet: " + args[0]))
		return nil
	},
}

var walletUnlockCmd = &cobra.Command{
	Use:   "unlock [name]",
	Short: "Cache a wallet's key for this session",
	Long: `Fetch a wallet's key from the OS keychain once and cache it for
the current session, so repeated signing commands don't re-prompt.
Clear the cache with "btcx wallet lock".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		w, _, err := loadSigningWallet(name)
		if err != nil {
			return err
		}

		hexKey, err := wallet.DefaultKeystore().Retrieve(w.KeyRef)
		if err != nil {
			return fmt.Errorf("retrieving key for %q: %w", w.Name, err)
		}
		wallet.PutSessionKey(w.KeyRef, hexKey)

		fmt.Println(ui.StyleSuccess.Render("✓ wallet unlocked: " + w.Name))
		fmt.Println(ui.StyleMeta.Render("key cached until `btcx wallet lock`"))
		return nil
	},
}

var walletLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Clear all session-cached keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wallet.ClearSession(); err != nil {
			return err
		}
		fmt.Println(ui.StyleSuccess.Render("✓ session cleared"))
		return nil
	},
}

// maybeSetFirstDefault promotes the only wallet to default so the first
// signing command works without flags.
func maybeSetFirstDefault(m *wallet.Manager, name string) {
	if len(m.List()) == 1 {
		if err := m.SetDefault(name); err == nil {
			fmt.Println(ui.StyleMeta.Render("set as default wallet"))
		}
	}
}

func init() {
	walletRemoveCmd.Flags().BoolVarP(&walletRemoveYes, "yes", "y", false, "skip confirmation prompt")

	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletWatchCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletRemoveCmd)
	walletCmd.AddCommand(walletDefaultCmd)
	walletCmd.AddCommand(walletUnlockCmd)
	walletCmd.AddCommand(walletLockCmd)
	rootCmd.AddCommand(walletCmd)
}
