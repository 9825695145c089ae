package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/wallet"
)

// PermitPayload is the portable form of a signed approval. It carries
// everything a submitter needs; the signature binds it to this token's
// signing domain.
type PermitPayload struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Value     string `json:"value"` // base units, decimal
	Nonce     uint64 `json:"nonce"`
	Deadline  uint64 `json:"deadline"` // unix seconds
	Signature string `json:"signature"`
}

var (
	permitSignFrom     string
	permitSignDeadline string
	permitSignOut      string
)

var permitCmd = &cobra.Command{
	Use:   "permit",
	Short: "Sign and submit signature-authorized approvals",
	Long: `Permits let an owner authorize a spender without submitting the
approval themselves: the owner signs an approval offline, hands the
signed payload to anyone, and that party submits it. Each payload is
bound to this token, usable once, and expires at its deadline.`,
}

var permitSignCmd = &cobra.Command{
	Use:   "sign <spender> <amount>",
	Short: "Sign a permit payload offline",
	Long: `Sign an approval for a spender without touching the ledger. The
payload is printed as JSON (or written with -o) and can be submitted
later by anyone via "btcx permit submit".

The deadline accepts a duration ("24h", "30m") or a unix timestamp.

Examples:
  btcx permit sign exchange-hot 5000 --deadline 24h
  btcx permit sign 0x7099... max --deadline 1767225600 -o permit.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spender, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		value, err := parseUnits(args[1], cfg.TokenDecimals)
		if err != nil {
			return err
		}
		deadline, err := parseDeadline(permitSignDeadline)
		if err != nil {
			return err
		}

		w, ks, err := loadSigningWallet(permitSignFrom)
		if err != nil {
			return err
		}
		owner, err := resolveAccount(w.Address)
		if err != nil {
			return err
		}

		l, _, err := openLedger(false)
		if err != nil {
			return err
		}

		nonce := l.Nonces(owner)
		digest := l.PermitDigest(owner, spender, value, nonce, deadline)

		warnIfNoSession()
		sig, err := wallet.SignDigest(w, ks, digest)
		if err != nil {
			return err
		}

		payload := PermitPayload{
			Owner:     owner.Hex(),
			Spender:   spender.Hex(),
			Value:     value.Dec(),
			Nonce:     nonce,
			Deadline:  deadline,
			Signature: "0x" + hex.EncodeToString(sig),
		}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}

		if permitSignOut != "" {
			if err := os.WriteFile(permitSignOut, append(out, '\n'), 0o600); err != nil {
				return err
			}
			fmt.Println(ui.StyleSuccess.Render("✓ permit written to " + permitSignOut))
		} else {
			fmt.Println(string(out))
		}
		fmt.Println(ui.StyleMeta.Render(fmt.Sprintf("expires %s (nonce %d)",
			time.Unix(int64(deadline), 0).UTC().Format(time.RFC3339), nonce)))
		return nil
	},
}

var permitSubmitCmd = &cobra.Command{
	Use:   "submit <payload.json>",
	Short: "Submit a signed permit to the ledger",
	Long: `Apply a signed permit payload. On success the owner's allowance to
the spender is set to the signed value and the owner's nonce advances,
so the same payload can never be applied twice.

Pass "-" to read the payload from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = os.ReadFile("/dev/stdin")
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		var payload PermitPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("invalid permit payload: %w", err)
		}
		owner, err := resolveAccount(payload.Owner)
		if err != nil {
			return err
		}
		spender, err := resolveAccount(payload.Spender)
		if err != nil {
			return err
		}
		value, err := uint256.FromDecimal(payload.Value)
		if err != nil {
			return fmt.Errorf("invalid permit value %q", payload.Value)
		}
		sig, err := hex.DecodeString(strings.TrimPrefix(payload.Signature, "0x"))
		if err != nil {
			return fmt.Errorf("invalid signature encoding: %w", err)
		}

		l, store, err := openLedger(true)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := requireInitialized(l); err != nil {
			return err
		}

		if err := l.Permit(owner, spender, value, payload.Deadline, sig); err != nil {
			return err
		}
		if err := saveLedger(l); err != nil {
			return err
		}

		fmt.Println(ui.StyleSuccess.Render("✓ permit accepted"))
		fmt.Printf("  %s may spend %s %s of %s\n",
			ui.StyleAddress.Render(ui.TruncateAddress(spender.Hex())),
			ui.StyleValue.Render(formatUnits(value, cfg.TokenDecimals)),
			ui.StyleToken.Render(cfg.TokenSymbol),
			ui.StyleAddress.Render(ui.TruncateAddress(owner.Hex())))
		return nil
	},
}

// parseDeadline accepts a duration from now ("24h") or an absolute unix
// timestamp in seconds.
func parseDeadline(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("--deadline is required")
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("deadline duration must be positive")
		}
		return uint64(time.Now().Add(d).Unix()), nil
	}
	ts, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid deadline %q: want a duration (24h) or unix seconds", s)
	}
	return ts, nil
}

func init() {
	permitSignCmd.Flags().StringVar(&permitSignFrom, "from", "", "owner wallet (default: configured default wallet)")
	permitSignCmd.Flags().StringVar(&permitSignDeadline, "deadline", "", "permit expiry: duration from now or unix seconds")
	permitSignCmd.Flags().StringVarP(&permitSignOut, "out", "o", "", "write the payload to a file instead of stdout")

	permitCmd.AddCommand(permitSignCmd)
	permitCmd.AddCommand(permitSubmitCmd)
	rootCmd.AddCommand(permitCmd)
}
