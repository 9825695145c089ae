// list-holders: reads the persisted ledger snapshot and prints every
// account holding a balance, largest first, with its share of supply.
//
// Run from the module root:
//
//	go run ./scripts/list-holders [path/to/state.json]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/holiman/uint256"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
)

// ── config ────────────────────────────────────────────────────────────────────

const decimals = 18

// ── types ─────────────────────────────────────────────────────────────────────

type holder struct {
	address string
	balance *uint256.Int
	pct     float64
}

// ── main ──────────────────────────────────────────────────────────────────────

func main() {
	path := defaultStatePath()
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading snapshot: %v\n", err)
		os.Exit(1)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "parsing snapshot: %v\n", err)
		os.Exit(1)
	}
	if !snap.Initialized {
		fmt.Fprintln(os.Stderr, "ledger not initialized")
		os.Exit(1)
	}

	supply, err := uint256.FromDecimal(snap.TotalSupply)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad total supply %q: %v\n", snap.TotalSupply, err)
		os.Exit(1)
	}

	holders := make([]holder, 0, len(snap.Balances))
	sum := new(uint256.Int)
	for addr, dec := range snap.Balances {
		bal, err := uint256.FromDecimal(dec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad balance for %s: %v\n", addr, err)
			os.Exit(1)
		}
		sum.Add(sum, bal)
		holders = append(holders, holder{
			address: addr,
			balance: bal,
			pct:     pctOf(bal, supply),
		})
	}

	// Snapshot sanity: balances must add up to the supply.
	if !sum.Eq(supply) {
		fmt.Fprintf(os.Stderr, "WARNING: balances sum to %s, supply is %s\n",
			sum.Dec(), supply.Dec())
	}

	sort.Slice(holders, func(i, j int) bool {
		if c := holders[i].balance.Cmp(holders[j].balance); c != 0 {
			return c > 0
		}
		return holders[i].address < holders[j].address
	})

	printTable(holders, supply)
}

// ── output ────────────────────────────────────────────────────────────────────

func printTable(holders []holder, supply *uint256.Int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "#\tADDRESS\tBALANCE\tSHARE")
	fmt.Fprintln(w, strings.Repeat("-", 4)+"\t"+
		strings.Repeat("-", 42)+"\t"+
		strings.Repeat("-", 24)+"\t"+
		strings.Repeat("-", 8))

	for i, h := range holders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.4f%%\n",
			i+1, h.address, formatUnits(h.balance), h.pct)
	}

	fmt.Fprintln(w, "\t\t\t")
	fmt.Fprintf(w, "\tTOTAL SUPPLY\t%s\t100%%\n", formatUnits(supply))
	w.Flush()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "state.json"
	}
	return filepath.Join(home, ".btcx", "state.json")
}

// pctOf computes balance/supply as a percentage without losing the top
// digits: scale by 10^6 first, then divide.
func pctOf(balance, supply *uint256.Int) float64 {
	if supply.IsZero() {
		return 0
	}
	scaled := new(uint256.Int).Mul(balance, uint256.NewInt(1_000_000))
	scaled.Div(scaled, supply)
	return float64(scaled.Uint64()) / 10_000
}

// formatUnits renders base units as whole tokens: "1500000000000000000" → "1.5"
func formatUnits(v *uint256.Int) string {
	dec := v.Dec()
	if len(dec) <= decimals {
		dec = strings.Repeat("0", decimals-len(dec)+1) + dec
	}
	intPart := dec[:len(dec)-decimals]
	fracPart := strings.TrimRight(dec[len(dec)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}
