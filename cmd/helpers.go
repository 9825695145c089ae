package cmd

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/eventstore"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ui"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/wallet"
)

// openLedger builds the ledger from config, restores the persisted
// snapshot if one exists, and (when withEvents) attaches the durable
// event store. Callers must Close() a non-nil store.
func openLedger(withEvents bool) (*ledger.Ledger, *eventstore.Store, error) {
	var (
		store *eventstore.Store
		sink  ledger.Sink = ledger.NewMemorySink()
		err   error
	)
	if withEvents {
		store, err = eventstore.NewStore(cfg.EventsDBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("opening event store: %w", err)
		}
		sink = eventstore.NewSink(store, nil)
	}

	l := ledger.New(ledgerParams(),
		ledger.WithSink(sink),
		ledger.WithRecoverer(wallet.Recoverer{}),
	)

	var snap ledger.Snapshot
	found, err := cfg.LoadState(&snap)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, err
	}
	if found {
		if err := l.Restore(&snap); err != nil {
			if store != nil {
				store.Close()
			}
			return nil, nil, fmt.Errorf("restoring state: %w", err)
		}
	}

	// The event log may be ahead of the snapshot if the last run died
	// between inserting an event and writing the snapshot. Advance past
	// it so new events never collide with persisted sequence numbers.
	if store != nil {
		last, err := store.LastSeq()
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("reading event log position: %w", err)
		}
		l.AdvanceSeq(last)
	}
	return l, store, nil
}

func ledgerParams() ledger.Params {
	return ledger.Params{
		Name:     cfg.TokenName,
		Symbol:   cfg.TokenSymbol,
		Decimals: cfg.TokenDecimals,
		Version:  cfg.TokenVersion,
		ChainID:  cfg.ChainID,
		Address:  common.HexToAddress(cfg.LedgerAddress),
	}
}

// saveLedger persists the current snapshot.
func saveLedger(l *ledger.Ledger) error {
	return cfg.SaveState(l.Snapshot())
}

func requireInitialized(l *ledger.Ledger) error {
	if !l.Initialized() {
		return fmt.Errorf("ledger not initialized — run `btcx init` first")
	}
	return nil
}

// walletManager returns the manager over the configured wallets file.
func walletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}

// sessionKeystore serves a single key already unlocked into the session
// cache, avoiding an OS keychain prompt.
type sessionKeystore struct {
	ref, hexKey string
}

func (s sessionKeystore) Store(string, string) (string, error) {
	return "", fmt.Errorf("session keystore is read-only")
}

func (s sessionKeystore) Retrieve(ref string) (string, error) {
	if ref != s.ref {
		return "", fmt.Errorf("key not found: %s", ref)
	}
	return s.hexKey, nil
}

func (s sessionKeystore) Delete(string) error { return nil }

// loadSigningWallet resolves a wallet by name (or the configured default)
// and pairs it with the keystore that can produce its key.
func loadSigningWallet(name string) (*wallet.Wallet, wallet.KeystoreBackend, error) {
	m := walletManager()

	if name == "" {
		name = cfg.DefaultWallet
	}

	var w *wallet.Wallet
	if name == "" {
		w = m.Default()
		if w == nil {
			return nil, nil, fmt.Errorf("no wallet specified and no default set — run `btcx wallet create`")
		}
	} else {
		var err error
		w, err = m.Get(name)
		if err != nil {
			return nil, nil, fmt.Errorf("wallet %q: %w", name, err)
		}
	}

	if w.Type != wallet.TypeSigning {
		return nil, nil, fmt.Errorf("wallet %q is watch-only", w.Name)
	}

	if hexKey, ok := wallet.GetSessionKey(w.KeyRef); ok {
		return w, sessionKeystore{ref: w.KeyRef, hexKey: hexKey}, nil
	}
	return w, wallet.DefaultKeystore(), nil
}

// resolveAccount accepts either a raw address or a wallet name.
func resolveAccount(s string) (common.Address, error) {
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	w, err := walletManager().Get(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%q is neither an address nor a known wallet", s)
	}
	return common.HexToAddress(w.Address), nil
}

func warnIfNoSession() {
	if !wallet.SessionActive() {
		fmt.Println(ui.StyleMeta.Render("tip: `btcx wallet unlock` caches your key for this session"))
	}
}

// --- amount formatting ---

// parseUnits converts a whole-token amount ("1.5") to base units using
// the configured decimals. "max" yields the unlimited-allowance sentinel.
func parseUnits(s string, decimals uint8) (*uint256.Int, error) {
	if strings.EqualFold(s, "max") {
		return new(uint256.Int).Set(ledger.MaxAllowance), nil
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, decimals)
	}
	fracPart += strings.Repeat("0", int(decimals)-len(fracPart))

	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		combined = "0"
	}
	amount, err := uint256.FromDecimal(combined)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

// formatUnits renders base units as a whole-token decimal string.
func formatUnits(v *uint256.Int, decimals uint8) string {
	if v.Eq(ledger.MaxAllowance) {
		return "unlimited"
	}
	dec := v.Dec()
	d := int(decimals)
	if len(dec) <= d {
		dec = strings.Repeat("0", d-len(dec)+1) + dec
	}
	intPart := dec[:len(dec)-d]
	fracPart := strings.TrimRight(dec[len(dec)-d:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}
