package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Snapshot is a JSON-serializable copy of the ledger's mutable state.
// Amounts are decimal strings, addresses checksummed hex. The event
// sequence counter rides along so a restored ledger continues numbering
// where the snapshot left off.
type Snapshot struct {
	Initialized bool                         `json:"initialized"`
	TotalSupply string                       `json:"total_supply"`
	Balances    map[string]string            `json:"balances"`
	Allowances  map[string]map[string]string `json:"allowances"`
	Nonces      map[string]uint64            `json:"nonces"`
	Seq         uint64                       `json:"seq"`
}

// Snapshot captures the current state under the read lock.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := &Snapshot{
		Initialized: l.initialized,
		TotalSupply: l.totalSupply.Dec(),
		Balances:    make(map[string]string, len(l.balances)),
		Allowances:  make(map[string]map[string]string, len(l.allowances)),
		Nonces:      make(map[string]uint64, len(l.nonces)),
		Seq:         l.seq,
	}
	for addr, bal := range l.balances {
		if bal.IsZero() {
			continue
		}
		s.Balances[addr.Hex()] = bal.Dec()
	}
	for owner, row := range l.allowances {
		for spender, amount := range row {
			if amount.IsZero() {
				continue
			}
			if s.Allowances[owner.Hex()] == nil {
				s.Allowances[owner.Hex()] = make(map[string]string)
			}
			s.Allowances[owner.Hex()][spender.Hex()] = amount.Dec()
		}
	}
	for addr, n := range l.nonces {
		if n == 0 {
			continue
		}
		s.Nonces[addr.Hex()] = n
	}
	return s
}

// Restore replaces the ledger's mutable state with a snapshot. Intended
// for loading persisted state at startup, before any operation runs.
func (l *Ledger) Restore(s *Snapshot) error {
	supply, err := uint256.FromDecimal(s.TotalSupply)
	if err != nil {
		return fmt.Errorf("parsing total supply: %w", err)
	}

	balances := make(map[common.Address]*uint256.Int, len(s.Balances))
	for hexAddr, dec := range s.Balances {
		amount, err := uint256.FromDecimal(dec)
		if err != nil {
			return fmt.Errorf("parsing balance of %s: %w", hexAddr, err)
		}
		balances[common.HexToAddress(hexAddr)] = amount
	}

	allowances := make(map[common.Address]map[common.Address]*uint256.Int, len(s.Allowances))
	for hexOwner, row := range s.Allowances {
		owner := common.HexToAddress(hexOwner)
		allowances[owner] = make(map[common.Address]*uint256.Int, len(row))
		for hexSpender, dec := range row {
			amount, err := uint256.FromDecimal(dec)
			if err != nil {
				return fmt.Errorf("parsing allowance %s->%s: %w", hexOwner, hexSpender, err)
			}
			allowances[owner][common.HexToAddress(hexSpender)] = amount
		}
	}

	nonces := make(map[common.Address]uint64, len(s.Nonces))
	for hexAddr, n := range s.Nonces {
		nonces[common.HexToAddress(hexAddr)] = n
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialized = s.Initialized
	l.totalSupply = supply
	l.balances = balances
	l.allowances = allowances
	l.nonces = nonces
	l.seq = s.Seq
	return nil
}
