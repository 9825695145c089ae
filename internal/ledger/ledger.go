// Package ledger implements a fixed-supply, conservation-preserving token
// ledger with delegated transfers and signature-authorized approvals.
//
// All state — balances, allowances, the supply counter, and the permit
// nonces — is owned by one Ledger value and mutated only through its
// methods. Every mutating operation runs under a single write lock and
// either applies all of its table writes or none of them, so the sum of
// all balances equals the total supply at every observable state.
package ledger

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MaxAllowance is the sentinel "unlimited" allowance (2^256-1). A delegated
// transfer never decrements it.
var MaxAllowance = new(uint256.Int).SetAllOne()

// Params configure a ledger instance. Name, Version, ChainID and Address
// feed the EIP-712 domain separator, so two ledgers differing in any of
// them never accept each other's permit signatures.
type Params struct {
	Name     string
	Symbol   string
	Decimals uint8
	Version  string
	ChainID  uint64
	Address  common.Address
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithSink directs events to a custom sink (default: in-memory).
func WithSink(s Sink) Option {
	return func(l *Ledger) { l.sink = s }
}

// WithRecoverer injects the signature-recovery backend used by Permit.
func WithRecoverer(r SignerRecoverer) Option {
	return func(l *Ledger) { l.recoverer = r }
}

// WithClock overrides the clock used for permit deadlines (for tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger owns all token state for one deployment.
type Ledger struct {
	mu sync.RWMutex

	params          Params
	domainSeparator common.Hash

	totalSupply *uint256.Int
	balances    map[common.Address]*uint256.Int
	allowances  map[common.Address]map[common.Address]*uint256.Int
	nonces      map[common.Address]uint64

	initialized bool
	seq         uint64

	sink      Sink
	recoverer SignerRecoverer
	now       func() time.Time
}

// New creates an empty, uninitialized ledger. The domain separator is
// fixed here and never changes afterwards.
func New(p Params, opts ...Option) *Ledger {
	l := &Ledger{
		params:          p,
		domainSeparator: computeDomainSeparator(p.Name, p.Version, p.ChainID, p.Address),
		totalSupply:     new(uint256.Int),
		balances:        make(map[common.Address]*uint256.Int),
		allowances:      make(map[common.Address]map[common.Address]*uint256.Int),
		nonces:          make(map[common.Address]uint64),
		sink:            NewMemorySink(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Params returns the ledger's immutable parameters.
func (l *Ledger) Params() Params {
	return l.params
}

// Initialize mints the entire fixed supply to recipient. Callable exactly
// once; a second call is a programming error and fails with
// ErrAlreadyInitialized. Emits the genesis transfer from the zero address
// followed by the initialized event, both carrying the full supply.
func (l *Ledger) Initialize(recipient common.Address, supply *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return ErrAlreadyInitialized
	}
	if recipient == (common.Address{}) {
		return &InvalidRecipientError{Recipient: recipient}
	}

	amount := new(uint256.Int).Set(supply)
	l.totalSupply.Set(amount)
	l.balances[recipient] = new(uint256.Int).Set(amount)
	l.initialized = true

	l.emit(Event{Type: EventTransfer, From: common.Address{}, To: recipient, Value: amount})
	l.emit(Event{Type: EventInitialized, To: recipient, Value: new(uint256.Int).Set(amount)})
	return nil
}

// Initialized reports whether the supply has been minted.
func (l *Ledger) Initialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initialized
}

// TotalSupply returns the fixed supply counter.
func (l *Ledger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(uint256.Int).Set(l.totalSupply)
}

// BalanceOf returns the balance of account. Accounts without an entry,
// including the zero address, read as zero.
func (l *Ledger) BalanceOf(account common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.balances[account]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

// Transfer moves amount from caller to to. Zero-amount transfers and
// self-transfers succeed and still emit a transfer event.
func (l *Ledger) Transfer(caller, to common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.move(caller, to, amount); err != nil {
		return err
	}
	l.emit(Event{Type: EventTransfer, From: caller, To: to, Value: new(uint256.Int).Set(amount)})
	return nil
}

// Approve sets the allowance of spender over caller's tokens to amount,
// overwriting any prior value. Zero revokes; MaxAllowance grants
// unlimited delegated spending.
func (l *Ledger) Approve(caller, spender common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.approve(caller, spender, amount)
}

// Allowance returns how much spender may still move out of owner's
// balance. Absent entries read as zero.
func (l *Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if row, ok := l.allowances[owner]; ok {
		if a, ok := row[spender]; ok {
			return new(uint256.Int).Set(a)
		}
	}
	return new(uint256.Int)
}

// TransferFrom moves amount from from to to, spending caller's allowance.
// An allowance of exactly MaxAllowance is treated as inexhaustible and is
// not decremented. Allowance consumption and the balance movement commit
// together or not at all.
func (l *Ledger) TransferFrom(caller, from, to common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := new(uint256.Int)
	if row, ok := l.allowances[from]; ok {
		if a, ok := row[caller]; ok {
			current.Set(a)
		}
	}
	unlimited := current.Eq(MaxAllowance)
	if !unlimited && current.Lt(amount) {
		return &InsufficientAllowanceError{
			Spender:   caller,
			Allowance: current,
			Needed:    new(uint256.Int).Set(amount),
		}
	}

	// Validate the balance movement before touching the allowance so a
	// failure leaves both tables untouched.
	if err := l.checkMove(from, to, amount); err != nil {
		return err
	}

	if !unlimited {
		row, ok := l.allowances[from]
		if !ok {
			row = make(map[common.Address]*uint256.Int)
			l.allowances[from] = row
		}
		row[caller] = new(uint256.Int).Sub(current, amount)
	}
	l.applyMove(from, to, amount)
	l.emit(Event{Type: EventTransfer, From: from, To: to, Value: new(uint256.Int).Set(amount)})
	return nil
}

// AdvanceSeq moves the event sequence counter forward to at least seq.
// Called at startup when the durable event log is ahead of the restored
// snapshot (a crash between event insert and snapshot write), so newly
// emitted events never reuse sequence numbers the log already holds.
func (l *Ledger) AdvanceSeq(seq uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq > l.seq {
		l.seq = seq
	}
}

// Nonces returns the next unconsumed permit nonce for owner.
func (l *Ledger) Nonces(owner common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nonces[owner]
}

// --- internal (callers hold l.mu) ---

// approve writes the allowance and emits the approval event.
func (l *Ledger) approve(owner, spender common.Address, amount *uint256.Int) error {
	if spender == (common.Address{}) {
		return &InvalidSpenderError{Spender: spender}
	}
	row, ok := l.allowances[owner]
	if !ok {
		row = make(map[common.Address]*uint256.Int)
		l.allowances[owner] = row
	}
	row[spender] = new(uint256.Int).Set(amount)
	l.emit(Event{Type: EventApproval, Owner: owner, Spender: spender, Value: new(uint256.Int).Set(amount)})
	return nil
}

// checkMove validates a balance movement without applying it.
func (l *Ledger) checkMove(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return &InvalidReceiverError{Receiver: to}
	}
	balance := l.balances[from]
	if balance == nil {
		balance = new(uint256.Int)
	}
	if balance.Lt(amount) {
		return &InsufficientBalanceError{
			Sender:  from,
			Balance: new(uint256.Int).Set(balance),
			Needed:  new(uint256.Int).Set(amount),
		}
	}
	return nil
}

// applyMove performs a pre-validated balance movement. Self-transfers net
// to a no-op because both writes land on the same entry.
func (l *Ledger) applyMove(from, to common.Address, amount *uint256.Int) {
	fromBal := l.balances[from]
	if fromBal == nil {
		fromBal = new(uint256.Int)
		l.balances[from] = fromBal
	}
	fromBal.Sub(fromBal, amount)

	toBal := l.balances[to]
	if toBal == nil {
		toBal = new(uint256.Int)
		l.balances[to] = toBal
	}
	toBal.Add(toBal, amount)
}

func (l *Ledger) move(from, to common.Address, amount *uint256.Int) error {
	if err := l.checkMove(from, to, amount); err != nil {
		return err
	}
	l.applyMove(from, to, amount)
	return nil
}

func (l *Ledger) emit(ev Event) {
	l.seq++
	ev.Seq = l.seq
	ev.Time = l.now().UTC()
	l.sink.Append(ev)
}
