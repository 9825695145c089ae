package ledger

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Errors.
var (
	ErrNotInitialized     = errors.New("ledger not initialized")
	ErrAlreadyInitialized = errors.New("ledger already initialized")
	ErrNoRecoverer        = errors.New("no signature recoverer configured")
)

// InvalidReceiverError rejects a transfer to the zero address.
type InvalidReceiverError struct {
	Receiver common.Address
}

func (e *InvalidReceiverError) Error() string {
	return fmt.Sprintf("invalid receiver %s", e.Receiver.Hex())
}

// InvalidSpenderError rejects an approval for the zero address.
type InvalidSpenderError struct {
	Spender common.Address
}

func (e *InvalidSpenderError) Error() string {
	return fmt.Sprintf("invalid spender %s", e.Spender.Hex())
}

// InvalidRecipientError rejects initialization with the zero address
// as the supply recipient.
type InvalidRecipientError struct {
	Recipient common.Address
}

func (e *InvalidRecipientError) Error() string {
	return fmt.Sprintf("invalid recipient %s", e.Recipient.Hex())
}

// InsufficientBalanceError reports a transfer exceeding the sender's
// balance. Both the held and the requested amount are carried so callers
// can show the exact shortfall.
type InsufficientBalanceError struct {
	Sender  common.Address
	Balance *uint256.Int
	Needed  *uint256.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: have %s, need %s",
		e.Sender.Hex(), e.Balance.Dec(), e.Needed.Dec())
}

// InsufficientAllowanceError reports a delegated transfer exceeding the
// spender's allowance.
type InsufficientAllowanceError struct {
	Spender   common.Address
	Allowance *uint256.Int
	Needed    *uint256.Int
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("insufficient allowance for %s: have %s, need %s",
		e.Spender.Hex(), e.Allowance.Dec(), e.Needed.Dec())
}

// ExpiredDeadlineError rejects a permit submitted after its deadline.
type ExpiredDeadlineError struct {
	Deadline uint64
	Now      uint64
}

func (e *ExpiredDeadlineError) Error() string {
	return fmt.Sprintf("permit deadline %d expired at %d", e.Deadline, e.Now)
}

// InvalidSignerError rejects a permit whose signature does not recover to
// the claimed owner, or whose signature components are malformed. Cause is
// set when recovery itself failed; otherwise Recovered carries the address
// the signature actually belongs to.
type InvalidSignerError struct {
	Owner     common.Address
	Recovered common.Address
	Cause     error
}

func (e *InvalidSignerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid signer for %s: %v", e.Owner.Hex(), e.Cause)
	}
	return fmt.Sprintf("invalid signer: recovered %s, want %s",
		e.Recovered.Hex(), e.Owner.Hex())
}

func (e *InvalidSignerError) Unwrap() error { return e.Cause }
