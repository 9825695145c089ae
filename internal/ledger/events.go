package ledger

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Event types.
const (
	EventTransfer    = "transfer"
	EventApproval    = "approval"
	EventInitialized = "initialized"
)

// Event is a single entry of the ledger's audit log. Transfer events set
// From/To, approval events set Owner/Spender; the genesis transfer emitted
// at initialization has the zero address as From. Address fields the
// event type does not use serialize as the zero address.
type Event struct {
	Seq     uint64         `json:"seq"`
	Type    string         `json:"type"`
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
	Value   *uint256.Int   `json:"value"`
	Time    time.Time      `json:"time"`
}

// Sink receives events as operations commit. Append is called inside the
// ledger's write lock, so sink order matches the serialization order of
// operations; implementations must not call back into the ledger.
type Sink interface {
	Append(ev Event)
}

// MemorySink collects events in memory. The ledger's default sink.
type MemorySink struct {
	events []Event
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(ev Event) {
	s.events = append(s.events, ev)
}

// Events returns all collected events in append order.
func (s *MemorySink) Events() []Event {
	return s.events
}

// MultiSink fans an event out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Append(ev Event) {
	for _, s := range m {
		s.Append(ev)
	}
}
