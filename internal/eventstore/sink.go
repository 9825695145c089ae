package eventstore

import (
	"log/slog"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
)

// Sink adapts a Store to the ledger's event sink. Append runs inside the
// ledger's write lock, so insert failures cannot roll the operation back;
// they are logged and the in-memory ledger remains authoritative. Restart
// reconciliation uses Store.LastSeq against the snapshot's sequence.
type Sink struct {
	store *Store
	log   *slog.Logger
}

// NewSink wraps store as a ledger.Sink. logger may be nil.
func NewSink(store *Store, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{store: store, log: logger}
}

func (s *Sink) Append(ev ledger.Event) {
	rec := Record{
		Seq:     ev.Seq,
		Type:    ev.Type,
		From:    ev.From,
		To:      ev.To,
		Owner:   ev.Owner,
		Spender: ev.Spender,
		Value:   ev.Value,
		Time:    ev.Time,
	}
	if err := s.store.Insert(rec); err != nil {
		s.log.Error("persisting ledger event", "seq", ev.Seq, "type", ev.Type, "err", err)
	}
}

var _ ledger.Sink = (*Sink)(nil)
