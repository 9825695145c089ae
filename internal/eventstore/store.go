// Package eventstore persists the ledger's event stream to a SQLite
// database. The stream is the token's durable audit log: every transfer
// and approval lands here in the order the ledger committed it, and
// reporting tools read it back by sequence number.
package eventstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	_ "modernc.org/sqlite"
)

const busyTimeoutMs = 5000

// Store is a SQLite-backed ledger event sink.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	subs map[int]chan Record
	next int
}

// Record is one persisted event row. It mirrors ledger.Event plus a
// store-assigned record ID.
type Record struct {
	ID      string         `json:"id"`
	Seq     uint64         `json:"seq"`
	Type    string         `json:"type"`
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
	Value   *uint256.Int   `json:"value"`
	Time    time.Time      `json:"time"`
}

// Filter narrows a List query. Zero values mean "no constraint".
type Filter struct {
	Type     string
	Address  common.Address // matches from, to, owner, or spender
	AfterSeq uint64
	Limit    int
}

// NewStore opens (or creates) the event database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(path)))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMs)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db, subs: make(map[int]chan Record)}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			seq        INTEGER PRIMARY KEY,
			id         TEXT NOT NULL,
			type       TEXT NOT NULL,
			addr_from  TEXT NOT NULL DEFAULT '',
			addr_to    TEXT NOT NULL DEFAULT '',
			owner      TEXT NOT NULL DEFAULT '',
			spender    TEXT NOT NULL DEFAULT '',
			value      TEXT NOT NULL,
			ts         TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Insert persists one event row and fans it out to subscribers.
func (s *Store) Insert(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("event store closed")
	}
	_, err := s.db.Exec(`
		INSERT INTO events (seq, id, type, addr_from, addr_to, owner, spender, value, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Seq, rec.ID, rec.Type,
		rec.From.Hex(), rec.To.Hex(), rec.Owner.Hex(), rec.Spender.Hex(),
		rec.Value.Dec(), rec.Time.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event %d: %w", rec.Seq, err)
	}
	for _, ch := range s.subs {
		select {
		case ch <- rec:
		default: // slow subscriber drops live updates, the table keeps everything
		}
	}
	return nil
}

// List returns events matching the filter, ordered by sequence.
func (s *Store) List(f Filter) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("event store closed")
	}

	var (
		conds []string
		args  []any
	)
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, f.Type)
	}
	if f.Address != (common.Address{}) {
		hex := f.Address.Hex()
		conds = append(conds, "(addr_from = ? OR addr_to = ? OR owner = ? OR spender = ?)")
		args = append(args, hex, hex, hex, hex)
	}
	if f.AfterSeq > 0 {
		conds = append(conds, "seq > ?")
		args = append(args, f.AfterSeq)
	}

	query := "SELECT seq, id, type, addr_from, addr_to, owner, spender, value, ts FROM events"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seq ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LastSeq returns the highest persisted sequence number (0 when empty).
func (s *Store) LastSeq() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, fmt.Errorf("event store closed")
	}
	var seq sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(seq) FROM events").Scan(&seq); err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

// Subscribe registers a live feed of newly inserted events. The returned
// cancel func must be called to release the subscription.
func (s *Store) Subscribe() (<-chan Record, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	ch := make(chan Record, 64)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.subs[id]; ok {
			close(ch)
			delete(s.subs, id)
		}
	}
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec                      Record
		from, to, owner, spender string
		value, ts                string
	)
	if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Type, &from, &to, &owner, &spender, &value, &ts); err != nil {
		return rec, fmt.Errorf("scan event: %w", err)
	}
	rec.From = common.HexToAddress(from)
	rec.To = common.HexToAddress(to)
	rec.Owner = common.HexToAddress(owner)
	rec.Spender = common.HexToAddress(spender)

	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return rec, fmt.Errorf("parse event value %q: %w", value, err)
	}
	rec.Value = amount

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return rec, fmt.Errorf("parse event time %q: %w", ts, err)
	}
	rec.Time = t
	return rec, nil
}
