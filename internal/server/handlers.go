package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/eventstore"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
)

// ErrorResponse carries a machine-checkable failure kind alongside the
// human-readable message, so clients can assert on the specific cause.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// AmountResponse wraps a single decimal amount.
type AmountResponse struct {
	Amount string `json:"amount"`
}

// NonceResponse wraps a permit nonce.
type NonceResponse struct {
	Nonce uint64 `json:"nonce"`
}

// OKResponse acknowledges a successful mutation.
type OKResponse struct {
	OK bool `json:"ok"`
}

// --- reads ---

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AmountResponse{Amount: s.ledger.TotalSupply().Dec()})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, AmountResponse{Amount: s.ledger.BalanceOf(addr).Dec()})
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	owner, err := parseAddress(r.PathValue("owner"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	spender, err := parseAddress(r.PathValue("spender"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, AmountResponse{Amount: s.ledger.Allowance(owner, spender).Dec()})
}

func (s *Server) handleNonce(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, NonceResponse{Nonce: s.ledger.Nonces(addr)})
}

// EventsResponse lists audit-log records.
type EventsResponse struct {
	Events []eventstore.Record `json:"events"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusNotFound, errors.New("event store not enabled"))
		return
	}

	var f eventstore.Filter
	q := r.URL.Query()
	f.Type = q.Get("type")
	if v := q.Get("address"); v != "" {
		addr, err := parseAddress(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		f.Address = addr
	}
	if v := q.Get("after"); v != "" {
		after, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid after %q", v))
			return
		}
		f.AfterSeq = after
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		f.Limit = limit
	}

	recs, err := s.events.List(f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if recs == nil {
		recs = []eventstore.Record{}
	}
	writeJSON(w, http.StatusOK, EventsResponse{Events: recs})
}

// --- mutations ---

// TransferRequest moves amount from caller to to.
type TransferRequest struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	caller, to, amount, err := parseMove(req.Caller, req.To, req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mutate(w, func() error { return s.ledger.Transfer(caller, to, amount) })
}

// ApproveRequest sets spender's allowance over owner's balance.
type ApproveRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	owner, spender, amount, err := parseMove(req.Owner, req.Spender, req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mutate(w, func() error { return s.ledger.Approve(owner, spender, amount) })
}

// TransferFromRequest is a delegated transfer: spender moves amount from
// from to to against a prior approval.
type TransferFromRequest struct {
	Spender string `json:"spender"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

func (s *Server) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	var req TransferFromRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	spender, err := parseAddress(req.Spender)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	from, to, amount, err := parseMove(req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mutate(w, func() error { return s.ledger.TransferFrom(spender, from, to, amount) })
}

// PermitRequest submits an off-chain signed approval.
type PermitRequest struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Value     string `json:"value"`
	Deadline  uint64 `json:"deadline"`
	Signature string `json:"signature"` // hex, 65 bytes
}

func (s *Server) handlePermit(w http.ResponseWriter, r *http.Request) {
	var req PermitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	owner, spender, value, err := parseMove(req.Owner, req.Spender, req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(req.Signature, "0x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding signature: %w", err))
		return
	}
	s.mutate(w, func() error { return s.ledger.Permit(owner, spender, value, req.Deadline, sig) })
}

// mutate runs op, maps ledger failures to the wire taxonomy, and invokes
// the persist hook on success.
func (s *Server) mutate(w http.ResponseWriter, op func() error) {
	if err := op(); err != nil {
		writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error(), Kind: kindFor(err)})
		return
	}
	if s.persist != nil {
		if err := s.persist(); err != nil {
			s.log.Error("persisting state", "err", err)
		}
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// --- error taxonomy mapping ---

func kindFor(err error) string {
	var (
		receiver  *ledger.InvalidReceiverError
		spender   *ledger.InvalidSpenderError
		recipient *ledger.InvalidRecipientError
		balance   *ledger.InsufficientBalanceError
		allowance *ledger.InsufficientAllowanceError
		deadline  *ledger.ExpiredDeadlineError
		signer    *ledger.InvalidSignerError
	)
	switch {
	case errors.As(err, &receiver):
		return "invalid_receiver"
	case errors.As(err, &spender):
		return "invalid_spender"
	case errors.As(err, &recipient):
		return "invalid_recipient"
	case errors.As(err, &balance):
		return "insufficient_balance"
	case errors.As(err, &allowance):
		return "insufficient_allowance"
	case errors.As(err, &deadline):
		return "expired_deadline"
	case errors.As(err, &signer):
		return "invalid_signer"
	default:
		return ""
	}
}

func statusFor(err error) int {
	if kindFor(err) != "" {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// --- parsing ---

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if strings.EqualFold(s, "max") {
		return new(uint256.Int).Set(ledger.MaxAllowance), nil
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

func parseMove(fromStr, toStr, amountStr string) (common.Address, common.Address, *uint256.Int, error) {
	from, err := parseAddress(fromStr)
	if err != nil {
		return common.Address{}, common.Address{}, nil, err
	}
	// The zero address passes through so the ledger reports its own
	// InvalidReceiver/InvalidSpender kind.
	var to common.Address
	if toStr != "" && toStr != "0x0" {
		if !common.IsHexAddress(toStr) {
			return common.Address{}, common.Address{}, nil, fmt.Errorf("invalid address %q", toStr)
		}
		to = common.HexToAddress(toStr)
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return common.Address{}, common.Address{}, nil, err
	}
	return from, to, amount, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
