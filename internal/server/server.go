// Package server exposes the ledger over a JSON HTTP API. Reads are
// plain GETs; mutating operations take the caller identity explicitly in
// the request body, mirroring the ledger's own operation signatures. A
// websocket endpoint streams newly committed events for reporting
// pipelines that follow the audit log live.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/eventstore"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/ledger"
)

// Server is the HTTP service around one ledger instance.
type Server struct {
	ledger  *ledger.Ledger
	events  *eventstore.Store
	log     *slog.Logger
	persist func() error // called after each successful mutation; may be nil
	started time.Time
}

// New creates a server. events and logger may be nil; persist, when set,
// is invoked after every successful mutating operation (the CLI uses it
// to write the state snapshot).
func New(l *ledger.Ledger, events *eventstore.Store, logger *slog.Logger, persist func() error) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ledger:  l,
		events:  events,
		log:     logger,
		persist: persist,
		started: time.Now(),
	}
}

// Handler returns the HTTP handler for the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /token", s.handleToken)
	mux.HandleFunc("GET /supply", s.handleSupply)
	mux.HandleFunc("GET /balance/{address}", s.handleBalance)
	mux.HandleFunc("GET /allowance/{owner}/{spender}", s.handleAllowance)
	mux.HandleFunc("GET /nonce/{address}", s.handleNonce)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /events/ws", s.handleEventsWS)

	mux.HandleFunc("POST /transfer", s.handleTransfer)
	mux.HandleFunc("POST /approve", s.handleApprove)
	mux.HandleFunc("POST /transferfrom", s.handleTransferFrom)
	mux.HandleFunc("POST /permit", s.handlePermit)

	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Initialized bool   `json:"initialized"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Uptime:      time.Since(s.started).String(),
		Initialized: s.ledger.Initialized(),
	})
}

// TokenResponse describes the ledger's immutable parameters.
type TokenResponse struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        uint8  `json:"decimals"`
	Version         string `json:"version"`
	ChainID         uint64 `json:"chain_id"`
	Address         string `json:"address"`
	DomainSeparator string `json:"domain_separator"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	p := s.ledger.Params()
	writeJSON(w, http.StatusOK, TokenResponse{
		Name:            p.Name,
		Symbol:          p.Symbol,
		Decimals:        p.Decimals,
		Version:         p.Version,
		ChainID:         p.ChainID,
		Address:         p.Address.Hex(),
		DomainSeparator: s.ledger.DomainSeparator().Hex(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
