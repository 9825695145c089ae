package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/config"
	"github.com/BTCX-Investment-Ltd/btcx-digital-currency/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	Long: `Run the HTTP API: balances, allowances, transfers, permits, and a
websocket event stream at /events/ws. State is persisted after every
accepted mutation. Stop with ctrl+c.

Examples:
  btcx serve
  btcx serve --addr 0.0.0.0:8720`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		l, store, err := openLedger(true)
		if err != nil {
			return err
		}
		defer store.Close()

		srv := server.New(l, store, logger, func() error { return saveLedger(l) })
		httpSrv := &http.Server{
			Addr:         addr,
			Handler:      srv.Handler(),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr, "token", cfg.TokenSymbol)
			errCh <- httpSrv.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: configured listen address)")
	rootCmd.AddCommand(serveCmd)
}
