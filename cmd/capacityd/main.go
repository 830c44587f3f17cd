// Service capacityd polls the Boulderbar capacity API on a fixed cadence,
// stores the samples in a local SQLite database, and serves the dashboard.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/boulderbar"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/collector"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/config"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/query"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/server"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/storage/sqlite"
)

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	store, err := sqlite.NewFileStore(cfg.DBFile())
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.DBFile())
		os.Exit(1)
	}
	defer store.Close()

	client := boulderbar.NewClient(cfg.APIURL)
	sched := collector.NewScheduler(collector.New(client, store), cfg.PollInterval)
	srv := server.New(query.NewService(store), sched, store)

	// Eager activation; the HTTP middleware would otherwise start it lazily
	// on the first request. Both paths share one guard.
	sched.Start()

	httpSrv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("capacityd listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sched.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}
