package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/api"
	"github.com/hyperengineering/mindful/internal/archive"
	"github.com/hyperengineering/mindful/internal/worker"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config and MINDFUL_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return serve(ctx, ln)
}

// serve runs the API on ln until ctx is done, then drains requests, stops
// workers and saves the journal one last time.
func serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	adapter, store, err := openJournal()
	if err != nil {
		ln.Close()
		return err
	}
	slog.Info("journal loaded", "path", adapter.Path(), "entries", store.Len())

	handler := api.NewHandler(store, adapter, api.NewMetrics(), Version)
	srv := &http.Server{
		Handler:      api.NewRouter(handler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	var wg sync.WaitGroup
	if interval := time.Duration(cfg.Archive.Interval); interval > 0 {
		a, err := archive.NewSQLiteArchive(cfg.Archive.Path)
		if err != nil {
			ln.Close()
			return err
		}
		defer a.Close()

		uploader, err := newUploader(cfg.Backup)
		if err != nil {
			ln.Close()
			return err
		}
		coordinator := worker.NewArchiveCoordinator(handler, a, interval, adapter.Path(), uploader, cfg.Archive.Path)
		startWorker(ctx, &wg, "archive", coordinator.Run)
	}

	go func() {
		slog.Info("server starting", "address", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	wg.Wait()

	if err := handler.Persist(); err != nil {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}

// startWorker launches a background worker goroutine that respects context
// cancellation. Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
