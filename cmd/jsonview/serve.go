package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/jsonview"
	"github.com/aretw0/jsonview/internal/compiler"
	httpAdapter "github.com/aretw0/jsonview/pkg/adapters/http"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/observability"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve <question>",
	Short: "Start the HTTP server",
	Long: `Serves one question over a JSON API. Each session is restored from the
configured store (memory or redis), mutated and saved under a per-session lock.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(args[0])
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().String("store", "", "Session store (memory, file, redis)")
}

func runServe(path string) error {
	q, err := compiler.NewParser().ParseFile(path)
	if err != nil {
		return err
	}

	var (
		hooks   domain.LifecycleHooks
		metrics *observability.Metrics
	)
	if cfg.Metrics {
		metrics = observability.NewMetrics()
		hooks = metrics.Hooks()
	}
	opts, err := playerOptions(cfg, hooks)
	if err != nil {
		return err
	}
	// fail fast on a broken document instead of on the first request
	probe := jsonview.New(opts...)
	if err := probe.LoadQuestion(context.Background(), q); err != nil {
		return err
	}
	probe.Close()

	mgr, closeStore, err := sessionManager(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	server := &httpAdapter.Server{
		Question:  q,
		NewPlayer: func() *jsonview.Player { return jsonview.New(opts...) },
		Sessions:  mgr,
		Logger:    logger,
		Version:   strings.TrimSpace(jsonview.Version),
	}
	if metrics != nil {
		server.Metrics = metrics.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpAdapter.NewHandler(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting jsonview server", "addr", srv.Addr, "question", q.ID, "store", cfg.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("server stopped gracefully")
	}
	return nil
}
