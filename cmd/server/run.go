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

	"github.com/spf13/cobra"

	"github.com/AngelCh415/sellerdash/internal/config"
	"github.com/AngelCh415/sellerdash/internal/daterange"
	"github.com/AngelCh415/sellerdash/internal/httpx"
	"github.com/AngelCh415/sellerdash/internal/ingest"
	"github.com/AngelCh415/sellerdash/internal/metrics"
	"github.com/AngelCh415/sellerdash/internal/store"
)

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cl := ingest.NewClient(ingest.NewHTTPClient(cfg.HTTPTimeout), cfg.APIBaseURL, logger,
		ingest.WithAPIToken(cfg.APIToken),
		ingest.WithRateLimit(cfg.UpstreamRPS, int(cfg.UpstreamRPS)+1))
	st := store.NewMemoryStore()
	mSvc := metrics.NewService(st, cl, daterange.New(), logger)

	// sin token configurado los pedidos llegan con el token de cada usuario
	refresher := ingest.NewRefresher(cl, st, cfg.RefreshInterval, logger)
	if cfg.APIToken != "" {
		_ = refresher.RefreshOnce(ctx)
		go refresher.Run(ctx)
	}

	// sin token de servicio no hay lote propio que esperar
	ready := func() bool { return cfg.APIToken == "" || !st.OrdersFetchedAt("").IsZero() }
	r := httpx.NewRouter(logger, mSvc, ready, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("port", cfg.Port), slog.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
