package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	server "tpreviews/internal/adapters/http_server"
	"tpreviews/internal/adapters/observability"
	"tpreviews/internal/adapters/trustpilot"
	"tpreviews/internal/app"
	"tpreviews/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// feed
	src, err := trustpilot.New(cfg.BaseURL,
		trustpilot.WithTimeout(cfg.FetchTimeout),
		trustpilot.WithMaxPayload(cfg.MaxPayload),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Trustpilot client")
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	rc, err := app.NewReviewClient(ctx, src, cfg.AccountKey)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("account_key", cfg.AccountKey).Msg("failed to load reviews")
	}

	// http
	srv := server.New(
		server.WithRequestTimeout(cfg.RequestTimeout),
		server.WithLogger(log.Logger),
	)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{C: rc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
