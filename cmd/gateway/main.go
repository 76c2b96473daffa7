package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Inventar/internal/config"
	"Inventar/internal/gateway"
	"Inventar/pkg/kit"
)

func main() {
	service := "gateway"

	cfg, err := config.Load(service)
	if err != nil {
		kit.NewLogger(service, "info").Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	shutdownTracing, err := kit.InitTracing(ctx, service, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("init tracing failed", zap.Error(err))
	}

	h, err := gateway.NewHandler(
		gateway.Deps{
			CatalogueURL: cfg.Gateway.CatalogueURL,
			SearchURL:    cfg.Gateway.SearchURL,
		},
		gateway.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       prometheus.NewRegistry(),
			MetricsEnabled: cfg.MetricsEnabled,
			MetricsToken:   cfg.MetricsToken,
		},
	)
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log, shutdownTracing); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
