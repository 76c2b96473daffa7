package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Inventar/internal/config"
	"Inventar/internal/search"
	"Inventar/internal/storage"
	"Inventar/pkg/kit"
)

func main() {
	service := "search"

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

	kv, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		log.Fatal("open storage failed", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}

	reg := prometheus.NewRegistry()
	metrics := search.NewMetrics(reg)

	gw := search.NewGateway(cfg.Search.BaseURL, cfg.Search.Timeout, log)
	gw.Metrics = metrics

	sess := search.NewSession(gw, kv, log, metrics)
	last := sess.Restore(ctx)
	log.Info("search session restored",
		zap.String("query", last.Query),
		zap.Int("items", len(last.Items)),
		zap.String("upstream", gw.BaseURL),
	)

	h := search.NewHandler(
		&search.Server{
			Session: sess,
			Limiter: kit.NewIPRateLimiter(cfg.Search.RateLimit, cfg.Search.RateWindow),
		},
		search.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       reg,
			MetricsEnabled: cfg.MetricsEnabled,
			MetricsToken:   cfg.MetricsToken,
		},
	)

	closeKV := func(context.Context) error { return kv.Close() }
	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log, shutdownTracing, closeKV); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
