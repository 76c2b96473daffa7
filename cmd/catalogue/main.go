package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Inventar/internal/catalogue"
	"Inventar/internal/config"
	"Inventar/internal/ledger"
	"Inventar/internal/profile"
	"Inventar/internal/storage"
	"Inventar/pkg/kit"
)

func main() {
	service := "catalogue"

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

	items := catalogue.NewStore(kv, log)
	loaded := items.Load(ctx)

	purchases := ledger.NewStore(kv, log)
	purchases.Load(ctx)

	log.Info("catalogue loaded",
		zap.Int("items", len(loaded)),
		zap.Int("purchases", len(purchases.List())),
		zap.String("storage", cfg.Storage.Driver),
	)

	h := catalogue.NewHandler(
		&catalogue.Server{Store: items, Log: log},
		catalogue.HTTPDeps{
			HTTPDeps: kit.HTTPDeps{
				Log:            log,
				Service:        service,
				Registry:       prometheus.NewRegistry(),
				MetricsEnabled: cfg.MetricsEnabled,
				MetricsToken:   cfg.MetricsToken,
			},
			Mounts: map[string]http.Handler{
				"/ledger":  (&ledger.Server{Store: purchases, Log: log}).Routes(),
				"/profile": (&profile.Server{Store: profile.NewStore(kv, log), Log: log}).Routes(),
			},
		},
	)

	closeKV := func(context.Context) error { return kv.Close() }
	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log, shutdownTracing, closeKV); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
