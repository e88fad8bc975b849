package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ShriHariStore/internal/config"
	"ShriHariStore/internal/kvstore"
	"ShriHariStore/internal/storefront"
	"ShriHariStore/pkg/kit"
)

func main() {
	service := "storefront"

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		kit.NewLogger(service).Fatal("load config failed", zap.Error(err))
	}

	var log *zap.Logger
	if cfg.Logger.FileEnable {
		log = kit.NewFileLogger(service, kit.LogFileOptions{Filename: cfg.Logger.Filename})
	} else {
		log = kit.NewLogger(service)
	}
	defer func() { _ = log.Sync() }()

	kv, closeKV, err := openKV(cfg.Storage)
	if err != nil {
		log.Fatal("open storage failed", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer closeKV()

	reg := prometheus.NewRegistry()

	app, err := storefront.New(context.Background(), cfg, kv, storefront.Deps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})
	if err != nil {
		log.Fatal("init storefront failed", zap.Error(err))
	}

	if cfg.Sweep.Schedule != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(cfg.Sweep.Schedule, app.SweepJob()); err != nil {
			log.Fatal("bad sweep schedule", zap.Error(err), zap.String("schedule", cfg.Sweep.Schedule))
		}
		sched.Start()
		defer sched.Stop()
	}

	if err := kit.RunHTTPServer(":"+cfg.Server.Port, app.Handler(), log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openKV(cfg config.Storage) (kvstore.Store, func(), error) {
	var (
		kv      kvstore.Store
		closeFn = func() {}
	)

	switch cfg.Driver {
	case "postgres":
		pg, err := kvstore.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		kv, closeFn = pg, func() { _ = pg.Close() }
	case "memory":
		kv = kvstore.NewMemStore()
	default:
		b, err := kvstore.OpenBolt(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		kv, closeFn = b, func() { _ = b.Close() }
	}

	if cfg.QuotaBytes > 0 {
		limited, err := kvstore.WithQuota(context.Background(), kv, cfg.QuotaBytes)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		kv = limited
	}
	return kv, closeFn, nil
}
