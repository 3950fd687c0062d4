package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"etatcivil/internal/platform/config"
	"etatcivil/internal/platform/database"
	"etatcivil/internal/platform/httpserver"
	"etatcivil/internal/platform/logger"
	"etatcivil/internal/platform/metrics"
	"etatcivil/internal/platform/redis"
	registryhandler "etatcivil/internal/registry/handler"
	registrymetrics "etatcivil/internal/registry/metrics"
	"etatcivil/internal/registry/service"
	"etatcivil/internal/registry/store"
	statscache "etatcivil/internal/stats/cache"
	statshandler "etatcivil/internal/stats/handler"
	statsmetrics "etatcivil/internal/stats/metrics"
	"etatcivil/internal/stats/report"
	"etatcivil/pkg/platform/audit"
	"etatcivil/pkg/platform/audit/publisher"
	"etatcivil/pkg/platform/audit/relay"
	auditmemory "etatcivil/pkg/platform/audit/store/memory"
	auditpostgres "etatcivil/pkg/platform/audit/store/postgres"
	"etatcivil/pkg/platform/circuit"
)

// registryStore is what both the registry service and the report facade read.
type registryStore interface {
	service.Store
	report.Source
}

// reportCache is shared by the facade and the invalidating service.
type reportCache interface {
	report.Cache
	service.CacheInvalidator
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checks := map[string]httpserver.HealthCheck{}
	g, ctx := errgroup.WithContext(ctx)

	var (
		st         registryStore
		auditStore audit.Store
		db         *sql.DB
	)
	if cfg.Database.URL == "" {
		log.Warn("no database configured, records are kept in memory")
		st = store.NewInMemory()
		auditStore = auditmemory.NewInMemoryStore()
	} else {
		var err error
		db, err = database.Open(ctx, cfg.Database, cfg.Retry.MaxElapsed, log)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Database.ApplySchema {
			if err := database.ApplySchema(ctx, db, store.Schema); err != nil {
				return err
			}
		}
		st = store.NewPostgres(db)
		outbox := auditpostgres.New(db)
		auditStore = outbox
		checks["database"] = db.PingContext

		if len(cfg.Kafka.Brokers) > 0 {
			r, closeRelay, err := newRelay(ctx, cfg, outbox, log)
			if err != nil {
				return err
			}
			defer closeRelay()
			g.Go(func() error { return r.Run(ctx) })
		}
	}

	cache, closeCache, err := newCache(ctx, cfg.Redis, checks, log)
	if err != nil {
		return err
	}
	defer closeCache()

	auditPublisher := publisher.NewPublisher(auditStore, publisher.WithLogger(log))
	defer auditPublisher.Close()

	registry, err := service.New(st,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithCacheInvalidator(cache),
		service.WithMetrics(registrymetrics.NewWith(reg)),
	)
	if err != nil {
		return err
	}
	reports, err := report.New(st,
		report.WithCache(cache),
		report.WithLogger(log),
		report.WithMetrics(statsmetrics.NewWith(reg)),
	)
	if err != nil {
		return err
	}

	router := httpserver.NewRouter(metrics.NewWith(reg), reg, checks,
		registryhandler.New(registry, log, registryhandler.WithDebug(cfg.Server.Debug)).Register,
		statshandler.New(reports, log, statshandler.WithDebug(cfg.Server.Debug)).Register,
	)
	srv := httpserver.New(cfg.Server.Addr, router)
	g.Go(func() error { return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newCache(ctx context.Context, cfg config.Redis, checks map[string]httpserver.HealthCheck, log *slog.Logger) (reportCache, func(), error) {
	opts := []statscache.Option{statscache.WithTTL(cfg.ReportTTL), statscache.WithPrefix(cfg.KeyPrefix)}
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("no redis configured, report bundles are cached in process")
		return statscache.NewMemory(opts...), func() {}, nil
	}
	checks["redis"] = client.Health
	breaker := circuit.New("redis-report-cache", circuit.WithCooldown(cfg.BreakerCooldown))
	guarded := statscache.NewGuarded(statscache.NewRedis(client.Client, opts...), breaker, log)
	return guarded, func() { _ = client.Close() }, nil
}

func newRelay(ctx context.Context, cfg config.Config, outbox relay.Outbox, log *slog.Logger) (*relay.Relay, func(), error) {
	client, err := relay.Connect(ctx, cfg.Kafka.Brokers, cfg.Retry.MaxElapsed)
	if err != nil {
		return nil, nil, err
	}
	if err := relay.EnsureTopic(ctx, client, cfg.Kafka.Topic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
		client.Close()
		return nil, nil, err
	}
	r := relay.New(outbox, client, cfg.Kafka.Topic,
		relay.WithInterval(cfg.Kafka.PollInterval),
		relay.WithBatchSize(cfg.Kafka.BatchSize),
		relay.WithLogger(log),
	)
	return r, client.Close, nil
}
