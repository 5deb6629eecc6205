package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"naviroute/gateway/pkg/cache"
	"naviroute/gateway/pkg/config"
	"naviroute/gateway/pkg/engine"
	"naviroute/gateway/pkg/journal"
	"naviroute/gateway/pkg/poi"
	"naviroute/gateway/pkg/server"
	"naviroute/gateway/pkg/service"
	"naviroute/gateway/pkg/telemetry/health"
	"naviroute/gateway/pkg/telemetry/logging"
	"naviroute/gateway/pkg/telemetry/metrics"
	"naviroute/gateway/pkg/translator"
)

// app holds every long-lived component of a running gateway.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	collector *metrics.Collector
	checker   *health.Checker
	service   *service.Service
	backend   *server.Backend
	closers   []func() error
}

// newApp builds the components selected by cfg. On error everything built
// so far is closed again.
func newApp(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*app, error) {
	a := &app{
		cfg:       cfg,
		logger:    logger,
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		checker:   health.New(cfg.Telemetry.Health.CheckTimeout),
	}
	a.checker.OnReport(a.collector.UpdateUpstreamHealth)

	fail := func(err error) (*app, error) {
		_ = a.Close()
		return nil, err
	}

	deps := server.Dependencies{ForwardObserver: a.collector}
	if cfg.Server.Type == config.ServerTypeAPI {
		svc, err := a.buildRouteService(ctx)
		if err != nil {
			return fail(err)
		}
		a.service = svc
		deps.Service = svc
	}

	backend, err := server.NewBackend(cfg, deps)
	if err != nil {
		return fail(fmt.Errorf("failed to create %s backend: %w", cfg.Server.Type, err))
	}
	a.backend = backend
	a.onClose(backend.Close)

	return a, nil
}

// buildRouteService wires the POI client, the engine, the cache and the
// journal into the route service.
func (a *app) buildRouteService(ctx context.Context) (*service.Service, error) {
	cfg := a.cfg

	poiClient := poi.NewClient(poi.Config{
		BaseURL:    cfg.Poi.BaseURL,
		Timeout:    cfg.Poi.Timeout,
		MaxRetries: cfg.Poi.MaxRetries,
	}, a.collector)
	a.onClose(poiClient.Close)
	a.checker.RegisterCheck("poi", poiClient.HealthCheck)

	gw := engine.New(engine.DefaultBinding(), engine.Config{
		Workers:     cfg.Engine.Workers,
		QueueSize:   cfg.Engine.QueueSize,
		StopTimeout: cfg.Engine.StopTimeout,
		Registerer:  a.collector.Registry(),
		Namespace:   a.collector.Namespace(),
		Subsystem:   a.collector.Subsystem(),
	}, a.collector)
	if err := gw.Initialize(cfg.Engine.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to initialize routing engine: %w", err)
	}
	if err := gw.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start routing engine: %w", err)
	}
	a.onClose(gw.Stop)
	a.checker.RegisterCheck("engine", gw.HealthCheck)

	opts := service.Options{WriteResults: cfg.Cache.WriteResults}

	if cfg.Cache.Enabled {
		store, err := cache.New(ctx, cache.Config{
			Mode:         cfg.Redis.Mode,
			Hosts:        cfg.Redis.Hosts,
			Password:     cfg.Redis.Password,
			DialTimeout:  cfg.Redis.Connect.Dial(),
			ReadTimeout:  cfg.Redis.Connect.Read(),
			WriteTimeout: cfg.Redis.Connect.Write(),
			PoolSize:     cfg.Redis.PoolSize,
			TTL:          cfg.Cache.TTL,
		}, a.collector)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to cache: %w", err)
		}
		a.onClose(store.Close)
		a.checker.RegisterCheck("cache", store.HealthCheck)
		opts.Cache = store
	}

	if cfg.Journal.Enabled {
		recorder, err := a.buildJournal(ctx)
		if err != nil {
			return nil, err
		}
		opts.Journal = recorder
	}

	return service.New(translator.New(poiClient), gw, opts), nil
}

func (a *app) buildJournal(ctx context.Context) (*journal.Recorder, error) {
	cfg := &a.cfg.Journal

	storage, err := openJournal(cfg)
	if err != nil {
		return nil, err
	}
	a.onClose(storage.Close)
	a.checker.RegisterCheck("journal", storage.Ping)

	recorder := journal.NewRecorder(storage, journal.RecorderConfig{
		AsyncBuffer:  cfg.AsyncBuffer,
		WriteTimeout: cfg.WriteTimeout,
	}, a.collector)
	a.onClose(recorder.Close)

	scheduler := journal.NewScheduler(journal.NewPruner(storage, retentionConfig(cfg)))
	if err := scheduler.Start(ctx); err != nil {
		slog.Warn("failed to start journal retention scheduler", "error", err)
	} else {
		a.onClose(func() error {
			scheduler.Stop()
			return nil
		})
		if next := scheduler.NextRun(); next != nil {
			slog.Debug("journal retention scheduler started", "next_run", next)
		}
	}

	return recorder, nil
}

// reload applies the settings that may change without a restart.
func (a *app) reload(cfg *config.Config) {
	if err := a.logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
		slog.Warn("ignoring reloaded log level", "level", cfg.Telemetry.Logging.Level, "error", err)
	}
	if a.service != nil {
		a.service.SetWriteResults(cfg.Cache.WriteResults)
	}
	slog.Info("runtime settings reloaded",
		"log_level", cfg.Telemetry.Logging.Level,
		"cache_write_results", cfg.Cache.WriteResults,
	)
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases components in reverse construction order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openJournal(cfg *config.JournalConfig) (*journal.SQLiteStorage, error) {
	sqliteCfg := journal.DefaultSQLiteConfig()
	sqliteCfg.Driver = cfg.Driver
	sqliteCfg.Path = cfg.Path

	storage, err := journal.NewSQLiteStorage(sqliteCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return storage, nil
}

func retentionConfig(cfg *config.JournalConfig) journal.RetentionConfig {
	return journal.RetentionConfig{
		RetentionDays: cfg.RetentionDays,
		PruneSchedule: cfg.PruneSchedule,
	}
}
