// Package control wires the application together and manages its lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/storefront/internal/archive"
	"github.com/vietddude/storefront/internal/chat"
	"github.com/vietddude/storefront/internal/core/config"
	"github.com/vietddude/storefront/internal/dashboard"
	"github.com/vietddude/storefront/internal/health"
	"github.com/vietddude/storefront/internal/infra/api"
	"github.com/vietddude/storefront/internal/infra/cache"
	"github.com/vietddude/storefront/internal/infra/storage/postgres"
)

// Config holds the application configuration.
type Config struct {
	Port     int
	API      config.APIConfig
	Cache    config.CacheConfig
	Redis    cache.RedisConfig
	Database postgres.Config
	Archive  config.ArchiveConfig
}

// App owns the executor, cache, chat client, dashboard accessor,
// archive worker and health server.
type App struct {
	cfg Config
	log *slog.Logger

	exec   *api.Executor
	store  cache.Store
	chat   *chat.Client
	dash   *dashboard.Accessor
	db     *postgres.DB
	redis  *cache.Redis
	memory *cache.Memory
	worker *archive.Worker

	healthServer *health.Server

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApp creates an App with all dependencies initialized.
func NewApp(cfg Config) (*App, error) {
	log := slog.Default()

	app := &App{cfg: cfg, log: log}

	// 1. Cache store
	switch cfg.Cache.Backend {
	case "redis":
		rds, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		app.redis = rds
		app.store = rds
	default:
		mem := cache.NewMemory(cache.WithSweepInterval(cfg.Cache.Sweep))
		app.memory = mem
		app.store = mem
	}

	// 2. Request executor
	token := cfg.API.Token
	app.exec = api.NewExecutor(cfg.API.BaseURL, cfg.API.Timeout,
		api.WithToken(func() string { return token }),
		api.WithLogger(log),
	)

	// 3. Clients
	app.chat = chat.NewClient(app.exec, chat.WithLogger(log))
	app.dash = dashboard.NewAccessor(app.exec, app.store, cfg.Cache.TTL, log)

	// 4. Archive storage (optional, like the rest of the archive pipeline)
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db

		if err := goose.SetDialect("postgres"); err != nil {
			return nil, fmt.Errorf("failed to set goose dialect: %w", err)
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		app.worker = archive.NewWorker(
			archive.Config{
				Interval: cfg.Archive.Interval,
				PageSize: cfg.Archive.PageSize,
				Products: cfg.Archive.Products,
			},
			app.chat,
			app.dash,
			postgres.NewMessageRepo(db),
			postgres.NewCursorRepo(db),
			log,
		)
	} else if len(cfg.Archive.Products) > 0 {
		log.Warn("archive products configured but no database URL set, archiving disabled")
	}

	// 5. Health monitoring
	monitor := health.NewMonitor()
	if app.db != nil {
		monitor.Register("database", func(ctx context.Context) error {
			return app.db.PingContext(ctx)
		})
	}
	if app.redis != nil {
		monitor.Register("redis", app.redis.Ping)
	}
	app.healthServer = health.NewServer(monitor, cfg.Port)

	return app, nil
}

// Chat returns the paginated message client.
func (a *App) Chat() *chat.Client { return a.chat }

// Dashboard returns the cache-backed dashboard accessor.
func (a *App) Dashboard() *dashboard.Accessor { return a.dash }

// Start launches the health server and the archive worker.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("health server failed", "error", err)
		}
	}()

	if a.worker != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.worker.Start(runCtx)
		}()
		a.log.Info("archive worker started",
			"products", len(a.cfg.Archive.Products),
			"interval", a.cfg.Archive.Interval,
		)
	}

	a.log.Info("storefront daemon started", "port", a.cfg.Port)
	return nil
}

// Stop shuts everything down, waiting for workers up to ctx's deadline.
func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.healthServer.Stop(ctx); err != nil {
		a.log.Error("health server shutdown failed", "error", err)
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}

	if a.db != nil {
		_ = a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.memory != nil {
		_ = a.memory.Close()
	}
	return nil
}
