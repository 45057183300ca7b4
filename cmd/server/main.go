package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"recipebook/internal/config"
	appdb "recipebook/internal/db"
	"recipebook/internal/db/mock"
	applog "recipebook/internal/log"
	"recipebook/internal/server"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = appdb.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	defer applog.Sync()

	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}
	defer closeDatabase(ctx, db)

	srv, err := newServerFunc(server.Config{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		RateLimit:         cfg.Server.RateLimit,
		RateLimitBurst:    cfg.Server.RateLimitBurst,
		Database:          db,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr, "mockDatabase", cfg.Database.UseMock)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case sig := <-shutdown:
			applog.Info(ctx, "shutting down http server", "signal", sig.String())
		case <-gctx.Done():
			// The listener failed; there is nothing left to stop.
			if ctx.Err() == nil {
				return nil
			}
			applog.Info(ctx, "shutting down http server", "reason", ctx.Err())
		}
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}

	applog.Info(ctx, "server stopped gracefully")
	return 0
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseMock {
		applog.Info(ctx, "using in-memory mock database")
		return newMockDatabaseFunc(ctx)
	}
	return configureDatabase(cfg)
}

func closeDatabase(ctx context.Context, db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		applog.Warn(ctx, "failed to close database", "error", err)
	}
}
