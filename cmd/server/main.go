package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskflow/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskflow/internal/infrastructure/redis"
	"github.com/fastygo/taskflow/internal/infrastructure/snapshot"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/internal/router"
	"github.com/fastygo/taskflow/internal/services"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/pkg/logger"
	"github.com/fastygo/taskflow/repository"
	boltRepo "github.com/fastygo/taskflow/repository/boltdb"
	pgRepo "github.com/fastygo/taskflow/repository/postgres"
	redisRepo "github.com/fastygo/taskflow/repository/redis"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type collectionBackend interface {
	repository.CollectionStorage
	repository.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	storage, err := openStorage(appCtx, cfg, zapLogger, manager)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	store := taskUC.New(storage, zapLogger.Named("tasks"))
	if cfg.Storage.SeedOnStart {
		seeded, err := store.InitializeWithSamples(appCtx)
		if err != nil {
			zapLogger.Fatal("failed to seed sample tasks", zap.Error(err))
		}
		if seeded {
			zapLogger.Info("sample tasks created")
		}
	}

	var snapshots monitor.SnapshotCounter
	if cfg.Snapshot.Enabled {
		archive, err := snapshot.Open(cfg.Snapshot.Path, "")
		if err != nil {
			zapLogger.Fatal("failed to open snapshot archive", zap.Error(err))
		}
		manager.Register("snapshot_archive", func(ctx context.Context) error {
			return archive.Close()
		})
		snapshots = archive

		snapshotter := services.NewSnapshotter(storage, archive, zapLogger.Named("snapshots"), services.SnapshotConfig{
			Interval:  cfg.Snapshot.Interval,
			Retention: time.Duration(cfg.Snapshot.RetentionHours) * time.Hour,
			Driver:    cfg.Storage.Driver,
		})
		snapshotter.Start()
		manager.Register("snapshotter", func(ctx context.Context) error {
			snapshotter.Stop(ctx)
			return nil
		})
	}

	mon := monitor.New(cfg.Storage.Driver, storage, snapshots, cfg.Storage.PingInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(store, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	manager.Go("http_server", func() error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
		)
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStorage connects the configured backend and registers its teardown.
func openStorage(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger, manager *lifecycle.Manager) (collectionBackend, error) {
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		storage, err := boltRepo.Open(cfg.Storage.BoltPath, cfg.Storage.Key)
		if err != nil {
			return nil, err
		}
		manager.Register("boltdb", func(context.Context) error {
			return storage.Close()
		})
		zapLogger.Info("using boltdb storage", zap.String("path", cfg.Storage.BoltPath))
		return storage, nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("redis", func(context.Context) error {
			return client.Close()
		})
		return redisRepo.NewStorage(client, cfg.Storage.Key), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		return pgRepo.NewStorage(pool, cfg.Storage.Key), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
