package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskboard/api/handler"
	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskboard/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskboard/internal/infrastructure/redis"
	"github.com/fastygo/taskboard/internal/metrics"
	"github.com/fastygo/taskboard/internal/middleware"
	"github.com/fastygo/taskboard/internal/router"
	"github.com/fastygo/taskboard/internal/services/lifecycle"
	"github.com/fastygo/taskboard/internal/token"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
	boltRepo "github.com/fastygo/taskboard/repository/bolt"
	"github.com/fastygo/taskboard/repository/postgres"
	redisRepo "github.com/fastygo/taskboard/repository/redis"
	"github.com/fastygo/taskboard/usecase"
	authUC "github.com/fastygo/taskboard/usecase/auth"
	collectionUC "github.com/fastygo/taskboard/usecase/collection"
	profileUC "github.com/fastygo/taskboard/usecase/profile"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

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

	var m *metrics.Metrics
	if cfg.HTTP.EnableMetrics {
		m = metrics.New(cfg.AppName)
	}

	var (
		collectionRepo repository.CollectionRepository
		taskRepo       repository.TaskRepository
		probes         []monitor.Probe
	)

	switch cfg.Store.Driver {
	case config.DriverBolt:
		db, err := boltdb.Open(cfg.Store.BoltPath, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		manager.RegisterCloser("bolt", db)
		collectionRepo = boltRepo.NewCollectionRepository(db)
		taskRepo = boltRepo.NewTaskRepository(db)
		probes = append(probes, monitor.BoltProbe(db))
		if err := m.GaugeFunc("store_records", "Collections and tasks held in the embedded store.", func() float64 {
			n, err := boltdb.Size(db)
			if err != nil {
				return 0
			}
			return float64(n)
		}); err != nil {
			zapLogger.Warn("store gauge not registered", zap.Error(err))
		}
	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})
		collectionRepo = postgres.NewCollectionRepository(pool)
		taskRepo = postgres.NewTaskRepository(pool)
		probes = append(probes, monitor.PostgresProbe(pool))
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	identity := usecase.ContextIdentity{}

	collectionUseCase := collectionUC.New(collectionRepo, identity, zapLogger)
	taskUseCase := taskUC.New(taskRepo, identity, zapLogger)
	profileUseCase := profileUC.New(collectionUseCase, identity, zapLogger)

	handlers := router.Handlers{
		Profile:    apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Collection: apiHandler.NewCollectionHandler(collectionUseCase, ctxAdapter, zapLogger),
		Task:       apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
	}

	var sessions middleware.SessionResolver
	if cfg.Redis.Enabled {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient)
		probes = append(probes, monitor.RedisProbe(redisClient))

		sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Redis.KeyPrefix, cfg.JWT.SessionTTL)
		authUseCase := authUC.New(sessionRepo, tokens, zapLogger, authUC.WithMaxTTL(cfg.JWT.SessionTTL))
		handlers.Auth = apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.DevLogin)
		if cfg.JWT.DevLogin {
			zapLogger.Warn("AUTH_DEV_LOGIN is enabled: /api/v1/auth/dev-login trusts the user id in the request body")
		}
		sessions = authUseCase
	}

	mon := monitor.New(cfg.Monitor.Interval, zapLogger, probes...)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})
	handlers.Health = apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger)

	authMiddleware := middleware.JWTAuth(tokens, sessions, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware, m)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
