// File: dutynotify/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dutynotify/config"
	"dutynotify/cron"
	"dutynotify/database"
	notificationRepo "dutynotify/database/repository/notification"
	userRepo "dutynotify/database/repository/user"
	"dutynotify/handlers"
	"dutynotify/metrics"
	"dutynotify/middleware"
	"dutynotify/routes"
	"dutynotify/services/account"
	"dutynotify/services/duty"
	"dutynotify/services/facultystatus"
	"dutynotify/services/identity"
	"dutynotify/services/notification"
	"dutynotify/services/storage"
	"dutynotify/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fb, err := utils.FirebaseInit(ctx, cfg)
	if err != nil {
		logger.Fatal("main: failed to initialize firebase", zap.Error(err))
	}
	defer fb.Close()

	healthTargets := map[string]utils.Pinger{}

	// repositories.
	var (
		users   userRepo.UserRepository
		records notificationRepo.NotificationRepository
		mongoDB *mongo.Database
	)
	switch cfg.Datastore {
	case "firestore":
		users = userRepo.NewFirestoreUserRepo(fb.Firestore)
		records = notificationRepo.NewFirestoreNotificationRepo(fb.Firestore)
	case "mongo":
		client, err := database.InitDB(cfg)
		if err != nil {
			logger.Fatal("main: failed to connect to mongo", zap.Error(err))
		}
		defer client.Disconnect(context.Background())
		mongoDB = client.Database(cfg.DatabaseName)
		users = userRepo.NewMongoUserRepo(ctx, mongoDB, logger)
		records = notificationRepo.NewMongoNotificationRepo(ctx, client, mongoDB, logger)
		healthTargets["mongo"] = utils.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		})
	default:
		logger.Fatal("main: unsupported DATASTORE", zap.String("datastore", cfg.Datastore))
	}

	assets, err := newAssetStore(ctx, cfg, fb)
	if err != nil {
		logger.Fatal("main: failed to initialize blob store", zap.String("backend", cfg.BlobBackend), zap.Error(err))
	}

	authCache, err := utils.NewAuthCacheClient(cfg)
	if err != nil {
		logger.Fatal("main: failed to initialize auth cache", zap.Error(err))
	}
	defer authCache.Close()
	healthTargets["redis"] = utils.PingFunc(func(ctx context.Context) error {
		return authCache.Ping(ctx).Err()
	})

	// services.
	verifier := identity.NewCachingVerifier(fb.Auth, identity.NewRedisTokenCache(authCache), cfg.IDTokenCacheTTL, logger)
	writer := notification.NewRecordWriter(records)
	dispatcher, err := notification.NewFCMDispatcher(fb.Messaging, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize push dispatcher", zap.Error(err))
	}
	notifier := notification.NewNotifier(writer, dispatcher, logger)

	dutyHandler := duty.NewHandler(users, notifier, cfg.DisplayLocation(), logger)
	statusHandler := facultystatus.NewHandler(users, writer, logger)
	orchestrator := account.NewOrchestrator(identity.NewFirebaseProvider(fb.Auth, logger), users, assets, logger)

	// trigger pipeline.
	queueClient := asynq.NewClient(cron.RedisOpt(cfg))
	defer queueClient.Close()
	publisher := cron.NewPublisher(queueClient, cfg.QueueMaxRetry)

	worker := cron.NewWorker(cfg, cron.NewServeMux(dutyHandler, statusHandler, logger), logger)
	worker.Start()
	defer worker.Shutdown()

	if cfg.WatchChangeStreams {
		if mongoDB == nil {
			logger.Warn("main: WATCH_CHANGE_STREAMS needs DATASTORE=mongo, watcher disabled")
		} else {
			cron.NewChangeStreamWatcher(mongoDB, publisher, logger).Start(ctx)
		}
	}
	if cfg.TriggerSecret == "" {
		logger.Warn("main: TRIGGER_SECRET is empty, trigger ingress will reject every delivery")
	}

	monitor := utils.NewHealthMonitor(healthTargets)
	monitor.Start(ctx, 30*time.Second)

	accountHandler := handlers.NewAccountHandler(orchestrator, verifier, logger)
	triggerHandler := handlers.NewTriggerHandler(publisher, logger)

	handlerBundle := &handlers.HandlerBundle{
		DeleteUserAccountHandler: accountHandler.DeleteUserAccountHandler,

		DutyCreatedHandler:          triggerHandler.DutyCreatedHandler,
		FacultyStatusUpdatedHandler: triggerHandler.FacultyStatusUpdatedHandler,

		HealthHandler:  handlers.HealthHandler(monitor),
		MetricsHandler: gin.WrapH(metrics.Handler()),

		CallerAuth:  middleware.FirebaseCallerMiddleware(verifier, logger),
		TriggerAuth: middleware.TriggerAuthMiddleware([]byte(cfg.TriggerSecret), logger),
		RateLimit:   middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}

// newAssetStore builds the blob store that holds profile pictures.
func newAssetStore(ctx context.Context, cfg config.Config, fb *utils.FirebaseClients) (storage.AssetStore, error) {
	switch cfg.BlobBackend {
	case "firebase":
		return storage.NewFirebaseStorageService(fb.Storage, cfg.FirebaseStorageBucket)
	case "cloudinary":
		cld, err := utils.Cloudinary(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewCloudinaryStorageService(cld), nil
	case "s3":
		client, err := utils.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3StorageService(client, cfg.S3Bucket)
	default:
		return nil, fmt.Errorf("unsupported BLOB_BACKEND %q", cfg.BlobBackend)
	}
}
