package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	configs "grading_service/config"
	"grading_service/internal/app"
	"grading_service/internal/cache"
	"grading_service/internal/extract"
	"grading_service/internal/grader"
	"grading_service/internal/repository"
	"grading_service/internal/server/handler"
	"grading_service/internal/server/middleware"
	"grading_service/internal/service"
	"grading_service/internal/storage"
	"grading_service/pkg/db"
	"grading_service/pkg/kafka"
	"grading_service/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pg, err := db.NewPostgres(ctx, dbConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	assignmentRepo := repository.NewAssignmentRepository(pg.Pool())
	rubricRepo := repository.NewRubricRepository(pg.Pool())
	submissionRepo := repository.NewSubmissionRepository(pg.Pool())
	pinRepo := repository.NewPinRepository(pg.Pool())

	files, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to init file storage: %v", err)
	}

	publisher, err := kafka.NewPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers})
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer publisher.Close()

	if cfg.Grader.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, submissions will be stored as Pending")
	}

	extractor := extract.New()

	ingestionService := service.NewIngestionService(service.IngestionDeps{
		Assignments:    assignmentRepo,
		Rubrics:        rubricRepo,
		Submissions:    submissionRepo,
		Files:          files,
		Extractor:      extractor,
		Grader:         grader.New(graderConfig(cfg.Grader)),
		Events:         publisher,
		EventsTopic:    cfg.Kafka.EventsTopic,
		PublishTimeout: cfg.Kafka.PublishTimeout,
		Logger:         log,
	})

	router := handler.NewRouter(handler.Services{
		Ingestion:   ingestionService,
		Submissions: service.NewSubmissionService(submissionRepo),
		Assignments: service.NewAssignmentService(assignmentRepo, submissionRepo, extractor),
		Rubrics:     service.NewRubricService(rubricRepo, assignmentRepo),
		Pins:        service.NewPinService(pinRepo, assignmentRepo),
	}, newAuthorizer(cfg, log), cfg.HTTP.MaxBodyBytes, log)

	reminders := service.NewReminderService(
		assignmentRepo,
		publisher,
		cfg.Kafka.RemindersTopic,
		cfg.Kafka.ReminderWindow,
		cfg.Kafka.ReminderInterval,
		log,
	)
	if len(cfg.Kafka.Brokers) > 0 {
		go NewReminderWorker(reminders, cfg.Kafka.ReminderInterval, log).Start(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Infof("Starting HTTP server on %s", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func dbConfig(cfg *configs.Config) db.Config {
	return db.Config{
		Host:           cfg.DB.Host,
		Port:           cfg.DB.Port,
		User:           cfg.DB.User,
		Password:       cfg.DB.Password,
		DBName:         cfg.DB.DBName,
		SSLMode:        cfg.DB.SSLMode,
		MaxConns:       cfg.DB.MaxConns,
		MinConns:       cfg.DB.MinConns,
		MigrationsPath: cfg.DB.MigrationsPath,
	}
}

func newStorage(ctx context.Context, cfg configs.StorageConfig) (storage.Storage, error) {
	if cfg.Backend == configs.StorageS3 {
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	}
	return storage.NewLocal(cfg.UploadDir)
}

func graderConfig(cfg configs.GraderConfig) grader.Config {
	return grader.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		MaxChars:    cfg.MaxChars,
		MaxAttempts: cfg.Retries + 1,
		RetryDelay:  cfg.RetryDelay,
	}
}

// newAuthorizer returns nil when no identity issuer is configured, which
// leaves the professor-only routes open.
func newAuthorizer(cfg *configs.Config, log *logger.Logger) middleware.Authorizer {
	if cfg.Identity.Issuer == "" {
		log.Warn("NETLIFY_ISSUER is not set, professor routes are not protected")
		return nil
	}

	var identityCache cache.Cache = cache.Nop{}
	if cfg.Redis.Address != "" {
		identityCache = cache.NewRedisCache(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	}

	return app.NewIdentityClient(cfg.Identity.Issuer, cfg.Identity.Timeout, identityCache, cfg.Identity.CacheTTL)
}
