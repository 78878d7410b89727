package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"adboard/internal/app/policies"
	authsvc "adboard/internal/app/services/auth"
	listingsvc "adboard/internal/app/services/listing"
	moderationsvc "adboard/internal/app/services/moderation"
	reservationsvc "adboard/internal/app/services/reservation"
	domainbillboard "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	domaincomplaint "adboard/internal/domain/complaint"
	domainuser "adboard/internal/domain/user"
	"adboard/internal/infra/broker/kafka"
	"adboard/internal/infra/config"
	mongodb "adboard/internal/infra/db/mongo"
	ginserver "adboard/internal/infra/http/gin"
	"adboard/internal/infra/obs"
	"adboard/internal/infra/security"
	"adboard/internal/infra/storage/memory"
	"adboard/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	repos, cleanupStore, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer cleanupStore()

	notifier, cleanupBroker := buildNotifier(ctx, cfg, logger)
	defer cleanupBroker()

	uploader := buildUploader(cfg, logger)

	authService := &authsvc.Service{
		Users:     repos.users,
		Passwords: security.BcryptHasher{Cost: cfg.BcryptCost},
		Tokens:    security.JWTCodec{Secret: []byte(cfg.JWTSecret)},
		TokenTTL:  cfg.TokenTTL,
		Logger:    logger,
	}
	listingService := &listingsvc.Service{
		Billboards: repos.billboards,
		Bookings:   repos.bookings,
		Uploader:   uploader,
		Logger:     logger,
	}
	reservationService := &reservationsvc.Service{
		Bookings:   repos.bookings,
		Billboards: repos.billboards,
		Users:      repos.users,
		Notifier:   notifier,
		Logger:     logger,
	}
	moderationService := &moderationsvc.Service{
		Billboards: repos.billboards,
		Bookings:   repos.bookings,
		Complaints: repos.complaints,
		Users:      repos.users,
		Notifier:   notifier,
		Logger:     logger,
	}

	handlers := ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Billboard:      ginserver.BillboardHandler{Service: listingService, Logger: logger},
		Booking:        ginserver.BookingHandler{Service: reservationService, Logger: logger},
		Complaint:      ginserver.ComplaintHandler{Service: moderationService, Logger: logger},
		Admin:          ginserver.AdminHandler{Service: moderationService, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: repos.ready,
	}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type repositories struct {
	users      domainuser.Repository
	billboards domainbillboard.Repository
	bookings   domainbooking.Repository
	complaints domaincomplaint.Repository
	ready      func() error
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, using in-memory storage")
		return repositories{
			users:      memory.NewUserRepository(),
			billboards: memory.NewBillboardRepository(),
			bookings:   memory.NewBookingRepository(),
			complaints: memory.NewComplaintRepository(),
			ready:      func() error { return nil },
		}, func() {}, nil
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return repositories{}, nil, err
	}
	users := mongodb.NewUserRepository(client.DB)
	billboards := mongodb.NewBillboardRepository(client.DB)
	bookings := mongodb.NewBookingRepository(client.DB)
	complaints := mongodb.NewComplaintRepository(client.DB)

	indexCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	for _, ensure := range []func(context.Context) error{
		users.EnsureIndexes,
		bookings.EnsureIndexes,
		complaints.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Warn("index creation failed", "error", err)
		}
	}

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(closeCtx); err != nil {
			logger.Error("mongo disconnect failed", "error", err)
		}
	}
	return repositories{
		users:      users,
		billboards: billboards,
		bookings:   bookings,
		complaints: complaints,
		ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
	}, cleanup, nil
}

func buildNotifier(ctx context.Context, cfg config.Config, logger *slog.Logger) (policies.Notifier, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, notification dispatch disabled")
		return policies.NoopNotifier{}, func() {}
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Error("kafka producer init failed, notification dispatch disabled", "error", err)
		return policies.NoopNotifier{}, func() {}
	}

	worker, err := kafka.NewDeliveryWorker(cfg.KafkaBrokers, "adboard-notifications", cfg.KafkaTopicPrefix, nil, kafka.LogDelivery(logger), logger)
	if err != nil {
		logger.Error("kafka delivery worker init failed", "error", err)
		return kafka.NewNotifier(producer, cfg.KafkaTopicPrefix, logger), func() {
			if err := producer.Close(); err != nil {
				logger.Error("kafka producer close failed", "error", err)
			}
		}
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("kafka delivery worker stopped", "error", err)
		}
	}()

	cleanup := func() {
		if err := worker.Close(); err != nil {
			logger.Error("kafka delivery worker close failed", "error", err)
		}
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
	return kafka.NewNotifier(producer, cfg.KafkaTopicPrefix, logger), cleanup
}

func buildUploader(cfg config.Config, logger *slog.Logger) policies.Uploader {
	client, err := s3.NewClient(
		cfg.S3Endpoint,
		cfg.S3UseSSL,
		cfg.S3AccessKey,
		cfg.S3SecretKey,
		cfg.S3Bucket,
		cfg.S3PublicEndpoint,
		logger,
	)
	if err != nil {
		logger.Warn("s3 uploader unavailable, image uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}
