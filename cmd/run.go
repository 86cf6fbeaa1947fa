package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pickem/application"
	"pickem/config"
	"pickem/database"
	"pickem/domain/events"
	"pickem/domain/interfaces"
	"pickem/domain/services"
	"pickem/domain/utils"
	"pickem/handlers"
	"pickem/infrastructure"
	"pickem/infrastructure/notifier"
	"pickem/infrastructure/observability"
	"pickem/infrastructure/sportsfeed"
	"pickem/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the service
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.Infof("Starting pickem in %s mode...", cfg.Environment)

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), poolSettings(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize event publishing. Without NATS the publisher still runs local handlers.
	var natsClient *infrastructure.NATSClient
	eventPublisher := infrastructure.NewNATSEventPublisher(nil, infrastructure.NewEventSubjectMapper())
	if cfg.NATSServers != "" {
		log.Info("Connecting to NATS...")
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		eventPublisher = infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
		if err := eventPublisher.EnsureDomainEventStream(natsClient); err != nil {
			log.WithError(err).Warn("Failed to ensure domain event stream")
		}
		log.Info("NATS connection established successfully")
	} else {
		log.Info("NATS_SERVERS not set, domain events stay in-process")
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)
	registerMetricsHandlers(uowFactory)

	location, err := utils.LoadCanonicalLocation(cfg.CanonicalTimezone)
	if err != nil {
		closeNATS(natsClient)
		db.Close()
		return err
	}

	// Sports feed, optionally behind the Redis cache
	var feed interfaces.SportsFeed = sportsfeed.NewClient(cfg.SportsFeedBaseURL, cfg.SportsFeedRatePerSec, cfg.SportsFeedTimeout)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = sportsfeed.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, sports feed runs uncached")
			redisClient = nil
		} else {
			feed = sportsfeed.NewCachedFeed(feed, redisClient)
			log.Info("Sports feed cache enabled")
		}
	}

	// Contest notifications
	var contestNotifier interfaces.ContestNotifier = notifier.NewLogNotifier()
	var kafkaNotifier *notifier.KafkaNotifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier = notifier.NewKafkaNotifier(notifier.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaContestTopic))
		contestNotifier = kafkaNotifier
		log.WithField("topic", cfg.KafkaContestTopic).Info("Contest notifications go to Kafka")
	}

	commands := application.NewCommands(uowFactory, contestNotifier, cfg.Policy, location)

	// Background jobs
	jobMetrics := observability.GetMetrics()
	ingestion := application.NewScoringIngestionWorker(
		uowFactory,
		services.NewSnapshotBuilder(feed, cfg.Policy.Scoring),
		jobMetrics,
	)
	scheduler := application.NewScheduler(jobMetrics)
	scheduler.Add(application.NewStatusTransitionWorker(uowFactory, cfg.Policy.MinParticipants), cfg.StatusInterval)
	scheduler.Add(ingestion, cfg.IngestionInterval)
	scheduler.Add(application.NewSettlementWorker(uowFactory, ingestion, location), cfg.SettlementInterval)
	scheduler.Add(application.NewGhostCancellationWorker(uowFactory, cfg.Policy.MinParticipants), cfg.GhostInterval)
	scheduler.Add(application.NewLeaderboardRebuildWorker(uowFactory), cfg.LeaderboardInterval)

	stopScheduler, err := scheduler.Start(ctx)
	if err != nil {
		closeNATS(natsClient)
		db.Close()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Info("Background jobs started")

	// HTTP API
	app := fiber.New(fiber.Config{
		AppName:               "pickem",
		DisableStartupMessage: true,
	})
	handlers.RegisterRoutes(app, handlers.NewHandler(commands), handlers.RouteConfig{
		GatewayToken:  cfg.GatewayToken,
		WebhookSecret: cfg.WebhookSecret,
		Metrics:       middleware.NewHTTPMetrics(prometheus.NewRegistry()),
		HealthCheck:   healthCheck(db, natsClient),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		serverErr <- app.Listen(cfg.HTTPAddr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	// Cleanup resources
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}
	stopScheduler()

	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			log.WithError(err).Error("Error closing Kafka writer")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis client")
		}
	}
	closeNATS(natsClient)

	log.Info("Closing database connection...")
	db.Close()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return runErr
}

// ConfigureLogging applies the configured level and uses JSON output in production
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func poolSettings(cfg *config.Config) database.PoolSettings {
	return database.PoolSettings{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		ApplicationName: "pickem",
	}
}

// registerMetricsHandlers counts flushed domain events
func registerMetricsHandlers(uowFactory *infrastructure.UnitOfWorkFactory) {
	uowFactory.RegisterLocalHandler(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			observability.GetMetrics().RecordLedgerGrant(string(e.Source), true)
		}
		return nil
	})
	uowFactory.RegisterLocalHandler(events.EventTypeContestSettled, func(ctx context.Context, event events.Event) error {
		observability.GetMetrics().RecordContestSettled()
		return nil
	})
	uowFactory.RegisterLocalHandler(events.EventTypeContestCancelled, func(ctx context.Context, event events.Event) error {
		observability.GetMetrics().RecordContestCancelled()
		return nil
	})
}

// healthCheck pings the database and, when configured, requires a live NATS connection
func healthCheck(db *database.DB, natsClient *infrastructure.NATSClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		if natsClient != nil && !natsClient.IsConnected() {
			return errors.New("nats disconnected")
		}
		return nil
	}
}

func closeNATS(client *infrastructure.NATSClient) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.WithError(err).Error("Error closing NATS connection")
	}
}
