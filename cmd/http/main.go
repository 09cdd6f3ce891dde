package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/infrastructure/configs"
	"github.com/newswired/livedesk/internal/infrastructure/env"
	"github.com/newswired/livedesk/internal/infrastructure/events"
	"github.com/newswired/livedesk/internal/infrastructure/feed"
	"github.com/newswired/livedesk/internal/infrastructure/logging"
	"github.com/newswired/livedesk/internal/infrastructure/media"
	"github.com/newswired/livedesk/internal/infrastructure/messaging"
	"github.com/newswired/livedesk/internal/infrastructure/presence"
	"github.com/newswired/livedesk/internal/infrastructure/ratelimiter"
	inmemory "github.com/newswired/livedesk/internal/infrastructure/repository"
	"github.com/newswired/livedesk/internal/infrastructure/tracing"
	"github.com/newswired/livedesk/internal/live"
	"github.com/newswired/livedesk/internal/persistence/db"
	"github.com/newswired/livedesk/internal/persistence/repository"
	"github.com/newswired/livedesk/internal/presentation/api"
	eventsHandler "github.com/newswired/livedesk/internal/presentation/handler/events"
	healthHandler "github.com/newswired/livedesk/internal/presentation/handler/health"
	mediaHandler "github.com/newswired/livedesk/internal/presentation/handler/media"
	updatesHandler "github.com/newswired/livedesk/internal/presentation/handler/updates"
	"go.uber.org/zap"
)

const (
	serviceName = "livedesk-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	appLogger := logging.NewLogger(logging.NewDefaultConfig())

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	eventRepo, updateRepo, disconnect := buildRepositories(ctx, cfg)
	defer disconnect()

	hub := feed.NewHub(updateRepo.ListByEvent, cfg.Feed.SubscriberBuffer, appLogger)
	go hub.Run()
	defer hub.Stop()

	var publisher *events.CoveragePublisher
	if cfg.RabbitMQ.Enabled {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URI)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitmq.Close()

		log.Println("Starting RabbitMQ connection")

		publisher = events.NewCoveragePublisher(rabbitmq)

		consumer := events.NewCoverageConsumer(rabbitmq, appLogger)
		go consumer.Listen()
	}

	var tracker *presence.Tracker
	if cfg.Redis.Enabled {
		tracker = presence.NewTracker(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer tracker.Close()

		if err := tracker.Ping(ctx); err != nil {
			logger.Warnw("redis unreachable, presence will report degraded", "err", err)
		}
	}

	service := live.NewService(eventRepo, updateRepo, hub, publisher, appLogger)

	uploader := media.NewUploader(cfg.Media.UploadURL, cfg.Media.UploadTimeout, cfg.Media.MaxUploadSize)

	evHandler := eventsHandler.NewHandler(service)
	upHandler := updatesHandler.NewHandler(service, tracker)
	mdHandler := mediaHandler.NewHandler(uploader, cfg.Media.MaxUploadSize)
	hlHandler := healthHandler.NewHandler()

	rl := ratelimiter.NewFixedWindow(cfg.RateLimiter.MaxRequests, cfg.RateLimiter.Window)
	defer rl.Close()

	app := api.NewApplication(*cfg, *evHandler, *upHandler, *mdHandler, *hlHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}

// buildRepositories picks the store backend. Mongo is the default; the
// in-memory variant exists for single-node dev runs.
func buildRepositories(ctx context.Context, cfg *configs.Config) (domain.EventRepository, domain.UpdateRepository, func()) {
	if env.GetString("STORE_BACKEND", "mongo") == "memory" {
		return inmemory.NewEventRepository(), inmemory.NewUpdateRepository(), func() {}
	}

	mongoCfg := &db.MongoConfig{
		URI:               cfg.Mongo.URI,
		Database:          cfg.Mongo.Database,
		ConnectionTimeout: cfg.Mongo.ConnectionTimeout,
	}

	client, err := db.NewMongoClient(ctx, mongoCfg)
	if err != nil {
		log.Fatal(err)
	}

	database := db.GetDatabase(client, mongoCfg)
	if err := repository.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to ensure mongodb indexes: %v", err)
	}

	disconnect := func() {
		if err := db.DisconnectMongo(context.Background(), client); err != nil {
			log.Printf("mongodb disconnect: %v", err)
		}
	}

	return repository.NewEventRepository(database), repository.NewUpdateRepository(database), disconnect
}
