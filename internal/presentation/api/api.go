package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/newswired/livedesk/internal/infrastructure/configs"
	"github.com/newswired/livedesk/internal/infrastructure/metrics"
	"github.com/newswired/livedesk/internal/infrastructure/ratelimiter"
	eventsHandler "github.com/newswired/livedesk/internal/presentation/handler/events"
	healthHandler "github.com/newswired/livedesk/internal/presentation/handler/health"
	mediaHandler "github.com/newswired/livedesk/internal/presentation/handler/media"
	updatesHandler "github.com/newswired/livedesk/internal/presentation/handler/updates"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Application struct {
	config         configs.Config
	eventsHandler  eventsHandler.Handler
	updatesHandler updatesHandler.Handler
	mediaHandler   mediaHandler.Handler
	healthHandler  healthHandler.Handler
	logger         *zap.SugaredLogger
	ratelimiter    *ratelimiter.FixedWindow
}

func NewApplication(
	config configs.Config,
	eventsHandler eventsHandler.Handler,
	updatesHandler updatesHandler.Handler,
	mediaHandler mediaHandler.Handler,
	healthHandler healthHandler.Handler,
	logger *zap.SugaredLogger,
	ratelimiter *ratelimiter.FixedWindow,
) *Application {
	return &Application{
		config:         config,
		eventsHandler:  eventsHandler,
		updatesHandler: updatesHandler,
		mediaHandler:   mediaHandler,
		healthHandler:  healthHandler,
		logger:         logger,
		ratelimiter:    ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Post("/", app.eventsHandler.CreateEventHandler)
			r.Get("/", app.eventsHandler.ListEventsHandler)
			r.Get("/{idOrSlug}", app.eventsHandler.GetEventHandler)
			r.Patch("/{eventId}/status", app.eventsHandler.SetStatusHandler)
			r.Delete("/{eventId}", app.eventsHandler.DeleteEventHandler)

			r.Post("/{eventId}/updates", app.updatesHandler.PushUpdateHandler)
			r.Get("/{eventId}/updates", app.updatesHandler.ListUpdatesHandler)
			r.Get("/{eventId}/subscribe", app.updatesHandler.SubscribeHandler)
		})

		r.Post("/media", app.mediaHandler.UploadHandler)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", metrics.Handler())

	return otelhttp.NewHandler(r, "livedesk-http")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
