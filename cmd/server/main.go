package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/tahseenomar/slack-visitor-bot/internal/http/handlers"
	internalmw "github.com/tahseenomar/slack-visitor-bot/internal/http/middleware"
	"github.com/tahseenomar/slack-visitor-bot/internal/platform/calendar"
	"github.com/tahseenomar/slack-visitor-bot/internal/platform/mailer"
	"github.com/tahseenomar/slack-visitor-bot/internal/platform/slackapi"
	"github.com/tahseenomar/slack-visitor-bot/internal/service"
	"github.com/tahseenomar/slack-visitor-bot/internal/timeparse"
	"github.com/tahseenomar/slack-visitor-bot/pkg/config"
	"github.com/tahseenomar/slack-visitor-bot/pkg/events"
	"github.com/tahseenomar/slack-visitor-bot/pkg/logger"
	mw "github.com/tahseenomar/slack-visitor-bot/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Slack.BotToken == "" || cfg.Slack.SigningSecret == "" {
		logger.Error("SLACK_BOT_TOKEN and SLACK_SIGNING_SECRET are required")
		os.Exit(1)
	}

	parser, err := timeparse.New(cfg.Visitor.Timezone)
	if err != nil {
		logger.Error("Failed to load visitor timezone", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Long-lived clients, constructed once and passed by interface.
	slackClient := slackapi.NewClient(cfg.Slack.BotToken, cfg.Slack.CallTimeout)

	calendarClient, err := calendar.NewGoogle(ctx, cfg.Calendar, cfg.Visitor.Timezone)
	if err != nil {
		logger.Error("Failed to initialize Google Calendar client", "error", err)
		os.Exit(1)
	}

	var eventBus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		eventBus = bus
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Failed to parse REDIS_URL", "error", err)
			os.Exit(1)
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	mail := mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)

	// Initialize services
	validator := service.NewValidator(parser)
	visitService := service.NewVisitService(parser, slackClient, calendarClient, eventBus, mail, cfg)

	limiter := internalmw.NewRateLimiter(redisClient, internalmw.RateLimitConfig{
		Requests: cfg.Visitor.RateLimitRequests,
		Window:   cfg.Visitor.RateLimitWindow,
	})

	h := handlers.New(slackClient, validator, visitService, limiter)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("visitor-bot"))
	r.Use(mw.Logging)
	r.Use(mw.Health)

	r.Route("/slack", func(r chi.Router) {
		r.Use(internalmw.VerifySlackSignature(cfg.Slack.SigningSecret))
		r.Post("/events", h.HandleSlackEvents)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down visitor bot...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Visitor bot shutdown error", "error", err)
		}
	}()

	logger.Info("Starting visitor bot", "port", cfg.Server.Port, "office", cfg.Visitor.OfficeName)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Visitor bot server error", "error", err)
		os.Exit(1)
	}
}
