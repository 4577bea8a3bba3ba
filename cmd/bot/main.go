package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/zeakmc/gatekeeper/internal/api/http"
	"github.com/zeakmc/gatekeeper/internal/api/http/handlers"
	"github.com/zeakmc/gatekeeper/internal/config"
	"github.com/zeakmc/gatekeeper/internal/correlate"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/observability"
	"github.com/zeakmc/gatekeeper/internal/persistence"
	"github.com/zeakmc/gatekeeper/internal/platform/discord"
	"github.com/zeakmc/gatekeeper/internal/repository"
	"github.com/zeakmc/gatekeeper/internal/service"
	"github.com/zeakmc/gatekeeper/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redis *persistence.Redis
	var sessions correlate.Store
	if cfg.Redis.Enabled {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		sessions = correlate.NewRedisStore(redis.Client, cfg.Feedback.TTL())
	} else {
		sessions = correlate.NewMemoryStore(cfg.Feedback.TTL())
	}

	pool := pg.PoolHandle()
	appRepo := repository.NewApplicationRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	guildRepo := repository.NewGuildConfigRepository(pool)
	statsRepo := repository.NewUserStatsRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	effector := discord.NewEffector(session)

	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		AppRepo:    appRepo,
		Dispatcher: dispatcher,
		Effector:   effector,
		Discord:    cfg.Discord,
		Logger:     logger,
		Metrics:    metrics,
	})
	feedbackService := service.NewFeedbackService(service.FeedbackDependencies{
		Sessions:     sessions,
		FeedbackRepo: feedbackRepo,
		GuildRepo:    guildRepo,
		Dispatcher:   dispatcher,
		Effector:     effector,
		Logger:       logger,
		Metrics:      metrics,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CategoryRepo: categoryRepo,
		GuildRepo:    guildRepo,
		StatsRepo:    statsRepo,
		Dispatcher:   dispatcher,
		Effector:     effector,
		Feedback:     feedbackService,
		Logger:       logger,
		Metrics:      metrics,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	guildService := service.NewGuildService(guildRepo)
	notificationService := service.NewNotificationService(dispatcher, guildRepo, effector, cfg.Discord, logger)
	auditRecorder := service.NewAuditRecorder(auditRepo, dispatcher, logger)

	worker.StartSubscribers(auditRecorder, notificationService)
	go worker.RunSessionSweeper(ctx, sessions, cfg.Feedback.SweepInterval(), logger)

	gateway := discord.NewDispatcher(discord.DispatcherDependencies{
		Session:    session,
		Apps:       applicationService,
		Tickets:    ticketService,
		Feedback:   feedbackService,
		Categories: categoryService,
		Guilds:     guildService,
		Notifier:   notificationService,
		Discord:    cfg.Discord,
		Logger:     logger,
		Metrics:    metrics,
	})
	gateway.Register()

	if err := session.Open(); err != nil {
		logger.Fatal("failed to open discord gateway", zap.Error(err))
	}
	defer session.Close()

	if err := gateway.RegisterCommands(); err != nil {
		logger.Fatal("failed to register commands", zap.Error(err))
	}
	logger.Info("gateway connected", zap.String("guild", cfg.Discord.GuildID))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Feedback: handlers.NewFeedbackHandler(feedbackService),
		Ops:      handlers.NewOpsHandler(metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
