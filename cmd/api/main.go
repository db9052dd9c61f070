package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/creatorlink/backend/internal/config"
	"github.com/creatorlink/backend/internal/db"
	"github.com/creatorlink/backend/internal/events"
	apphttp "github.com/creatorlink/backend/internal/http"
	"github.com/creatorlink/backend/internal/http/handlers"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"github.com/creatorlink/backend/internal/socialstats"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{
		MaxConns: int32(cfg.PostgresMaxConn),
		MinConns: int32(cfg.PostgresMinConn),
	}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	invitationRepo := repositories.NewInvitationRepo(pool)
	negotiationRepo := repositories.NewNegotiationRepo(pool)
	participantRepo := repositories.NewParticipantRepo(pool)
	reservationRepo := repositories.NewReservationRepo(pool)
	deliverableRepo := repositories.NewDeliverableRepo(pool)
	snapshotRepo := repositories.NewSnapshotRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	notifier := services.NewNotifierClient(cfg.NotifierURL, log)
	budgetService := services.NewBudgetService(pool, campaignRepo, invitationRepo, reservationRepo, auditRepo, log)
	invitationService := services.NewInvitationService(pool, invitationRepo, campaignRepo, participantRepo, reservationRepo, auditRepo, budgetService, publisher, log)
	negotiationService := services.NewNegotiationService(pool, negotiationRepo, invitationRepo, campaignRepo, participantRepo, invitationService, auditRepo, publisher, log)
	campaignService := services.NewCampaignService(pool, campaignRepo, invitationRepo, participantRepo, deliverableRepo, snapshotRepo, auditRepo, budgetService, publisher, log)
	lifecycleService := services.NewLifecycleService(pool, campaignRepo, participantRepo, reservationRepo, snapshotRepo, deliverableRepo, auditRepo, publisher, notifier, log, cfg.ReminderWindow, cfg.ReviewWindow())
	statsFetcher := socialstats.NewFetcher("https://t.me/s", cfg.StatsFetchTimeout, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, budgetService, lifecycleService, log)
	invitationHandler := handlers.NewInvitationHandler(invitationService, log)
	negotiationHandler := handlers.NewNegotiationHandler(negotiationService, log)
	creatorHandler := handlers.NewCreatorHandler(statsFetcher, log)
	lifecycleHandler := handlers.NewLifecycleHandler(lifecycleService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	wsHub.Start(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, campaignHandler, invitationHandler, negotiationHandler, creatorHandler, lifecycleHandler, wsHub)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
