package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorlink/backend/internal/config"
	"github.com/creatorlink/backend/internal/db"
	"github.com/creatorlink/backend/internal/events"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"go.uber.org/zap"
)

// The worker runs the time-based campaign lifecycle sweep and the
// deliverable deadline reminder sweep on tickers.
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
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

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	campaignRepo := repositories.NewCampaignRepo(pool)
	participantRepo := repositories.NewParticipantRepo(pool)
	reservationRepo := repositories.NewReservationRepo(pool)
	snapshotRepo := repositories.NewSnapshotRepo(pool)
	deliverableRepo := repositories.NewDeliverableRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	publisher := events.NewRedisPublisher(rdb, log)
	notifier := services.NewNotifierClient(cfg.NotifierURL, log)
	lifecycleService := services.NewLifecycleService(
		pool,
		campaignRepo, participantRepo, reservationRepo, snapshotRepo,
		deliverableRepo, auditRepo, publisher, notifier, log,
		cfg.ReminderWindow, cfg.ReviewWindow(),
	)

	log.Info("worker started",
		zap.Duration("sweep_interval", cfg.SweepInterval),
		zap.Duration("reminder_interval", cfg.ReminderInterval),
	)

	transitionTicker := time.NewTicker(cfg.SweepInterval)
	reminderTicker := time.NewTicker(cfg.ReminderInterval)
	defer transitionTicker.Stop()
	defer reminderTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-transitionTicker.C:
			if err := lifecycleService.CheckTransitions(ctx); err != nil {
				log.Error("transition sweep failed", zap.Error(err))
			}
		case <-reminderTicker.C:
			if err := lifecycleService.CheckDeadlineReminders(ctx); err != nil {
				log.Error("reminder sweep failed", zap.Error(err))
			}
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}
