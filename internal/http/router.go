package http

import (
	"time"

	"github.com/creatorlink/backend/internal/config"
	"github.com/creatorlink/backend/internal/http/handlers"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/rbac"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	campaignHandler *handlers.CampaignHandler,
	invitationHandler *handlers.InvitationHandler,
	negotiationHandler *handlers.NegotiationHandler,
	creatorHandler *handlers.CreatorHandler,
	lifecycleHandler *handlers.LifecycleHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)
	protected.Post("/me/ping", userHandler.Ping)

	// Creator public stats
	protected.Get("/creators/:handle/stats", creatorHandler.GetStats)

	// Campaigns
	protected.Post("/campaigns", middleware.RequirePermission(rbac.PermCreateCampaign), campaignHandler.CreateCampaign)
	protected.Get("/campaigns", campaignHandler.ListCampaigns)
	protected.Get("/campaigns/:id", campaignHandler.GetCampaign)
	protected.Put("/campaigns/:id", middleware.RequirePermission(rbac.PermManageCampaign), campaignHandler.UpdateCampaign)
	protected.Post("/campaigns/:id/launch", middleware.RequirePermission(rbac.PermManageCampaign), campaignHandler.LaunchCampaign)
	protected.Post("/campaigns/:id/cancel", middleware.RequirePermission(rbac.PermCancelCampaign), campaignHandler.CancelCampaign)
	protected.Get("/campaigns/:id/budget", campaignHandler.GetBudgetSummary)
	protected.Post("/campaigns/:id/budget/impact", campaignHandler.GetBudgetImpact)
	protected.Get("/campaigns/:id/budget/reservations", campaignHandler.GetBudgetReservations)
	protected.Get("/campaigns/:id/participants", campaignHandler.ListParticipants)
	protected.Get("/campaigns/:id/participation", campaignHandler.GetMyParticipation)
	protected.Post("/campaigns/:id/participants/:participantId/complete", middleware.RequirePermission(rbac.PermCompleteParticipant), campaignHandler.CompleteParticipant)
	protected.Get("/campaigns/:id/participants/:participantId/deliverables", campaignHandler.ListDeliverables)
	protected.Post("/campaigns/:id/participants/:participantId/deliverables/:deliverableId/submit", middleware.RequirePermission(rbac.PermSubmitDeliverable), campaignHandler.SubmitDeliverable)
	protected.Get("/campaigns/:id/snapshots", campaignHandler.ListSnapshots)
	protected.Post("/campaigns/:id/deliverables", middleware.RequirePermission(rbac.PermManageCampaign), campaignHandler.ScheduleDeliverable)

	// Invitations
	protected.Post("/invitations", middleware.RequirePermission(rbac.PermInviteCreator), invitationHandler.CreateInvitation)
	protected.Get("/invitations", invitationHandler.ListInvitations)
	protected.Get("/invitations/:id", invitationHandler.GetInvitation)
	protected.Post("/invitations/:id/accept", middleware.RequirePermission(rbac.PermRespondInvitation), invitationHandler.AcceptInvitation)
	protected.Post("/invitations/:id/decline", middleware.RequirePermission(rbac.PermRespondInvitation), invitationHandler.DeclineInvitation)
	protected.Post("/invitations/:id/withdraw", middleware.RequirePermission(rbac.PermInviteCreator), invitationHandler.WithdrawInvitation)
	protected.Put("/invitations/:id/payout", middleware.RequirePermission(rbac.PermInviteCreator), invitationHandler.UpdatePayout)
	protected.Get("/invitations/:id/events", invitationHandler.GetInvitationEvents)

	// Negotiations
	protected.Post("/invitations/:id/negotiations", middleware.RequirePermission(rbac.PermNegotiate), negotiationHandler.SubmitCounterOffer)
	protected.Get("/invitations/:id/negotiations", negotiationHandler.ListHistory)
	protected.Post("/negotiations/:negotiationId/respond", middleware.RequirePermission(rbac.PermNegotiate), negotiationHandler.RespondToNegotiation)

	// Admin sweeps
	admin := protected.Group("/admin", middleware.RequireRole(rbac.RoleAdmin))
	admin.Post("/lifecycle/transitions", lifecycleHandler.RunTransitionSweep)
	admin.Post("/lifecycle/reminders", lifecycleHandler.RunReminderSweep)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
