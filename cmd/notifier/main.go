package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorlink/backend/internal/config"
	"github.com/creatorlink/backend/internal/db"
	"github.com/creatorlink/backend/internal/events"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// The notifier is a small delivery service. It accepts notifications over
// HTTP from the api and worker, subscribes to the Redis event channels,
// and forwards everything to the configured downstream webhook (mail
// gateway, chat bot, whatever the deployment wires up).
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	forwarder := &forwarder{
		webhookURL: cfg.NotifyWebhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		log:        log,
	}

	subscriber := events.NewRedisSubscriber(rdb, log)
	channels := []string{events.ChannelInvitation, events.ChannelCampaign, events.ChannelNegotiation, events.ChannelDeadline}
	if err := subscriber.SubscribeMany(ctx, channels, func(event events.Event) {
		forwarder.forward("event", map[string]any{"type": event.Type, "payload": event.Payload})
	}); err != nil {
		log.Fatal("event subscribe failed", zap.Error(err))
	}

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/notify", func(c *fiber.Ctx) error {
		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		forwarder.forward("notification", payload)
		return c.JSON(fiber.Map{"ok": true})
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down notifier")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.NotifierPort)
	log.Info("starting notifier", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

type forwarder struct {
	webhookURL string
	client     *http.Client
	log        *zap.Logger
}

func (f *forwarder) forward(kind string, payload map[string]any) {
	if f.webhookURL == "" {
		f.log.Info("notification", zap.String("kind", kind), zap.Any("payload", payload))
		return
	}

	body, err := json.Marshal(map[string]any{"kind": kind, "data": payload})
	if err != nil {
		return
	}
	resp, err := f.client.Post(f.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		f.log.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		f.log.Warn("webhook returned non-2xx", zap.Int("status", resp.StatusCode))
	}
}
