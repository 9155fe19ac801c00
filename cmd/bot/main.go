package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pickbot/internal/access"
	"pickbot/internal/bot"
	"pickbot/internal/logger"
	"pickbot/internal/publish"
	"pickbot/internal/scheduler"
	"pickbot/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}
	loc, err := cfg.Location()
	must(err)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to create Telegram bot", err)
		os.Exit(1)
	}
	botAPI.Debug = false
	logger.Info(ctx, "Authorized on account", "username", botAPI.Self.UserName)

	accessStore, closeStore, err := initializeAccessStore(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open access store", err)
		os.Exit(1)
	}
	defer closeStore()

	selector, err := initializeSelector(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to configure odds selector", err)
		os.Exit(1)
	}
	commentary := initializeCommentary(ctx, cfg, loc)
	publisher := publish.NewTelegramPublisher(botAPI)
	sched := initializeScheduler(ctx, cfg, loc, selector, commentary, publisher)

	ticker, err := scheduler.NewCronTicker(cfg.Schedule.Cron, loc)
	if err != nil {
		logger.ErrorWithErr(ctx, "Invalid schedule", err)
		os.Exit(1)
	}
	ticker.Start()
	defer ticker.Stop()

	ops := initializeHealth(ctx, cfg, ticker)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.UpdateTimeout
	updates := botAPI.GetUpdatesChan(u)

	b := bot.New(bot.Params{
		Sender:              botAPI,
		Gate:                access.NewGate(cfg.Access.Secret, accessStore),
		Selector:            selector,
		Scheduler:           sched,
		Location:            loc,
		PublishRequiresAuth: cfg.Access.PublishRequiresAuth,
	})

	logger.Info(ctx, "Bot started",
		"channel_id", cfg.Telegram.ChannelID,
		"schedule", cfg.Schedule.Cron,
		"timezone", cfg.Schedule.Timezone,
		"next_run", ticker.Next().Format(time.RFC3339),
	)

	b.Run(ctx, updates, ticker.C())

	logger.Info(context.Background(), "Shutting down...")
	botAPI.StopReceivingUpdates()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if ops != nil {
		if err := ops.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "Ops server shutdown failed", "error", err)
		}
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "Tracer shutdown failed", "error", err)
	}
}
