package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"richmarket-bot/internal/admin"
	"richmarket-bot/internal/bot"
	"richmarket-bot/internal/broadcast"
	"richmarket-bot/internal/config"
	"richmarket-bot/internal/database"
	"richmarket-bot/internal/referral"
	"richmarket-bot/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Could not connect to redis: %v", err)
	}

	loc, err := time.LoadLocation(cfg.BroadcastTimezone)
	if err != nil {
		log.Fatalf("Invalid broadcast timezone %q: %v", cfg.BroadcastTimezone, err)
	}

	st := store.New(db)
	ledger := referral.NewLedger(st, cfg.ReferralBonus)
	editor := admin.NewEditor(st, admin.NewRedisSessions(rdb), cfg.AdminUsernames)

	b, err := bot.NewBot(cfg, st, ledger, editor)
	if err != nil {
		log.Fatalf("Could not create bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	dispatcher := broadcast.NewDispatcher(st, b, broadcast.DefaultPause)
	scheduler := broadcast.NewScheduler(dispatcher, cfg.BroadcastHour, cfg.BroadcastMinute, loc, bot.BroadcastText)
	go scheduler.Start(ctx)

	if count, err := st.CountUsers(ctx); err == nil {
		log.WithField("users", count).Info("Service started")
	}

	if err := b.Start(ctx); err != nil {
		log.Fatalf("Bot stopped with error: %v", err)
	}
}
