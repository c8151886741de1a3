package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/server"
)

const aliveMessage = "🚀 SignalSentinel is alive and running!"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SignalSentinel starting...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.DataSource.Lookback, cfg.DataSource.Interval)

	// Init notifiers
	notifiers := notifier.Multi{
		notifier.NewEmailNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.Email, cfg.Password, cfg.ToEmail, cfg.ToSMS),
	}
	if cfg.TelegramEnabled() {
		notifiers = append(notifiers, notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy))
	}
	log.Printf("[INFO] notifiers: %s", notifiers.Name())

	// Init recorders
	recorders := recorder.Multi{recorder.NewFileRecorder(cfg.LogFile)}
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, logging to file only: %v", err)
		} else {
			recorders = append(recorders, sr)
		}
	}
	defer recorders.Close()

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Liveness server
	srvDone := make(chan struct{})
	go func() {
		defer close(srvDone)
		if err := server.New(cfg.ListenAddr(), aliveMessage).Run(ctx); err != nil {
			log.Printf("[ERROR] %v", err)
		}
	}()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, notifiers, recorders, cfg.Tickers)
	sched.Venue = cfg.Venue
	sched.Subject = cfg.Subject
	sched.Concurrency = cfg.Fetch.Concurrency
	sched.FetchTimeout = cfg.Fetch.Timeout
	sched.SendTimeout = cfg.Dispatch.Timeout
	if err := sched.Register(scheduler.ScheduleSpec(cfg.Schedule.Interval, cfg.Schedule.Cron)); err != nil {
		log.Fatalf("[FATAL] register cycle: %v", err)
	}
	sched.Start()

	// First cycle runs right away; later ones follow the schedule.
	sched.RunNow()

	log.Printf("[INFO] SignalSentinel is running for %d tickers. Press Ctrl+C to stop.", len(cfg.Tickers))

	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	sched.Stop()
	<-srvDone
	log.Println("[INFO] SignalSentinel stopped")
}
