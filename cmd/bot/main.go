package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eliseohh/wingobot/internal/bot"
	"github.com/eliseohh/wingobot/internal/config"
	"github.com/eliseohh/wingobot/internal/cycle"
	"github.com/eliseohh/wingobot/internal/feed"
	"github.com/eliseohh/wingobot/internal/journal"
	"github.com/eliseohh/wingobot/internal/logger"
	"github.com/eliseohh/wingobot/internal/metrics"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type statsJournal interface {
	cycle.Journal
	bot.StatsSource
	Close() error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Credentials and config
	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// 2. Journal
	var jr statsJournal = journal.Nop{}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		jr = j
		log.Info(ctx, "journal enabled", logger.String("path", cfg.JournalPath))
	}
	defer jr.Close()

	// 3. Telegram
	b, err := bot.New(bot.Config{
		Token:        creds.BotToken,
		ChannelID:    creds.ChannelID,
		StickerID:    cfg.StickerID,
		GameTitle:    cfg.GameTitle,
		GameLink:     cfg.GameLink,
		Cooldown:     cfg.Cooldown,
		PollCommands: cfg.PollCommands,
	}, jr, log)
	if err != nil {
		return err
	}

	// 4. Scheduler
	sched := cycle.New(
		feed.NewClient(cfg.ResultURL, cfg.PeriodURL, cfg.HTTPTimeout),
		b,
		cycle.WithLogger(log),
		cycle.WithJournal(jr),
		cycle.WithMetrics(metrics.Default()),
		cycle.WithCycleLength(cfg.CycleLength),
		cycle.WithStepDelays(cfg.ScoreDelay, cfg.PublishDelay),
		cycle.WithLossLimit(cfg.LossLimit, cfg.Cooldown),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return b.Start(gctx) })
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return serveMetrics(gctx, cfg.MetricsAddr, log) })
	}

	log.Info(ctx, "🤖 bot online", logger.String("channel", creds.ChannelID))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info(context.Background(), "bot stopped")
	return nil
}

func serveMetrics(ctx context.Context, addr string, log logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
