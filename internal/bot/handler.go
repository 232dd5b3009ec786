package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eliseohh/wingobot/internal/journal"
	"github.com/eliseohh/wingobot/internal/logger"
	"github.com/eliseohh/wingobot/internal/wingo"
	tele "gopkg.in/telebot.v3"
)

type Bot struct {
	api     *tele.Bot
	sender  sender
	channel channel
	stats   StatsSource
	log     logger.Logger
	cfg     Config
}

type Config struct {
	Token     string
	ChannelID string
	StickerID string
	GameTitle string
	GameLink  string
	// Cooldown is only quoted in the warning text.
	Cooldown time.Duration
	// PollCommands enables /start and /stats over long polling.
	PollCommands bool
}

// StatsSource backs /stats.
type StatsSource interface {
	Stats(ctx context.Context) (journal.Stats, error)
}

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// channel accepts both numeric ids ("-100123") and public names ("@name").
type channel string

func (c channel) Recipient() string { return string(c) }

func New(cfg Config, stats StatsSource, log logger.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error(context.Background(), "telegram handler failed", logger.Error(err))
		},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}

	b := &Bot{
		api:     api,
		sender:  api,
		channel: channel(cfg.ChannelID),
		stats:   stats,
		log:     log.Named("bot"),
		cfg:     cfg,
	}
	b.register()
	return b, nil
}

// Start answers commands until ctx is done. With polling disabled it
// just waits.
func (b *Bot) Start(ctx context.Context) error {
	if !b.cfg.PollCommands {
		<-ctx.Done()
		return nil
	}

	go func() {
		<-ctx.Done()
		b.api.Stop()
	}()
	b.log.Info(ctx, "bot polling", logger.String("username", b.api.Me.Username))
	b.api.Start()
	return nil
}

func (b *Bot) register() {
	b.api.Handle("/start", b.handleStart)
	b.api.Handle("/stats", b.handleStats)

	b.api.Handle(tele.OnText, func(c tele.Context) error {
		return c.Send("Commands: /stats")
	})
}

// -- Commands --

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(fmt.Sprintf("🎯 Posting %s predictions every minute. Use /stats for the running tally.", b.cfg.GameTitle))
}

func (b *Bot) handleStats(c tele.Context) error {
	if b.stats == nil {
		return c.Send("📒 Journal disabled.")
	}
	s, err := b.stats.Stats(context.Background())
	if errors.Is(err, journal.ErrDisabled) {
		return c.Send("📒 Journal disabled.")
	}
	if err != nil {
		b.log.Error(context.Background(), "stats query failed", logger.Error(err))
		return c.Send("⚠️ Stats unavailable.")
	}
	return c.Send(FormatStats(s), &tele.SendOptions{ParseMode: tele.ModeHTML})
}

// -- Channel notifications --

func (b *Bot) SendPrediction(_ context.Context, period string, cat wingo.Category) (int, error) {
	msg, err := b.sender.Send(b.channel,
		FormatPrediction(b.cfg.GameTitle, b.cfg.GameLink, period, cat),
		&tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true})
	if err != nil {
		return 0, fmt.Errorf("send prediction: %w", err)
	}
	return msg.ID, nil
}

// SendWin replies to the prediction message with the win sticker.
func (b *Bot) SendWin(_ context.Context, replyTo int) error {
	sticker := &tele.Sticker{File: tele.File{FileID: b.cfg.StickerID}}
	_, err := b.sender.Send(b.channel, sticker, &tele.SendOptions{ReplyTo: &tele.Message{ID: replyTo}})
	if err != nil {
		return fmt.Errorf("send sticker: %w", err)
	}
	return nil
}

func (b *Bot) SendWarning(_ context.Context) error {
	_, err := b.sender.Send(b.channel, FormatWarning(b.cfg.Cooldown), &tele.SendOptions{ParseMode: tele.ModeHTML})
	if err != nil {
		return fmt.Errorf("send warning: %w", err)
	}
	return nil
}
