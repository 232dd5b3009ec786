// Package config defines the bot configuration and how it is loaded.
//
// Credentials come only from the environment. Everything else layers
// defaults, an optional YAML file and WINGO_* environment variables.
package config

import (
	"time"

	"github.com/eliseohh/wingobot/internal/feed"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ResultURL and PeriodURL are the draw history and open period feeds.
	ResultURL string `koanf:"result_url"`
	PeriodURL string `koanf:"period_url"`

	// HTTPTimeout bounds a single feed request.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// CycleLength is the wall-clock period the loop aligns to.
	CycleLength time.Duration `koanf:"cycle_length"`
	// ScoreDelay is the offset into the cycle at which the held prediction is scored.
	ScoreDelay time.Duration `koanf:"score_delay"`
	// PublishDelay is waited after scoring before the next prediction is posted.
	PublishDelay time.Duration `koanf:"publish_delay"`

	// LossLimit consecutive misses trigger the warning and Cooldown pause.
	LossLimit int           `koanf:"loss_limit"`
	Cooldown  time.Duration `koanf:"cooldown"`

	StickerID string `koanf:"sticker_id"`
	GameTitle string `koanf:"game_title"`
	GameLink  string `koanf:"game_link"`

	// MetricsAddr serves /metrics when set, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
	// JournalPath enables the sqlite prediction journal when set.
	JournalPath string `koanf:"journal_path"`
	// PollCommands answers /start and /stats over long polling.
	PollCommands bool `koanf:"poll_commands"`
}

// Credentials are required and never read from files.
type Credentials struct {
	BotToken  string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
	ChannelID string `env:"TELEGRAM_CHANNEL_ID,required,notEmpty"`
}

const DefaultStickerID = "CAACAgUAAxkBAAEyWQNnx1REzwS6iG841FtNqHkaTtkthQACWxUAAqoa4VZursiDNO2CLDYE"

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		ResultURL:    feed.DefaultResultURL,
		PeriodURL:    feed.DefaultPeriodURL,
		HTTPTimeout:  15 * time.Second,
		CycleLength:  time.Minute,
		ScoreDelay:   2 * time.Second,
		PublishDelay: time.Second,
		LossLimit:    3,
		Cooldown:     2 * time.Minute,
		StickerID:    DefaultStickerID,
		GameTitle:    "JALWA WINGO 1MIN",
		GameLink:     "https://www.jalwa.live",
		PollCommands: true,
	}
}
