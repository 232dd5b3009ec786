package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/eliseohh/wingobot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should match the original bot's cadence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CycleLength, convey.ShouldEqual, time.Minute)
				convey.So(cfg.ScoreDelay, convey.ShouldEqual, 2*time.Second)
				convey.So(cfg.PublishDelay, convey.ShouldEqual, time.Second)
				convey.So(cfg.LossLimit, convey.ShouldEqual, 3)
				convey.So(cfg.Cooldown, convey.ShouldEqual, 2*time.Minute)
				convey.So(cfg.StickerID, convey.ShouldEqual, config.DefaultStickerID)
				convey.So(cfg.PollCommands, convey.ShouldBeTrue)
				convey.So(cfg.JournalPath, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WINGO_LOSS_LIMIT", "5")
			_ = os.Setenv("WINGO_COOLDOWN", "90s")
			_ = os.Setenv("WINGO_POLL_COMMANDS", "false")
			_ = os.Setenv("WINGO_METRICS_ADDR", ":9100")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LossLimit, convey.ShouldEqual, 5)
				convey.So(cfg.Cooldown, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.PollCommands, convey.ShouldBeFalse)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9100")
			})
		})

		convey.Convey("When loading config with a YAML file and env on top", func() {
			tmpFile := createTempConfigFile(`
game_title: "TEST WINGO"
journal_path: /tmp/wingo.db
loss_limit: 4
http_timeout: 5s
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WINGO_CONFIG", tmpFile)
			_ = os.Setenv("WINGO_LOSS_LIMIT", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should win over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GameTitle, convey.ShouldEqual, "TEST WINGO")
				convey.So(cfg.JournalPath, convey.ShouldEqual, "/tmp/wingo.db")
				convey.So(cfg.HTTPTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.LossLimit, convey.ShouldEqual, 6)
				convey.So(cfg.ResultURL, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("WINGO_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("WINGO_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the step delays overflow the cycle", func() {
			_ = os.Setenv("WINGO_CYCLE_LENGTH", "2s")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the loss limit is zero", func() {
			_ = os.Setenv("WINGO_LOSS_LIMIT", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "loss_limit")
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("WINGO_LOSS_LIMIT", "many")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestLoadCredentials(t *testing.T) {
	convey.Convey("Given telegram credentials in the environment", t, func() {
		convey.Convey("When both are set", func() {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
			t.Setenv("TELEGRAM_CHANNEL_ID", "@wingo")

			creds, err := config.LoadCredentials()

			convey.Convey("Then they are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(creds.BotToken, convey.ShouldEqual, "123:abc")
				convey.So(creds.ChannelID, convey.ShouldEqual, "@wingo")
			})
		})

		convey.Convey("When the channel is missing", func() {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
			_ = os.Unsetenv("TELEGRAM_CHANNEL_ID")

			_, err := config.LoadCredentials()

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrMissingCredentials), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the token is empty", func() {
			t.Setenv("TELEGRAM_BOT_TOKEN", "")
			t.Setenv("TELEGRAM_CHANNEL_ID", "-1001234")

			_, err := config.LoadCredentials()

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrMissingCredentials), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, v := range []string{
		"WINGO_CONFIG",
		"WINGO_LOSS_LIMIT",
		"WINGO_COOLDOWN",
		"WINGO_POLL_COMMANDS",
		"WINGO_METRICS_ADDR",
		"WINGO_CYCLE_LENGTH",
	} {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "wingo-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
