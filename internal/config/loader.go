package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/yaml"
	kenv "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "WINGO_"
	envFileVar = "WINGO_CONFIG"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. the YAML file named by WINGO_CONFIG, if set
//  3. WINGO_* environment variables, e.g. WINGO_LOSS_LIMIT=4
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := kenv.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}
	// WINGO_CONFIG itself lands under "config"; it is not a setting.
	k.Delete("config")

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the scheduler relies on.
func (c *Config) Validate() error {
	switch {
	case c.ResultURL == "":
		return fmt.Errorf("%w: result_url must not be empty", ErrInvalidConfig)
	case c.PeriodURL == "":
		return fmt.Errorf("%w: period_url must not be empty", ErrInvalidConfig)
	case c.CycleLength <= 0:
		return fmt.Errorf("%w: cycle_length must be positive", ErrInvalidConfig)
	case c.ScoreDelay < 0 || c.PublishDelay < 0:
		return fmt.Errorf("%w: step delays must not be negative", ErrInvalidConfig)
	case c.ScoreDelay+c.PublishDelay >= c.CycleLength:
		return fmt.Errorf("%w: score_delay + publish_delay must fit inside cycle_length", ErrInvalidConfig)
	case c.LossLimit < 1:
		return fmt.Errorf("%w: loss_limit must be at least 1", ErrInvalidConfig)
	case c.Cooldown < 0:
		return fmt.Errorf("%w: cooldown must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadCredentials reads TELEGRAM_BOT_TOKEN and TELEGRAM_CHANNEL_ID.
// Both must be present and non-empty.
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	return creds, nil
}
