package main

import (
	"context"
	"fmt"
	"os"

	"github.com/eliseohh/wingobot/internal/bot"
	"github.com/eliseohh/wingobot/internal/config"
	"github.com/eliseohh/wingobot/internal/feed"
	"github.com/eliseohh/wingobot/internal/wingo"
	"github.com/joho/godotenv"
)

// Dry run: read both feeds once and print what would be posted.
func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fail("config", err)
	}
	client := feed.NewClient(cfg.ResultURL, cfg.PeriodURL, cfg.HTTPTimeout)

	period, err := client.CurrentPeriod(ctx)
	if err != nil {
		fail("period", err)
	}
	fmt.Printf("✔ Current period: %s\n", period)

	draws, err := client.LatestResults(ctx)
	if err != nil {
		fail("results", err)
	}
	fmt.Printf("✔ %d draws\n", len(draws))
	for i, d := range draws {
		if i == 5 {
			break
		}
		fmt.Printf("  %s  %d  %-5s %s\n", d.Period, d.Number, wingo.Size(d.Number), wingo.Color(d.Number))
	}

	mode, cat, err := wingo.FromHistory(draws)
	if err != nil {
		fail("predict", err)
	}
	fmt.Printf("\nMode %s -> %s\n\n", mode, cat)
	fmt.Println(bot.FormatPrediction(cfg.GameTitle, cfg.GameLink, period, cat))
}

func fail(step string, err error) {
	fmt.Printf("❌ %s failed (%s): %v\n", step, feed.Kind(err), err)
	os.Exit(1)
}
