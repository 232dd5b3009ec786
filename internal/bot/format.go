package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/eliseohh/wingobot/internal/journal"
	"github.com/eliseohh/wingobot/internal/wingo"
)

// FormatPrediction renders the channel post for one period.
func FormatPrediction(title, link, period string, cat wingo.Category) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 <b>%s</b> 🏆\n\n", html.EscapeString(title))
	fmt.Fprintf(&sb, "🔓 <b>PERIOD ID</b> - %s - <b>%s</b>\n", html.EscapeString(period), cat)
	if link != "" {
		l := html.EscapeString(link)
		fmt.Fprintf(&sb, "\n<i><b>Game Link:</b></i> <a href=\"%s\">%s</a>\n", l, l)
	}
	return sb.String()
}

func FormatWarning(cooldown time.Duration) string {
	return fmt.Sprintf("⚠️ <b><u>Chart not stable</u> 🥹</b>\n\n<b>Wait for %s 🤩</b>", humanMinutes(cooldown))
}

func FormatStats(s journal.Stats) string {
	return fmt.Sprintf("📊 <b>Prediction stats</b>\n\n"+
		"Published: %d\nWins: %d\nLosses: %d\nUnscored: %d\nPending: %d\n\nHit rate: <b>%.1f%%</b>",
		s.Published, s.Hits, s.Misses, s.Replaced, s.Pending, s.HitRate()*100)
}

func humanMinutes(d time.Duration) string {
	switch {
	case d%time.Minute != 0:
		return d.String()
	case d == time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}
