package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eliseohh/wingobot/internal/wingo"
	"github.com/tidwall/gjson"
)

const (
	DefaultResultURL = "https://draw.ar-lottery01.com/WinGo/WinGo_1M/GetHistoryIssuePage.json"
	DefaultPeriodURL = "https://draw.ar-lottery01.com/WinGo/WinGo_1M.json"

	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client reads the public draw feed.
type Client struct {
	ResultURL string
	PeriodURL string

	http *http.Client
}

func NewClient(resultURL, periodURL string, timeout time.Duration) *Client {
	if resultURL == "" {
		resultURL = DefaultResultURL
	}
	if periodURL == "" {
		periodURL = DefaultPeriodURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		ResultURL: resultURL,
		PeriodURL: periodURL,
		http:      &http.Client{Timeout: timeout},
	}
}

// LatestResults returns settled draws, most recent first.
func (c *Client) LatestResults(ctx context.Context) ([]wingo.Draw, error) {
	body, err := c.get(ctx, c.ResultURL)
	if err != nil {
		return nil, err
	}
	return parseResults(body)
}

// CurrentPeriod returns the issue number of the round now open for bets.
func (c *Client) CurrentPeriod(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.PeriodURL)
	if err != nil {
		return "", err
	}
	return parsePeriod(body)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrTransport, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return body, nil
}

func parseResults(body []byte) ([]wingo.Draw, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: results body is not JSON", ErrMalformed)
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, fmt.Errorf("%w: results body has no data object", ErrMalformed)
	}

	list := data.Get("list")
	if !list.Exists() {
		return nil, fmt.Errorf("%w: results list missing", ErrEmpty)
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: data.list is %s", ErrMalformed, list.Type)
	}

	records := list.Array()
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: results list is empty", ErrEmpty)
	}

	draws := make([]wingo.Draw, 0, len(records))
	for i, r := range records {
		period := strings.TrimSpace(r.Get("issueNumber").String())
		if period == "" {
			return nil, fmt.Errorf("%w: record %d has no issueNumber", ErrMalformed, i)
		}
		n, err := parseNumber(r.Get("number"))
		if err != nil {
			return nil, fmt.Errorf("%w: record %d (%s): %v", ErrMalformed, i, period, err)
		}
		draws = append(draws, wingo.Draw{Period: period, Number: n})
	}
	return draws, nil
}

func parsePeriod(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: period body is not JSON", ErrMalformed)
	}

	current := gjson.GetBytes(body, "current")
	if !current.Exists() || current.Type == gjson.Null {
		return "", fmt.Errorf("%w: no current period", ErrEmpty)
	}
	if !current.IsObject() {
		return "", fmt.Errorf("%w: current is %s", ErrMalformed, current.Type)
	}

	period := strings.TrimSpace(current.Get("issueNumber").String())
	if period == "" {
		return "", fmt.Errorf("%w: current has no issueNumber", ErrMalformed)
	}
	return period, nil
}

// The feed sends the digit either as a string or as a number.
func parseNumber(v gjson.Result) (int, error) {
	if !v.Exists() {
		return 0, fmt.Errorf("number missing")
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.String()))
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", v.String(), err)
	}
	if n < 0 || n > 9 {
		return 0, fmt.Errorf("number %d out of range", n)
	}
	return n, nil
}
