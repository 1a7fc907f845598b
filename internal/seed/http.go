package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/agenda/internal/events"
	appLog "github.com/sadopc/agenda/internal/log"
)

// maxBody caps how much of a seed response is read.
const maxBody = 4 << 20

// HTTP fetches a JSON or ICS seed over the network.
type HTTP struct {
	URL    string
	client *http.Client
}

func NewHTTP(rawURL string) *HTTP {
	return &HTTP{
		URL: rawURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (h *HTTP) Fetch(ctx context.Context) ([]events.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/calendar")

	appLog.Info("seed fetch start", "url", redactURL(h.URL))

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch seed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read seed body: %w", err)
	}

	evs, err := Parse(h.format(resp.Header.Get("Content-Type")), body)
	if err != nil {
		return nil, fmt.Errorf("parse seed body: %w", err)
	}
	appLog.Info("seed fetch success", "url", redactURL(h.URL), "event_count", len(evs))
	return evs, nil
}

func (h *HTTP) format(contentType string) Format {
	if strings.HasPrefix(strings.ToLower(contentType), "text/calendar") {
		return FormatICS
	}
	if u, err := url.Parse(h.URL); err == nil {
		return formatForPath(u.Path)
	}
	return FormatJSON
}

func (h *HTTP) String() string { return redactURL(h.URL) }

// redactURL keeps scheme and host so tokens in paths or queries stay out of
// the log.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "seed://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
