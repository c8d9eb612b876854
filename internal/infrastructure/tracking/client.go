// Package tracking looks up parcel status on 17TRACK and falls back to a
// deterministic mock when the lookup is not possible.
package tracking

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/contextx"
	"bikeship/pkg/httpx"
	"bikeship/pkg/logx"
)

const (
	DefaultURL = "https://api.17track.net/track/v2.2/gettrackinfo"

	defaultTimeout  = 10 * time.Second
	resultCacheTTL  = time.Minute
	cleanupInterval = 5 * time.Minute
	logFieldMaxLen  = 2048

	unknownLocation = "Location Unknown"
)

// 17TRACK latest event codes. Everything else, including 10, counts as in
// transit.
const (
	eventPickedUp  = 30
	eventAlert     = 35
	eventDelivered = 40
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05"}

type Client struct {
	url    string
	apiKey string
	client *http.Client
	cache  *cache.Cache
	now    func() time.Time
}

// NewClient returns a client for apiKey. With an empty key every lookup is
// answered by the mock.
func NewClient(apiKey string) *Client {
	return &Client{
		url:    DefaultURL,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: defaultTimeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
				httpx.WithLogFieldMaxLen(logFieldMaxLen),
			),
		},
		cache: cache.New(resultCacheTTL, cleanupInterval),
		now:   time.Now,
	}
}

func (c *Client) WithURL(url string) *Client {
	c.url = url
	return c
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.client.Timeout = timeout
	}
	return c
}

func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Track returns the latest known status of code. It never fails: provider
// errors are logged and answered by Mock.
func (c *Client) Track(ctx context.Context, code string) entity.TrackingUpdate {
	if cached, found := c.cache.Get(code); found {
		return cached.(entity.TrackingUpdate) //nolint:forcetypeassert // only updates are stored
	}

	if c.apiKey == "" {
		return Mock(code, c.now())
	}

	update, err := c.lookup(ctx, code)
	if err != nil {
		logger(ctx).Warn("17track lookup failed, using mock",
			slog.String(logx.FieldTrackingCode, code),
			logx.Error(err),
		)
		return Mock(code, c.now())
	}

	c.cache.Set(code, update, cache.DefaultExpiration)

	return update
}

type trackRequest struct {
	Number string `json:"number"`
}

type trackResponse struct {
	Data struct {
		Accepted []struct {
			Number string    `json:"number"`
			Track  trackInfo `json:"track"`
		} `json:"accepted"`
	} `json:"data"`
}

type trackInfo struct {
	LatestEvent *struct {
		Time     string `json:"a"`
		Location string `json:"z"`
	} `json:"z0"`
	LatestStatus int `json:"z1"`
}

func (c *Client) lookup(ctx context.Context, code string) (entity.TrackingUpdate, error) {
	body, err := json.Marshal([]trackRequest{{Number: code}})
	if err != nil {
		return entity.TrackingUpdate{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return entity.TrackingUpdate{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("17token", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return entity.TrackingUpdate{}, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.TrackingUpdate{}, fmt.Errorf("17track status %d", resp.StatusCode)
	}

	var payload trackResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return entity.TrackingUpdate{}, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Data.Accepted) == 0 {
		return entity.TrackingUpdate{}, fmt.Errorf("17track did not accept %s", code)
	}

	track := payload.Data.Accepted[0].Track

	update := entity.TrackingUpdate{
		Code:      code,
		Status:    statusFromEvent(track.LatestStatus),
		Location:  unknownLocation,
		Timestamp: c.now(),
	}

	if track.LatestEvent != nil {
		if track.LatestEvent.Location != "" {
			update.Location = track.LatestEvent.Location
		}
		if ts, ok := parseTimestamp(track.LatestEvent.Time); ok {
			update.Timestamp = ts
		}
	}

	return update, nil
}

func statusFromEvent(event int) value.Status {
	switch event {
	case eventDelivered:
		return value.StatusDelivered
	case eventPickedUp, eventAlert:
		return value.StatusException
	default:
		return value.StatusInTransit
	}
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Mock derives a status from the code prefix: DEL delivered, EXC exception,
// OUT out for delivery, anything else in transit.
func Mock(code string, now time.Time) entity.TrackingUpdate {
	status := value.StatusInTransit

	upper := strings.ToUpper(code)
	switch {
	case strings.HasPrefix(upper, "DEL"):
		status = value.StatusDelivered
	case strings.HasPrefix(upper, "EXC"):
		status = value.StatusException
	case strings.HasPrefix(upper, "OUT"):
		status = value.StatusOutForDelivery
	}

	location := "Distribution Center"
	if status == value.StatusDelivered {
		location = "Customer Address"
	}

	return entity.TrackingUpdate{
		Code:      code,
		Status:    status,
		Location:  location,
		Timestamp: now,
		Mocked:    true,
	}
}
