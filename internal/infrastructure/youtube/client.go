// Package youtube implements repository.VideoPlatform against the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hszk-dev/tubeproxy/internal/domain/model"
	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/metrics"
)

const (
	// DefaultBaseURL is the public YouTube Data API v3 endpoint.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// MaxBatchSize is the largest number of ids videos.list accepts in one call,
	// and the page size used for every list call.
	MaxBatchSize = 50

	// maxErrorBody bounds how much of a failed response is read for logging.
	maxErrorBody = 4 << 10
)

// ErrBatchTooLarge is returned when more than MaxBatchSize ids are requested at once.
var ErrBatchTooLarge = errors.New("video batch exceeds maximum size")

// Config holds configuration for the YouTube client.
type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// Client calls the YouTube Data API. It never retries; every failure is returned
// to the caller as an upstream error.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a new YouTube client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With(slog.String("component", "youtube")),
	}
}

// Search runs search.list for query and returns the raw response body.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))

	body, err := c.get(ctx, metrics.EndpointSearch, "search", params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: search body is not valid JSON", repository.ErrUpstreamShapeMismatch)
	}
	return json.RawMessage(body), nil
}

// VideoDetails runs videos.list with part=contentDetails for ids.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]model.VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d ids", ErrBatchTooLarge, len(ids))
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))

	body, err := c.get(ctx, metrics.EndpointVideos, "videos", params)
	if err != nil {
		return nil, err
	}

	var resp model.VideoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode videos: %v", repository.ErrUpstreamShapeMismatch, err)
	}
	return resp.Items, nil
}

// PlaylistItems runs playlistItems.list for the first page of playlistID.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]model.PlaylistItem, error) {
	params := url.Values{}
	params.Set("part", "contentDetails,snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))

	body, err := c.get(ctx, metrics.EndpointPlaylistItems, "playlistItems", params)
	if err != nil {
		return nil, err
	}

	var resp model.PlaylistItemListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode playlist items: %v", repository.ErrUpstreamShapeMismatch, err)
	}
	return resp.Items, nil
}

// get performs one GET against resource and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, resource string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamStatusError).Inc()
		return nil, fmt.Errorf("%w: %s: rate limiter: %v", repository.ErrUpstreamUnavailable, resource, err)
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + resource + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamStatusError).Inc()
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrUpstreamUnavailable, resource, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamStatusError).Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("upstream error response",
			slog.String("resource", resource),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(detail)),
		)
		return nil, fmt.Errorf("%w: %s status %d", repository.ErrUpstreamUnavailable, resource, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamStatusError).Inc()
		return nil, fmt.Errorf("%w: read %s body: %v", repository.ErrUpstreamUnavailable, resource, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamStatusSuccess).Inc()
	return body, nil
}

// redactKey strips the API key from transport errors, which embed the request URL.
func redactKey(err error, key string) string {
	msg := err.Error()
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
}

var _ repository.VideoPlatform = (*Client)(nil)
