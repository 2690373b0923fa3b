package infra

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DefaultUserAgent is sent when no user agent is configured. Yahoo rejects
// requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, body)
}

// HTTPConfig configures NewHTTPClient.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
	RateLimit int // requests per second, 0 disables limiting
	Logger    zerolog.Logger
}

// HTTPClient is a resty client with a cookie jar and optional rate limiting.
type HTTPClient struct {
	rc      *resty.Client
	limiter *RateLimiter
	log     zerolog.Logger
}

// NewHTTPClient builds an HTTPClient. Cookies persist across requests.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	jar, _ := cookiejar.New(nil)

	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetCookieJar(jar)

	return &HTTPClient{
		rc:      rc,
		limiter: PerSecond(cfg.RateLimit),
		log:     cfg.Logger,
	}
}

// Get performs a GET with the given query parameters and returns the body.
// Non-2xx responses are returned as *HTTPError.
func (c *HTTPClient) Get(ctx context.Context, url string, query map[string]string) ([]byte, error) {
	resp, err := c.get(ctx, url, query)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		c.log.Debug().Int("status", resp.StatusCode()).Str("url", url).Msg("http error response")
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}

// Touch performs a GET and discards the response, keeping any cookies it sets.
// The status code is ignored.
func (c *HTTPClient) Touch(ctx context.Context, url string) error {
	_, err := c.get(ctx, url, nil)
	return err
}

func (c *HTTPClient) get(ctx context.Context, url string, query map[string]string) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	c.log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("http get")
	return resp, nil
}
