package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/services"
)

const (
	defaultTimeout       = 20 * time.Second
	defaultRetryAttempts = 2
	defaultRetryBackoff  = 500 * time.Millisecond
	defaultUserAgent     = "wikiepisodes/dev"
	maxErrorBody         = 512
)

// Client talks to the MediaWiki action API (action=parse).
type Client struct {
	apiURL          string
	userAgent       string
	httpClient      *http.Client
	timeout         time.Duration
	limiter         *rate.Limiter
	retryAttempts   int
	retryBackoff    time.Duration
	followRedirects bool
	logger          *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout. A client passed through
// WithHTTPClient is copied, never modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// WithRetry sets how many times a transient failure is retried and the
// initial backoff, which doubles per attempt.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if attempts >= 0 {
			c.retryAttempts = attempts
		}
		if backoff >= 0 {
			c.retryBackoff = backoff
		}
	}
}

// WithRateLimit spaces requests to at most rps per second. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRedirects controls whether the API resolves redirect pages.
func WithRedirects(follow bool) Option {
	return func(c *Client) {
		c.followRedirects = follow
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "mediawiki")
	}
}

// New creates a MediaWiki client for the given api.php endpoint.
func New(apiURL string, opts ...Option) (*Client, error) {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		return nil, errors.New("mediawiki api url required")
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("parse mediawiki api url: %w", err)
	}
	client := &Client{
		apiURL:          apiURL,
		userAgent:       defaultUserAgent,
		httpClient:      &http.Client{Timeout: defaultTimeout},
		retryAttempts:   defaultRetryAttempts,
		retryBackoff:    defaultRetryBackoff,
		followRedirects: true,
		logger:          logging.NewComponentLogger(nil, "mediawiki"),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.timeout > 0 && client.httpClient.Timeout != client.timeout {
		httpClient := *client.httpClient
		httpClient.Timeout = client.timeout
		client.httpClient = &httpClient
	}
	return client, nil
}

// NormalizePage trims a page title and replaces spaces with underscores.
func NormalizePage(title string) string {
	return strings.Join(strings.Fields(title), "_")
}

// Sections returns the page's table of contents in document order.
func (c *Client) Sections(ctx context.Context, page string) ([]Section, error) {
	payload, err := c.parse(ctx, page, "sections", WholePage)
	if err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(payload.Sections))
	for _, s := range payload.Sections {
		sections = append(sections, Section{
			Title:  s.Line,
			Index:  SectionIndex(s.Index),
			Number: s.Number,
			Level:  s.TocLevel,
		})
	}
	return sections, nil
}

// Links returns the outbound links of a page, or of one section when section
// is not WholePage.
func (c *Client) Links(ctx context.Context, page string, section SectionIndex) ([]Link, error) {
	payload, err := c.parse(ctx, page, "links", section)
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(payload.Links))
	for _, l := range payload.Links {
		links = append(links, Link{Text: l.Text, Namespace: l.Namespace, Exists: l.Exists != nil})
	}
	return links, nil
}

// Wikitext returns the raw markup of a page, or of one section when section
// is not WholePage.
func (c *Client) Wikitext(ctx context.Context, page string, section SectionIndex) (string, error) {
	payload, err := c.parse(ctx, page, "wikitext", section)
	if err != nil {
		return "", err
	}
	return payload.Wikitext.Text, nil
}

func (c *Client) parse(ctx context.Context, page, prop string, section SectionIndex) (*parsePayload, error) {
	page = NormalizePage(page)
	if page == "" {
		return nil, errors.New("page must not be empty")
	}
	endpoint, err := c.buildURL(page, prop, section)
	if err != nil {
		return nil, err
	}

	attempt := 0
	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		payload, err := c.do(ctx, endpoint)
		if err == nil {
			return payload, nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.Page = page
		}
		if !IsRetriable(err) || attempt >= c.retryAttempts || ctx.Err() != nil {
			return nil, err
		}
		attempt++
		backoff := backoffFor(c.retryBackoff, attempt)
		c.logger.Warn("mediawiki request failed, retrying",
			logging.String(logging.FieldPage, page),
			logging.String("prop", prop),
			logging.Duration("backoff", backoff),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", c.retryAttempts),
			logging.Error(err),
			logging.String(logging.FieldEventType, "mediawiki_retry"),
			logging.String(logging.FieldErrorHint, "check network connectivity or lower wiki.requests_per_second"),
		)
		if err := SleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

func (c *Client) buildURL(page, prop string, section SectionIndex) (string, error) {
	endpoint, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("parse mediawiki url: %w", err)
	}
	params := endpoint.Query()
	params.Set("action", "parse")
	params.Set("format", "json")
	params.Set("page", page)
	params.Set("prop", prop)
	if section != WholePage {
		params.Set("section", string(section))
	}
	if c.followRedirects {
		params.Set("redirects", "1")
	}
	endpoint.RawQuery = params.Encode()
	return endpoint.String(), nil
}

func (c *Client) do(ctx context.Context, endpoint string) (*parsePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrTransient, "mediawiki", "request", fmt.Sprintf("latency=%v", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := fmt.Sprintf("status %d (latency=%v): %s", resp.StatusCode, latency, strings.TrimSpace(string(body)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, services.Wrap(services.ErrTransient, "mediawiki", "request", message, nil)
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, services.Wrap(services.ErrNotFound, "mediawiki", "request", message, nil)
		}
		return nil, fmt.Errorf("mediawiki request: %s", message)
	}

	var payload parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode mediawiki response: %w", err)
	}
	if payload.Error != nil {
		return nil, payload.Error
	}
	if payload.Parse == nil {
		return nil, errors.New("mediawiki response missing parse payload")
	}
	return payload.Parse, nil
}
