package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/AngelCh415/sellerdash/internal/utils"
)

// Client talks to the seller API. It is safe for concurrent use.
type Client struct {
	httpc   HTTPClient
	base    string
	token   string
	limiter *rate.Limiter
	backoff utils.Backoff
	sf      singleflight.Group
	log     *slog.Logger
}

type Option func(*Client)

// WithRateLimit paces outgoing requests; rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithBackoff(b utils.Backoff) Option { return func(c *Client) { c.backoff = b } }

// WithAPIToken sets the bearer token used when the request context carries none.
func WithAPIToken(token string) Option { return func(c *Client) { c.token = token } }

func NewClient(httpc HTTPClient, baseURL string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpc:   httpc,
		base:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		limiter: rate.NewLimiter(rate.Inf, 0),
		backoff: utils.NewBackoff(100*time.Millisecond, 2),
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type tokenKey struct{}

// WithToken attaches a caller's bearer token to ctx. It wins over the
// configured API token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the caller's token attached with WithToken, or "" when the
// request runs on the configured API token.
func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

func (c *Client) tokenFor(ctx context.Context) string {
	if t := TokenFrom(ctx); t != "" {
		return t
	}
	return c.token
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, q url.Values, body any) (*http.Request, error) {
	if c.base == "" {
		return nil, ErrEmptyURL
	}
	u := c.base + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokenFor(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// getJSON is retried; see getJSONWithRetry.
func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, dst any) error {
	start := time.Now()
	err := getJSONWithRetry(ctx, c.httpc, c.backoff, func(ctx context.Context) (*http.Request, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return c.newRequest(ctx, http.MethodGet, endpoint, q, nil)
	}, dst)
	utils.ObserveUpstream(endpoint, start, err)
	if err != nil {
		c.log.Warn("upstream fetch failed", slog.String("endpoint", endpoint), slog.String("err", err.Error()))
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	return nil
}

// send does a single attempt; actions and downloads are never retried.
func (c *Client) send(ctx context.Context, method, endpoint string, q url.Values, body any) (*http.Response, error) {
	start := time.Now()
	resp, err := c.sendOnce(ctx, method, endpoint, q, body)
	utils.ObserveUpstream(endpoint, start, err)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	return resp, nil
}

func (c *Client) sendOnce(ctx context.Context, method, endpoint string, q url.Values, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, method, endpoint, q, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, dst any) error {
	resp, err := c.send(ctx, http.MethodPost, endpoint, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := decodeBody(resp.Body, dst); err != nil {
		return fmt.Errorf("POST %s: decode: %w", endpoint, err)
	}
	return nil
}
