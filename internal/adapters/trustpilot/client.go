// internal/adapters/trustpilot/client.go
package trustpilot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tpreviews/internal/adapters/observability"
	"tpreviews/internal/domain"
)

const (
	DefaultBaseURL    = "http://s.trustpilot.com"
	DefaultTimeout    = 20 * time.Second
	DefaultMaxPayload = 32 << 20

	feedPath = "/tpelements/%s/f.json.gz"
)

// Provider-issued keys are short alphanumeric ids. The key goes into the
// path unescaped, so anything else is refused up front.
var accountKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type Client struct {
	base       string
	hc         *http.Client
	timeout    time.Duration
	maxPayload int64
	userAgent  string
}

type Option func(*Client)

// WithHTTPClient sets the client requests go through, e.g. for a custom
// Transport. New works on a copy, so hc itself is never modified; the copy's
// Timeout is always the one given by WithTimeout (or DefaultTimeout).
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxPayload caps both the compressed body and the decompressed document.
func WithMaxPayload(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPayload = payloadLimit(n)
		}
	}
}

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

func New(base string, opts ...Option) (*Client, error) {
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("base URL must be http(s): %q", base)
	}
	c := &Client{
		base:       strings.TrimRight(base, "/"),
		hc:         &http.Client{},
		timeout:    DefaultTimeout,
		maxPayload: DefaultMaxPayload,
		userAgent:  "tpreviews/1.0",
	}
	for _, o := range opts {
		o(c)
	}
	if c.hc == nil {
		return nil, errors.New("http client must not be nil")
	}
	hc := *c.hc
	hc.Timeout = c.timeout
	c.hc = &hc
	return c, nil
}

// FeedURL returns the compressed feed location for accountKey.
func (c *Client) FeedURL(accountKey string) (string, error) {
	if !accountKeyRe.MatchString(accountKey) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAccountKey, accountKey)
	}
	return c.base + fmt.Sprintf(feedPath, accountKey), nil
}

// Fetch downloads, decompresses and parses the feed. It makes exactly one
// request; there is no retry.
func (c *Client) Fetch(ctx context.Context, accountKey string) (domain.Dataset, error) {
	url, err := c.FeedURL(accountKey)
	if err != nil {
		return domain.Dataset{}, err
	}

	start := time.Now()
	raw, status, err := c.get(ctx, url)
	observability.ObserveExternal("trustpilot", "feed", status, time.Since(start))
	if err != nil {
		observability.ObserveFeedLoad("retrieval")
		log.Warn().Err(err).Str("account_key", accountKey).Str("url", url).Int("status", status).Msg("feed retrieval failed")
		return domain.Dataset{}, err
	}

	doc, err := Decompress(raw, c.maxPayload)
	if err != nil {
		observability.ObserveFeedLoad("decompression")
		log.Warn().Err(err).Str("account_key", accountKey).Int("bytes", len(raw)).Msg("feed decompression failed")
		return domain.Dataset{}, err
	}

	ds, err := Parse(doc)
	if err != nil {
		observability.ObserveFeedLoad("parse")
		log.Warn().Err(err).Str("account_key", accountKey).Int("bytes", len(doc)).Msg("feed parse failed")
		return domain.Dataset{}, err
	}

	observability.ObserveFeedLoad("ok")
	log.Debug().
		Str("account_key", accountKey).
		Int("bytes", len(raw)).
		Int("reviews", len(ds.Reviews)).
		Msg("feed loaded")
	return ds, nil
}

// get performs the GET and returns the raw (still compressed) body.
// status is 0 when no response was received.
func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
	}
	// the body is a .gz file; keep the transport from decoding it on our behalf
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("%w: %w", domain.ErrRetrieval, ctx.Err())
		}
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", domain.ErrRetrieval, domain.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", domain.ErrRetrieval, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", domain.ErrRetrieval, domain.ErrForbidden)
	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, fmt.Errorf("%w: bad status %d: %s", domain.ErrRetrieval, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxPayload+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read body: %w", domain.ErrRetrieval, err)
	}
	if int64(len(body)) > c.maxPayload {
		return nil, resp.StatusCode, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrRetrieval, c.maxPayload)
	}
	return body, resp.StatusCode, nil
}
