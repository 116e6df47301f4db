package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/internal/httpclient"
	"github.com/teranos/folio/logger"
	"github.com/teranos/folio/source"
	"github.com/teranos/folio/version"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	rawMediaType = "application/vnd.github.v3.raw"

	// Presentation documents are small; anything larger is not one.
	maxDocumentBytes = 8 << 20
	maxErrorBytes    = 64 << 10
)

// Client fetches raw documents from the contents API.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *httpclient.SaferClient
	limiter   *rate.Limiter
	log       *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default SSRF-guarded transport.
func WithHTTPClient(client *httpclient.SaferClient) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithRateLimit paces requests to at most perMinute. Zero or less disables pacing.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the transport timeout of the default client. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a client presenting token as a bearer credential.
// An empty token sends unauthenticated requests.
func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		token:     token,
		userAgent: version.Get().UserAgent(),
		http:      httpclient.New(httpclient.Options{}),
		log:       logger.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentsURL builds the contents API URL for d, escaping every path segment.
func (c *Client) ContentsURL(d source.Descriptor) string {
	path := d.Path
	if path == "" {
		path = source.DefaultPath
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	return c.baseURL + "/repos/" + url.PathEscape(d.Owner) + "/" + url.PathEscape(d.Repo) +
		"/contents/" + strings.Join(segments, "/")
}

// Fetch returns the raw text of the document named by d.
//
// Non-2xx responses return a *FetchError. Transport failures, including
// context cancellation, are returned wrapped.
func (c *Client) Fetch(ctx context.Context, d source.Descriptor) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limiter wait")
		}
	}

	target := c.ContentsURL(d)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to build request for %s", d.Label())
	}
	req.Header.Set("Accept", rawMediaType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	c.log.Debugw("Fetching presentation",
		logger.FieldSource, d.Label(),
		logger.FieldURL, target)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "GET %s", target)
	}
	defer resp.Body.Close()

	c.log.Debugw("Fetched presentation",
		logger.FieldSource, d.Label(),
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		message := errorMessage(body)
		return "", &FetchError{
			StatusCode: resp.StatusCode,
			Class:      Classify(resp.StatusCode, resp.Header, message),
			Message:    message,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return "", errors.Wrapf(err, "failed to read response body from %s", target)
	}
	if len(body) > maxDocumentBytes {
		return "", errors.Newf("document %s exceeds %d bytes", d.String(), maxDocumentBytes)
	}
	return string(body), nil
}

// errorMessage extracts GitHub's {"message": "..."} error text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
