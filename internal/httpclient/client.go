// Package httpclient implements interfaces.HTTPCollaborator: a cookie-jar
// carrying net/http client with per-domain rate limiting and retry with
// exponential backoff, the transport seam spec.md §1 keeps out of the core
// engine.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/net/publicsuffix"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// Config controls the collaborator's timeout, rate limiting, and retry
// behavior. Zero-value fields fall back to the defaults in New.
type Config struct {
	Timeout      time.Duration
	DefaultDelay time.Duration
	Retry        *RetryPolicy
	UserAgent    string
}

// Client implements interfaces.HTTPCollaborator over net/http, with a
// shared cookie jar across every request (sources that set session cookies
// via a script rely on the jar persisting them across calls) and a retry
// policy that honors ctx cancellation between attempts.
type Client struct {
	http      *http.Client
	limiter   *RateLimiter
	retry     *RetryPolicy
	userAgent string
	logger    arbor.ILogger
}

// New builds a Client with a fresh cookie jar. Passing a nil logger is
// fine; log calls become no-ops.
func New(cfg Config, logger arbor.ILogger) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	delay := cfg.DefaultDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	retry := cfg.Retry
	if retry == nil {
		retry = NewRetryPolicy()
	}

	return &Client{
		http:      &http.Client{Jar: jar, Timeout: timeout},
		limiter:   NewRateLimiter(delay),
		retry:     retry,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Do implements interfaces.HTTPCollaborator. It rate-limits per target
// domain, retries retryable failures with exponential backoff, and
// normalizes the result into the envelope shape native HTTP calls expose
// to scripts.
func (c *Client) Do(ctx context.Context, req interfaces.HTTPRequest) (*interfaces.HTTPResponse, error) {
	if err := c.limiter.Wait(ctx, req.URL); err != nil {
		return nil, err
	}

	var resp *interfaces.HTTPResponse
	statusCode, err := c.retry.ExecuteWithRetry(ctx, c.logger, func() (int, error) {
		r, doErr := c.do(ctx, req)
		if doErr != nil {
			return 0, doErr
		}
		resp = r
		return r.Code, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%s %s: no response after status %d", req.Method, req.URL, statusCode)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req interfaces.HTTPRequest) (*interfaces.HTTPResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get("User-Agent") == "" && c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &interfaces.HTTPResponse{
		Body:    string(data),
		Code:    resp.StatusCode,
		Headers: headers,
		URL:     req.URL,
	}, nil
}
