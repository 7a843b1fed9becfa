package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error categories surfaced to the presentation layer. Each maps to a
// distinct user-facing failure; callers match with errors.Is.
var (
	ErrInvalidURL         = errors.New("invalid url")
	ErrTimeout            = errors.New("fetch timed out")
	ErrUnreachable        = errors.New("host unreachable")
	ErrBadStatus          = errors.New("unexpected status")
	ErrUnsupportedContent = errors.New("unsupported content type")
)

const (
	// DefaultTimeout bounds one fetch when the client does not configure one.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBodyBytes caps the response body read (5 MiB).
	DefaultMaxBodyBytes = 5 << 20

	defaultRedirectHops = 5
)

// Result carries the transport-level outcome of one page fetch.
type Result struct {
	Body        []byte
	FinalURL    string
	StatusCode  int
	ContentType string
}

// Client wraps http.Client with the policies a single-page fetch needs:
// scheme validation, a per-request deadline, a redirect hop cap, and a
// response size cap.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds the whole fetch. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxBodyBytes caps how much of the body is read. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// RedirectMaxHops caps redirect following to avoid loops. Zero means
	// default (5).
	RedirectMaxHops int
}

// Fetch issues a GET for rawURL and returns the body, final resolved URL,
// status code, and content type. Failures are wrapped in one of the error
// category sentinels above.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !isHTTPScheme(u) || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, rawURL)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	// A missing content type is tolerated; the extractor substitutes its
	// sentinel. A declared non-HTML type is rejected.
	if contentType != "" && !isAllowedHTMLContentType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}

	maxBody := c.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Result{
		Body:        body,
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}, nil
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = defaultRedirectHops
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isTimeout(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	// allow text/html variants and application/xhtml+xml
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
