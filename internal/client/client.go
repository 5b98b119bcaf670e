package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Options configures a Client. Zero fields take the defaults noted.
type Options struct {
	BaseURL string
	// Timeout bounds each HTTP round trip (default 10s).
	Timeout time.Duration
	// RatePerSecond and Burst shape outbound calls (default 5/s, burst 10).
	RatePerSecond float64
	Burst         int
	// Retries is the number of extra attempts for idempotent GETs (default 0).
	Retries int
	// RetryInitial is the first backoff interval (default 200ms).
	RetryInitial time.Duration
	Logger       *slog.Logger
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Client talks to the Smart To-Do web backend. It keeps the login session in
// a cookie jar and is safe for concurrent use.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	jar          http.CookieJar
	limiter      *rate.Limiter
	retries      int
	retryInitial time.Duration
	log          *slog.Logger

	// The jar hands back name and value only; expiries seen in Set-Cookie
	// are kept here so a persisted session can expire locally.
	mu      sync.Mutex
	expires map[string]time.Time
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryInitial <= 0 {
		opts.RetryInitial = 200 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       jar,
			Transport: opts.Transport,
			// Redirects carry meaning here (login page vs. success page), so never follow them.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		jar:          jar,
		limiter:      rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		retries:      opts.Retries,
		retryInitial: opts.RetryInitial,
		log:          logger,
		expires:      map[string]time.Time{},
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

// Cookies returns the session cookies currently held for the backend, with
// the expiry the server set for them (zero for browser-session cookies).
func (c *Client) Cookies() []*http.Cookie {
	held := c.jar.Cookies(c.baseURL)
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*http.Cookie, 0, len(held))
	for _, ck := range held {
		out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/", Expires: c.expires[ck.Name]})
	}
	return out
}

// SetCookies seeds the jar, e.g. with a session persisted by a previous run.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.baseURL, cookies)
	c.recordExpiry(cookies, time.Now())
}

func (c *Client) recordExpiry(cookies []*http.Cookie, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ck := range cookies {
		if ck == nil || ck.Name == "" {
			continue
		}
		switch {
		case ck.MaxAge > 0:
			c.expires[ck.Name] = now.Add(time.Duration(ck.MaxAge) * time.Second).UTC()
		case ck.MaxAge < 0:
			delete(c.expires, ck.Name)
		case !ck.Expires.IsZero():
			c.expires[ck.Name] = ck.Expires.UTC()
		default:
			delete(c.expires, ck.Name)
		}
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and returns the response with an open body.
// The caller closes the body.
func (c *Client) do(ctx context.Context, op, method, path string, query, form url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, netErr(op, 0, err)
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, netErr(op, 0, fmt.Errorf("create request: %w", err))
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	// Flask treats this header as an XHR, matching what the browser sent.
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "op", op, "method", method, "path", path, "request_id", reqID, "err", err)
		return nil, netErr(op, 0, err)
	}
	c.recordExpiry(resp.Cookies(), time.Now())
	c.log.Debug("request", "op", op, "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))
	return resp, nil
}

// checkRedirect classifies a 3xx response. A redirect to the login page means
// the session is missing or expired.
func checkRedirect(op string, resp *http.Response) (location string, err error) {
	loc := resp.Header.Get("Location")
	u, perr := url.Parse(loc)
	if perr == nil && strings.HasPrefix(u.Path, "/login") {
		return loc, netErr(op, resp.StatusCode, ErrUnauthenticated)
	}
	return loc, nil
}

func isRedirect(code int) bool { return code >= 300 && code < 400 }

type successResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// postExpectSuccess posts a form to a JSON endpoint that answers {"success": bool}.
func (c *Client) postExpectSuccess(ctx context.Context, op, path string, form url.Values) error {
	if form == nil {
		form = url.Values{}
	}
	resp, err := c.do(ctx, op, http.MethodPost, path, nil, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) {
		if _, err := checkRedirect(op, resp); err != nil {
			return err
		}
		return netErr(op, resp.StatusCode, errors.New("unexpected redirect"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return netErr(op, resp.StatusCode, errors.New(readSnippet(resp.Body)))
	}

	var out successResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return netErr(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if out.Success == nil || !*out.Success {
		msg := strings.TrimSpace(out.Error + " " + out.Message)
		if msg == "" {
			msg = "request was not successful"
		}
		return netErr(op, resp.StatusCode, errors.New(msg))
	}
	return nil
}

// getJSON fetches path and decodes a JSON body into v.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, v any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) {
		if _, err := checkRedirect(op, resp); err != nil {
			return err
		}
		return netErr(op, resp.StatusCode, errors.New("unexpected redirect"))
	}
	if resp.StatusCode != http.StatusOK {
		return netErr(op, resp.StatusCode, errors.New(readSnippet(resp.Body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return netErr(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "empty response"
	}
	return s
}
