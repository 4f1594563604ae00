// Package aoc is the HTTP client for the puzzle website: it downloads
// inputs and submits answers using the session cookie of a logged-in user.
package aoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults for Config.
const (
	DefaultBaseURL   = "https://adventofcode.com"
	DefaultUserAgent = "github.com/roach88/aoc"
	DefaultTimeout   = 30 * time.Second

	// DefaultMaxResponseSize bounds a response body.
	DefaultMaxResponseSize = 10 << 20
)

// ErrResponseTooLarge is returned when a body exceeds the configured limit.
// Such a body is never handed back truncated.
var ErrResponseTooLarge = errors.New("response body too large")

// Config configures a Client.
type Config struct {
	BaseURL   string
	Session   string
	UserAgent string
	Timeout   time.Duration

	// MaxResponseSize is the largest body accepted, in bytes.
	MaxResponseSize int64
}

// Client talks to the puzzle website. It keeps no state between calls
// besides the session cookie and never retries.
type Client struct {
	baseURL   *url.URL
	session   string
	userAgent string
	maxBody   int64
	http      *http.Client
}

// NewClient creates a Client. A missing session is not an error here: it is
// reported as an AuthenticationError on first use, so commands that never
// touch the network work without credentials.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseSize <= 0 {
		cfg.MaxResponseSize = DefaultMaxResponseSize
	}

	session := strings.TrimSpace(cfg.Session)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if session != "" {
		jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: session, Path: "/"}})
	}

	return &Client{
		baseURL:   u,
		session:   session,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxResponseSize,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
			// A redirect means the session was not accepted (login page).
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func (c *Client) dayURL(year, day int, suffix string) string {
	return fmt.Sprintf("%s/%d/day/%d%s", c.baseURL.String(), year, day, suffix)
}

// PuzzleURL returns the puzzle page for year/day.
func (c *Client) PuzzleURL(year, day int) string {
	return c.dayURL(year, day, "")
}

// FetchInput downloads the puzzle input. The body is returned exactly as
// received: inputs are sensitive to trailing whitespace.
func (c *Client) FetchInput(ctx context.Context, year, day int) (string, error) {
	if c.session == "" {
		return "", &AuthenticationError{Err: ErrSessionMissing}
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.dayURL(year, day, "/input"), nil)
	if err != nil {
		return "", &FetchError{Year: year, Day: day, Err: err}
	}

	body, status, err := c.do(req)
	if err != nil {
		return "", &FetchError{Year: year, Day: day, StatusCode: status, Err: err}
	}

	switch {
	case status == http.StatusOK:
		return string(body), nil
	case isAuthStatus(status):
		return "", &AuthenticationError{StatusCode: status, Err: errors.New(snippet(body))}
	default:
		return "", &FetchError{Year: year, Day: day, StatusCode: status, Err: errors.New(snippet(body))}
	}
}

// SubmitAnswer posts answer for one part and parses the verdict.
func (c *Client) SubmitAnswer(ctx context.Context, year, day, part int, answer string) (Result, error) {
	if c.session == "" {
		return Result{}, &AuthenticationError{Err: ErrSessionMissing}
	}

	form := url.Values{}
	form.Set("level", strconv.Itoa(part))
	form.Set("answer", answer)

	req, err := c.newRequest(ctx, http.MethodPost, c.dayURL(year, day, "/answer"), strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, &SubmissionError{Year: year, Day: day, Part: part, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, status, err := c.do(req)
	if err != nil {
		return Result{}, &SubmissionError{Year: year, Day: day, Part: part, StatusCode: status, Err: err}
	}
	if isAuthStatus(status) {
		return Result{}, &AuthenticationError{StatusCode: status, Err: errors.New(snippet(body))}
	}
	if status < 200 || status >= 300 {
		return Result{}, &SubmissionError{Year: year, Day: day, Part: part, StatusCode: status, Err: errors.New(snippet(body))}
	}

	text, err := articleText(bytes.NewReader(body))
	if err != nil {
		return Result{}, &SubmissionError{Year: year, Day: day, Part: part, StatusCode: status, Err: err}
	}
	res, ok := classify(text)
	if !ok {
		return res, &SubmissionError{Year: year, Day: day, Part: part, StatusCode: status,
			Err: fmt.Errorf("unexpected response: %s", snippet([]byte(text)))}
	}
	return res, nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if int64(len(b)) > c.maxBody {
		return nil, resp.StatusCode, fmt.Errorf("%w (limit %d bytes)", ErrResponseTooLarge, c.maxBody)
	}
	return b, resp.StatusCode, nil
}

// isAuthStatus reports statuses the service uses for a missing or stale
// session: 400 ("please log in"), 401, 403 and redirects to the login page.
func isAuthStatus(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return status >= 300 && status < 400
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		s = "empty response"
	}
	return s
}
