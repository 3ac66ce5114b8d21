package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-2.5-flash"
	defaultHTTPTimeout = 400 * time.Second
	defaultMaxAttempts = 3

	rateLimitWaitMin   = 10 * time.Second
	rateLimitWaitMax   = 20 * time.Second
	serverErrorWaitMin = 5 * time.Second
	serverErrorWaitMax = 10 * time.Second
)

// Config captures the runtime settings required to talk to the endpoint.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
	MaxAttempts    int
}

// Client wraps the generativelanguage generateContent API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	maxAttempts int
	sleeper     func(time.Duration)
	jitter      func(min, max time.Duration) time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how retry waits are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithJitter overrides how randomized waits are drawn (useful for tests).
func WithJitter(jitter func(min, max time.Duration) time.Duration) Option {
	return func(c *Client) {
		c.jitter = jitter
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
			MaxAttempts:    attempts,
		},
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: attempts,
		jitter:      randomBetween,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("gemini request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type shapeError struct {
	Reason  string
	Snippet string
}

func (e *shapeError) Error() string {
	return fmt.Sprintf("gemini response: %s (response_snippet=%s)", e.Reason, e.Snippet)
}

// IsShapeError reports whether err came from an unexpected response shape,
// which is never retried.
func IsShapeError(err error) bool {
	var se *shapeError
	return errors.As(err, &se)
}

// Transliterate sends content wrapped in the instruction template and
// returns the generated document text.
func (c *Client) Transliterate(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", errors.New("gemini transliterate: api key required")
	}
	if strings.TrimSpace(content) == "" {
		return "", errors.New("gemini transliterate: content required")
	}
	payload := generateContentRequest{
		Contents: []requestContent{
			{Parts: []contentPart{{Text: BuildPrompt(content)}}},
		},
	}
	return c.generateWithRetry(ctx, payload)
}

type generateContentRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) generateWithRetry(ctx context.Context, payload generateContentRequest) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		text, err := c.sendOnce(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if attempt == c.maxAttempts {
			break
		}

		delay, retry := c.retryDelay(ctx, err)
		if !retry {
			return "", err
		}
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
	}
	return "", fmt.Errorf("gemini transliterate: failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, payload generateContentRequest) (string, error) {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "models", c.cfg.Model+":generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: build url: %w", err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("gemini request: new request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &shapeError{Reason: "invalid json", Snippet: summarizeSnippet(string(body))}
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("gemini request: api error: %s", strings.TrimSpace(decoded.Error.Message))
	}
	if len(decoded.Candidates) == 0 {
		return "", &shapeError{Reason: "missing candidates", Snippet: summarizeSnippet(string(body))}
	}
	for _, part := range decoded.Candidates[0].Content.Parts {
		if strings.TrimSpace(part.Text) != "" {
			return part.Text, nil
		}
	}
	return "", &shapeError{
		Reason:  fmt.Sprintf("missing content parts (finishReason=%q)", decoded.Candidates[0].FinishReason),
		Snippet: summarizeSnippet(string(body)),
	}
}

// retryDelay classifies err and returns how long to wait before the next
// attempt. Rate limits wait longer than server errors; client errors and
// malformed response shapes are never retried.
func (c *Client) retryDelay(ctx context.Context, err error) (time.Duration, bool) {
	if ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}
	if IsShapeError(err) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests:
			delay := c.jitter(rateLimitWaitMin, rateLimitWaitMax)
			if statusErr.RetryAfter > delay {
				delay = statusErr.RetryAfter
			}
			return delay, true
		case statusErr.StatusCode >= http.StatusInternalServerError:
			return c.jitter(serverErrorWaitMin, serverErrorWaitMax), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.jitter(serverErrorWaitMin, serverErrorWaitMax), true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return c.jitter(serverErrorWaitMin, serverErrorWaitMax), true
	}

	return 0, false
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func summarizeSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	clean := strings.Join(strings.Fields(replacer.Replace(trimmed)), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
