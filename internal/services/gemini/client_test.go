package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func successPayload(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func newTestClient(baseURL string, opts ...Option) *Client {
	base := []Option{WithSleeper(func(time.Duration) {})}
	return NewClient(Config{APIKey: "test", BaseURL: baseURL, Model: "demo-model"}, append(base, opts...)...)
}

func TestClientTransliterate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if err := json.NewEncoder(w).Encode(successPayload("1\n00:00:01,000 --> 00:00:02,000\nఒకటి")); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.Transliterate(context.Background(), "1\n00:00:01,000 --> 00:00:02,000\nokati")
	if err != nil {
		t.Fatalf("Transliterate returned error: %v", err)
	}
	if !strings.Contains(text, "ఒకటి") {
		t.Fatalf("unexpected text %q", text)
	}
	if gotPath != "/models/demo-model:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	prompt := gotBody.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "okati") {
		t.Fatalf("expected file content embedded in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "transliterate") {
		t.Fatalf("expected instruction template in prompt, got %q", prompt)
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(successPayload("ok"))
	}))
	defer server.Close()

	var waited time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(d time.Duration) { waited = d }),
		WithJitter(func(min, max time.Duration) time.Duration { return min }),
	)
	if _, err := client.Transliterate(context.Background(), "content"); err != nil {
		t.Fatalf("Transliterate returned error: %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}
	if waited != rateLimitWaitMin {
		t.Fatalf("expected rate-limit wait %s, got %s", rateLimitWaitMin, waited)
	}
}

func TestClientRetriesServerError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(successPayload("ok"))
	}))
	defer server.Close()

	var waits []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(d time.Duration) { waits = append(waits, d) }),
		WithJitter(func(min, max time.Duration) time.Duration { return min }),
	)
	if _, err := client.Transliterate(context.Background(), "content"); err != nil {
		t.Fatalf("Transliterate returned error: %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected 3 requests, got %d", requests)
	}
	for _, d := range waits {
		if d != serverErrorWaitMin {
			t.Fatalf("expected server-error wait %s, got %s", serverErrorWaitMin, d)
		}
	}
}

func TestClientDoesNotRetryClientError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Transliterate(context.Background(), "content"); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if requests != 1 {
		t.Fatalf("expected a single request, got %d", requests)
	}
}

func TestClientDoesNotRetryShapeError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Transliterate(context.Background(), "content")
	if err == nil {
		t.Fatal("expected shape error")
	}
	if !IsShapeError(err) {
		t.Fatalf("expected shape error, got %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected a single request, got %d", requests)
	}
}

func TestClientExhaustsAttempts(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL, WithJitter(func(min, max time.Duration) time.Duration { return min }))
	_, err := client.Transliterate(context.Background(), "content")
	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if requests != defaultMaxAttempts {
		t.Fatalf("expected %d requests, got %d", defaultMaxAttempts, requests)
	}
	if !strings.Contains(err.Error(), "failed after") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Transliterate(context.Background(), "content"); err == nil {
		t.Fatal("expected api key error")
	}
}
