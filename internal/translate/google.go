package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const googleWebURL = "https://translate.googleapis.com/translate_a/single"

// GoogleWebProvider translates via the unofficial Google web endpoint. It
// needs no credentials, which makes it the default provider, but it is rate
// limited on our side to stay polite.
type GoogleWebProvider struct {
	httpClient *http.Client
	rateLimit  *rateLimiter
}

// NewGoogleWebProvider creates a Google web translation provider
func NewGoogleWebProvider(config *Config) *GoogleWebProvider {
	return &GoogleWebProvider{
		httpClient: &http.Client{Timeout: config.Timeout},
		rateLimit:  newRateLimiter(60), // 60 requests per minute
	}
}

// Name returns the provider name
func (g *GoogleWebProvider) Name() string {
	return "google"
}

// IsAvailable checks if the provider is properly configured
func (g *GoogleWebProvider) IsAvailable() error {
	return nil // keyless
}

// Translate translates text into the target language
func (g *GoogleWebProvider) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("target language is empty")
	}

	g.rateLimit.wait()

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleWebURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google web request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google web returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	translated, err := parseGoogleWebResponse(body)
	if err != nil {
		return "", err
	}
	if translated == "" {
		return "", ErrEmptyResult
	}
	return translated, nil
}

// parseGoogleWebResponse extracts the translated text from the endpoint's
// nested-array response: [[["translated","source",...],...],...]. Segments
// are concatenated in order.
func parseGoogleWebResponse(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("unexpected google web response: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrEmptyResult
	}

	segments, ok := raw[0].([]any)
	if !ok {
		return "", ErrEmptyResult
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

// rateLimiter implements simple client-side rate limiting. One limiter is
// shared by every scheduler worker calling the provider concurrently.
type rateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	requests          []time.Time
}

func newRateLimiter(rpm int) *rateLimiter {
	return &rateLimiter{
		requestsPerMinute: rpm,
		requests:          make([]time.Time, 0, rpm),
	}
}

func (rl *rateLimiter) wait() {
	for {
		rl.mu.Lock()
		now := time.Now()

		// Drop requests older than one minute
		cutoff := now.Add(-1 * time.Minute)
		i := 0
		for i < len(rl.requests) && rl.requests[i].Before(cutoff) {
			i++
		}
		rl.requests = rl.requests[i:]

		if len(rl.requests) < rl.requestsPerMinute {
			rl.requests = append(rl.requests, now)
			rl.mu.Unlock()
			return
		}

		// At the cap; sleep with the lock released until the oldest
		// request ages out, then recheck.
		pause := rl.requests[0].Add(1 * time.Minute).Sub(now)
		rl.mu.Unlock()
		if pause > 0 {
			time.Sleep(pause)
		}
	}
}
