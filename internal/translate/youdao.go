package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const youdaoEndpoint = "https://openapi.youdao.com/api"

// YoudaoProvider translates via the Youdao open platform text API,
// using the v3 signing scheme:
// sign = SHA256(appKey + input(q) + salt + curtime + appSecret).
type YoudaoProvider struct {
	appKey     string
	appSecret  string
	httpClient *http.Client

	// now is stubbed in tests
	now func() time.Time
}

// NewYoudaoProvider creates a Youdao translation provider
func NewYoudaoProvider(config *Config) *YoudaoProvider {
	return &YoudaoProvider{
		appKey:     config.YoudaoAppKey,
		appSecret:  config.YoudaoAppSecret,
		httpClient: &http.Client{Timeout: config.Timeout},
		now:        time.Now,
	}
}

// Name returns the provider name
func (p *YoudaoProvider) Name() string {
	return "youdao"
}

// IsAvailable checks if the provider is properly configured
func (p *YoudaoProvider) IsAvailable() error {
	if p.appKey == "" || p.appSecret == "" {
		return fmt.Errorf("Youdao AppKey or AppSecret not configured")
	}
	return nil
}

// Translate translates text into the target language
func (p *YoudaoProvider) Translate(ctx context.Context, text, target string) (string, error) {
	if err := p.IsAvailable(); err != nil {
		return "", err
	}
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("target language is empty")
	}

	salt := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	curtime := strconv.FormatInt(p.now().Unix(), 10)

	params := url.Values{}
	params.Set("q", text)
	params.Set("from", "auto")
	params.Set("to", YoudaoCode(target))
	params.Set("appKey", p.appKey)
	params.Set("salt", salt)
	params.Set("signType", "v3")
	params.Set("curtime", curtime)
	params.Set("sign", youdaoSign(p.appKey, text, salt, curtime, p.appSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, youdaoEndpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("youdao request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		ErrorCode   string   `json:"errorCode"`
		Translation []string `json:"translation"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unexpected youdao response: %w", err)
	}

	if result.ErrorCode != "0" {
		return "", fmt.Errorf("youdao error code %s", result.ErrorCode)
	}
	if len(result.Translation) == 0 || result.Translation[0] == "" {
		return "", ErrEmptyResult
	}
	return result.Translation[0], nil
}

// youdaoSign computes the v3 signature over the truncated input.
func youdaoSign(appKey, q, salt, curtime, appSecret string) string {
	sum := sha256.Sum256([]byte(appKey + youdaoInput(q) + salt + curtime + appSecret))
	return hex.EncodeToString(sum[:])
}

// youdaoInput applies the documented input rule: texts longer than 20
// characters are reduced to first10 + len + last10.
func youdaoInput(q string) string {
	runes := []rune(q)
	if len(runes) <= 20 {
		return q
	}
	return string(runes[:10]) + strconv.Itoa(len(runes)) + string(runes[len(runes)-10:])
}
