package translate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
)

const baiduEndpoint = "https://fanyi-api.baidu.com/api/trans/vip/translate"

// BaiduProvider translates via the official Baidu Fanyi API.
// Requests are signed with MD5(appid+q+salt+key).
type BaiduProvider struct {
	appID      string
	key        string
	httpClient *http.Client
}

// NewBaiduProvider creates a Baidu Fanyi translation provider
func NewBaiduProvider(config *Config) *BaiduProvider {
	return &BaiduProvider{
		appID:      config.BaiduAppID,
		key:        config.BaiduKey,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Name returns the provider name
func (p *BaiduProvider) Name() string {
	return "baidu"
}

// IsAvailable checks if the provider is properly configured
func (p *BaiduProvider) IsAvailable() error {
	if p.appID == "" || p.key == "" {
		return fmt.Errorf("Baidu AppID or key not configured")
	}
	return nil
}

// Translate translates text into the target language
func (p *BaiduProvider) Translate(ctx context.Context, text, target string) (string, error) {
	if err := p.IsAvailable(); err != nil {
		return "", err
	}
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("target language is empty")
	}

	salt := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

	params := url.Values{}
	params.Set("q", text)
	params.Set("from", "auto")
	params.Set("to", BaiduCode(target))
	params.Set("appid", p.appID)
	params.Set("salt", salt)
	params.Set("sign", baiduSign(p.appID, text, salt, p.key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baiduEndpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("baidu request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		ErrorCode   string `json:"error_code"`
		ErrorMsg    string `json:"error_msg"`
		TransResult []struct {
			Src string `json:"src"`
			Dst string `json:"dst"`
		} `json:"trans_result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unexpected baidu response: %w", err)
	}

	if result.ErrorCode != "" && result.ErrorCode != "52000" {
		return "", fmt.Errorf("baidu error %s: %s", result.ErrorCode, result.ErrorMsg)
	}
	if len(result.TransResult) == 0 || result.TransResult[0].Dst == "" {
		return "", ErrEmptyResult
	}
	return result.TransResult[0].Dst, nil
}

// baiduSign computes MD5(appid+q+salt+key) as hex.
func baiduSign(appID, q, salt, key string) string {
	sum := md5.Sum([]byte(appID + q + salt + key))
	return hex.EncodeToString(sum[:])
}
