package translate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider defines the interface for machine translation backends
type Provider interface {
	// Translate translates text into the target language (generic code,
	// e.g. "zh-CN" or "de")
	Translate(ctx context.Context, text, target string) (string, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured
	IsAvailable() error
}

// ErrEmptyResult is returned when a provider answers without a translation.
var ErrEmptyResult = errors.New("provider returned an empty translation")

// Config holds common configuration for translation providers
type Config struct {
	Provider string // Provider name: "google", "openai", "gemini", "baidu" or "youdao"
	Timeout  time.Duration

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string

	// Baidu Fanyi credentials
	BaiduAppID string
	BaiduKey   string

	// Youdao open platform credentials
	YoudaoAppKey    string
	YoudaoAppSecret string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    "google",
		Timeout:     15 * time.Second,
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
	}
}

// NewProvider creates the appropriate translation provider based on
// configuration. Every provider is wrapped in a circuit breaker so a dead
// backend fails fast instead of stalling the whole translation run.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	var p Provider

	switch config.Provider {
	case "google":
		p = NewGoogleWebProvider(config)

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		p = NewOpenAIProvider(config)

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		p = NewGeminiProvider(config)

	case "baidu":
		if config.BaiduAppID == "" || config.BaiduKey == "" {
			return nil, fmt.Errorf("Baidu AppID and key are required")
		}
		p = NewBaiduProvider(config)

	case "youdao":
		if config.YoudaoAppKey == "" || config.YoudaoAppSecret == "" {
			return nil, fmt.Errorf("Youdao AppKey and AppSecret are required")
		}
		p = NewYoudaoProvider(config)

	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}

	return WithBreaker(p), nil
}
