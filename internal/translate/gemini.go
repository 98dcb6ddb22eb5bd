package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiProvider translates paragraphs with a Google Gemini model.
type GeminiProvider struct {
	apiKey string
	model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiProvider creates a Gemini-backed translation provider
func NewGeminiProvider(config *Config) *GeminiProvider {
	model := config.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{
		apiKey: config.GeminiKey,
		model:  model,
	}
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the provider is properly configured
func (p *GeminiProvider) IsAvailable() error {
	if p.apiKey == "" {
		return fmt.Errorf("Gemini API key not found")
	}
	return nil
}

// Translate translates text into the target language
func (p *GeminiProvider) Translate(ctx context.Context, text, target string) (string, error) {
	if err := p.IsAvailable(); err != nil {
		return "", err
	}
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("target language is empty")
	}

	p.once.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if p.initErr != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", p.initErr)
	}

	prompt := fmt.Sprintf(
		"Translate the following text to %s. Respond with only the translation, nothing else.\n\n%s",
		languageLabel(target), text)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", ErrEmptyResult
	}
	return translation, nil
}
