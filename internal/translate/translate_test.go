package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sony/gobreaker"
)

func TestLanguageCodes(t *testing.T) {
	tests := []struct {
		generic string
		baidu   string
		youdao  string
	}{
		{"zh-CN", "zh", "zh-CHS"},
		{"zh-TW", "cht", "zh-CHT"},
		{"ja", "jp", "ja"},
		{"ko", "kor", "ko"},
		{"fr", "fra", "fr"},
		{"de", "de", "de"},
	}

	for _, tt := range tests {
		if got := BaiduCode(tt.generic); got != tt.baidu {
			t.Errorf("BaiduCode(%s) = %s, want %s", tt.generic, got, tt.baidu)
		}
		if got := YoudaoCode(tt.generic); got != tt.youdao {
			t.Errorf("YoudaoCode(%s) = %s, want %s", tt.generic, got, tt.youdao)
		}
	}

	// Unknown codes fall back to the generic code
	if got := BaiduCode("xx"); got != "xx" {
		t.Errorf("BaiduCode(xx) = %s, want xx", got)
	}
	if got := YoudaoCode("xx"); got != "xx" {
		t.Errorf("YoudaoCode(xx) = %s, want xx", got)
	}
}

func TestLanguageOptions_RoundTrip(t *testing.T) {
	opts := LanguageOptions()
	if len(opts) != len(Languages) {
		t.Fatalf("got %d options, want %d", len(opts), len(Languages))
	}

	for i, opt := range opts {
		if got := LanguageByOption(opt); got != Languages[i].Code {
			t.Errorf("LanguageByOption(%q) = %s, want %s", opt, got, Languages[i].Code)
		}
	}

	if got := LanguageByOption("Klingon (tlh)"); got != "" {
		t.Errorf("unknown option mapped to %q", got)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"default google", &Config{Provider: "google"}, false},
		{"openai with key", &Config{Provider: "openai", OpenAIKey: "sk-test"}, false},
		{"openai without key", &Config{Provider: "openai"}, true},
		{"gemini with key", &Config{Provider: "gemini", GeminiKey: "test"}, false},
		{"gemini without key", &Config{Provider: "gemini"}, true},
		{"baidu with credentials", &Config{Provider: "baidu", BaiduAppID: "id", BaiduKey: "key"}, false},
		{"baidu missing key", &Config{Provider: "baidu", BaiduAppID: "id"}, true},
		{"youdao with credentials", &Config{Provider: "youdao", YoudaoAppKey: "k", YoudaoAppSecret: "s"}, false},
		{"youdao missing secret", &Config{Provider: "youdao", YoudaoAppKey: "k"}, true},
		{"unknown provider", &Config{Provider: "babelfish"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got provider %v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if p.Name() != tt.config.Provider {
				t.Errorf("Name() = %s, want %s", p.Name(), tt.config.Provider)
			}
		})
	}
}

func TestNewProvider_NilConfig(t *testing.T) {
	p, err := NewProvider(nil)
	if err != nil {
		t.Fatalf("NewProvider(nil) failed: %v", err)
	}
	if p.Name() != "google" {
		t.Errorf("default provider = %s, want google", p.Name())
	}
}

func TestBaiduSign(t *testing.T) {
	// Example from the Baidu API documentation: appid=2015063000000001,
	// q=apple, salt=1435660288, key=12345678
	got := baiduSign("2015063000000001", "apple", "1435660288", "12345678")
	want := "f89f9594663708c1605f3d736d01d2d4"
	if got != want {
		t.Errorf("baiduSign() = %s, want %s", got, want)
	}
}

func TestYoudaoInput(t *testing.T) {
	tests := []struct {
		q    string
		want string
	}{
		{"short", "short"},
		{strings.Repeat("a", 20), strings.Repeat("a", 20)},
		{strings.Repeat("a", 30), strings.Repeat("a", 10) + "30" + strings.Repeat("a", 10)},
	}
	for _, tt := range tests {
		if got := youdaoInput(tt.q); got != tt.want {
			t.Errorf("youdaoInput(%q) = %q, want %q", tt.q, got, tt.want)
		}
	}
}

func TestParseGoogleWebResponse(t *testing.T) {
	body := []byte(`[[["Hallo Welt","Hello world",null,null,10],["!","" ,null,null,3]],null,"en"]`)
	got, err := parseGoogleWebResponse(body)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got != "Hallo Welt!" {
		t.Errorf("parsed %q, want %q", got, "Hallo Welt!")
	}
}

func TestParseGoogleWebResponse_Invalid(t *testing.T) {
	if _, err := parseGoogleWebResponse([]byte("<html>blocked</html>")); err == nil {
		t.Error("expected error for non-JSON response")
	}
	if _, err := parseGoogleWebResponse([]byte("[]")); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("empty array err = %v, want ErrEmptyResult", err)
	}
}

// One limiter is shared by all scheduler workers, so wait must be safe to
// call from several goroutines at once.
func TestRateLimiter_ConcurrentWaits(t *testing.T) {
	rl := newRateLimiter(100000)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				rl.wait()
			}
		}()
	}
	wg.Wait()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.requests) != 2000 {
		t.Errorf("recorded %d requests, want 2000", len(rl.requests))
	}
}

func TestSplitChunks(t *testing.T) {
	short := "One sentence."
	if got := splitChunks(short, 100); len(got) != 1 || got[0] != short {
		t.Errorf("short text split: %v", got)
	}

	// Three sentences of ~12 runes each with max 30 must split at
	// sentence boundaries.
	text := "First one is here. Second one now. Third is last."
	chunks := splitChunks(text, 30)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	for i, c := range chunks {
		if len([]rune(c)) > 30 {
			t.Errorf("chunk %d exceeds limit: %q", i, c)
		}
	}
	joined := strings.Join(chunks, " ")
	if strings.ReplaceAll(joined, " ", "") != strings.ReplaceAll(text, " ", "") {
		t.Errorf("chunks lost content: %q", joined)
	}
}

func TestSplitChunks_OversizedSentence(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := splitChunks(text, 30)
	for i, c := range chunks {
		if len([]rune(c)) > 30 {
			t.Errorf("chunk %d exceeds limit: %d runes", i, len([]rune(c)))
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("oversized sentence chunks lost content")
	}
}

func TestText_Chunked(t *testing.T) {
	calls := 0
	p := providerFunc(func(ctx context.Context, text, target string) (string, error) {
		calls++
		return strings.ToUpper(text), nil
	})

	got, err := Text(context.Background(), p, "abc. def. ghi.", "en")
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if got != "ABC. DEF. GHI." {
		t.Errorf("Text() = %q", got)
	}
	if calls != 1 {
		t.Errorf("short paragraph made %d calls, want 1", calls)
	}
}

func TestText_ChunkFailureFailsParagraph(t *testing.T) {
	boom := errors.New("boom")
	p := providerFunc(func(ctx context.Context, text, target string) (string, error) {
		return "", boom
	})

	if _, err := Text(context.Background(), p, "hello", "de"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	fails := providerFunc(func(ctx context.Context, text, target string) (string, error) {
		calls++
		return "", fmt.Errorf("provider down")
	})
	b := WithBreaker(fails)

	for i := 0; i < 5; i++ {
		if _, err := b.Translate(context.Background(), "x", "de"); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Breaker is now open: the call fails without reaching the provider.
	if _, err := b.Translate(context.Background(), "x", "de"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want ErrOpenState", err)
	}
	if calls != 5 {
		t.Errorf("provider called %d times, want 5", calls)
	}
}

// providerFunc adapts a function to the Provider interface for tests.
type providerFunc func(ctx context.Context, text, target string) (string, error)

func (f providerFunc) Translate(ctx context.Context, text, target string) (string, error) {
	return f(ctx, text, target)
}

func (f providerFunc) Name() string      { return "test" }
func (f providerFunc) IsAvailable() error { return nil }
