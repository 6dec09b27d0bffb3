package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const DefaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleConfig configures the public Google Translate endpoint
type GoogleConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// googleBackend talks to the keyless translate_a endpoint. Requests above
// roughly 5000 characters are rejected by the service.
type googleBackend struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogleBackend creates a Google Translate backend
func NewGoogleBackend(cfg GoogleConfig) Backend {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &googleBackend{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *googleBackend) Name() string {
	return BackendGoogle
}

func (g *googleBackend) Translate(ctx context.Context, text string, sourceLang string, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	form := url.Values{}
	form.Set("client", "gtx")
	form.Set("sl", googleLanguage(sourceLang))
	form.Set("tl", googleLanguage(targetLang))
	form.Set("dt", "t")
	form.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return "", fmt.Errorf("request timed out: %w", err)
		}
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated chunks of a translate_a reply:
// [[["translated","original",...],...],null,"en",...]
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var chunks [][]interface{}
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return "", fmt.Errorf("unexpected translate response shape: %w", err)
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		if s, ok := chunk[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

// googleLanguage maps BCP 47 tags to the codes the endpoint expects
func googleLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "", "und", "auto":
		return "auto"
	case "zh", "zh-hans", "zh-cn":
		return "zh-CN"
	case "zh-hant", "zh-tw":
		return "zh-TW"
	default:
		return lang
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
