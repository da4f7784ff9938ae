// Package llm is the OpenRouter vision backend for participant extraction.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"zoom-attendance-llm/extract"
)

type Config struct {
	APIKey    string
	Model     string
	Providers []string

	// BaseURL overrides the OpenRouter endpoint, used by tests.
	BaseURL string
}

// OpenRouter API structures
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ProviderPreferences struct {
	Order          []string `json:"order,omitempty"`
	AllowFallbacks *bool    `json:"allow_fallbacks,omitempty"`
}

type ChatRequest struct {
	Model       string               `json:"model"`
	Messages    []Message            `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Provider    *ProviderPreferences `json:"provider,omitempty"`
}

type ChatResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

type Choice struct {
	Message ResponseMessage `json:"message"`
}

type ResponseMessage struct {
	Content string `json:"content"`
}

type APIError struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code"` // Can be string or number
}

const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	maxRetries    = 3
	initialDelay  = 1 * time.Second
)

// Client implements extract.Extractor over the OpenRouter chat completions API.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterURL
	}
	return &Client{cfg: cfg, http: &http.Client{}}, nil
}

func (c *Client) Provider() string { return "openrouter" }

// providerPreferences pins routing to the configured providers, if any.
func (c *Client) providerPreferences() *ProviderPreferences {
	if len(c.cfg.Providers) == 0 {
		return nil
	}
	allowFallbacks := false
	return &ProviderPreferences{
		Order:          c.cfg.Providers,
		AllowFallbacks: &allowFallbacks,
	}
}

// ExtractNames sends the participant panel image to an OpenRouter vision
// model and returns the raw response text, one name per line.
func (c *Client) ExtractNames(ctx context.Context, image []byte) (string, error) {
	base64Image := base64.StdEncoding.EncodeToString(image)
	imageURL := fmt.Sprintf("data:image/png;base64,%s", base64Image)

	request := ChatRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{
				Role: "user",
				Content: []Content{
					{Type: "text", Text: extract.Instruction},
					{Type: "image_url", ImageURL: &ImageURL{URL: imageURL}},
				},
			},
		},
		Temperature: 0.1,
		MaxTokens:   1000,
		Provider:    c.providerPreferences(),
	}

	// Bounded retry with backoff; auth failures are not worth retrying.
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(initialDelay) * (1.5 * float64(attempt)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", extract.NewServiceError(extract.KindTimeout, ctx.Err())
			}
		}

		response, err := c.makeAPIRequest(ctx, request)
		if err != nil {
			if extract.KindOf(err) == extract.KindAuth || extract.KindOf(err) == extract.KindTimeout {
				return "", err
			}
			lastErr = err
			continue
		}

		if len(response.Choices) == 0 {
			lastErr = extract.NewServiceError(extract.KindMalformed, fmt.Errorf("no choices in API response"))
			continue
		}

		return strings.TrimSpace(response.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) makeAPIRequest(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, extract.NewServiceError(extract.KindMalformed, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, extract.NewServiceError(extract.KindNetwork, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))
	req.Header.Set("X-Title", "Meeting Attendance Counter")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, extract.NewServiceError(extract.KindNetwork, fmt.Errorf("API request failed: %w", err))
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, extract.NewServiceError(extract.KindMalformed, fmt.Errorf("failed to decode response: %w", err))
	}

	if response.Error != nil {
		kind := classifyStatus(resp.StatusCode)
		return nil, extract.NewServiceError(kind, fmt.Errorf("API error: %s (type: %s, code: %v)",
			response.Error.Message, response.Error.Type, response.Error.Code))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, extract.NewServiceError(classifyStatus(resp.StatusCode),
			fmt.Errorf("API returned status %d", resp.StatusCode))
	}

	return &response, nil
}

func classifyStatus(status int) extract.Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return extract.KindAuth
	case status == http.StatusTooManyRequests || status == http.StatusPaymentRequired:
		return extract.KindRateLimit
	case status >= 500:
		return extract.KindNetwork
	default:
		return extract.KindMalformed
	}
}
