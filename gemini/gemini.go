// Package gemini is the Google Gemini vision backend for participant
// extraction, using the vendor client library.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"zoom-attendance-llm/extract"
)

type Config struct {
	APIKey string
	Model  string
}

type Client struct {
	cfg Config
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-lite"
	}
	return &Client{cfg: cfg}, nil
}

func (c *Client) Provider() string { return "gemini" }

// ExtractNames submits the participant panel image with the shared
// instruction and returns the concatenated response text.
func (c *Client) ExtractNames(ctx context.Context, image []byte) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.APIKey))
	if err != nil {
		return "", extract.NewServiceError(extract.KindAuth, fmt.Errorf("failed to init Gemini client: %w", err))
	}
	defer client.Close()

	model := client.GenerativeModel(c.cfg.Model)

	resp, err := model.GenerateContent(ctx,
		genai.ImageData("png", image),
		genai.Text(extract.Instruction),
	)
	if err != nil {
		return "", extract.NewServiceError(extract.KindNetwork, fmt.Errorf("gemini generation failed: %w", err))
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", extract.NewServiceError(extract.KindMalformed, errors.New("empty response from Gemini"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		} else {
			sb.WriteString(fmt.Sprint(part))
		}
	}

	return stripCodeFences(sb.String()), nil
}

// stripCodeFences removes surrounding Markdown code fences the model
// sometimes wraps its plain-text output in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		// remove a possible language tag at the start of the fence
		if i := strings.IndexByte(s, '\n'); i != -1 {
			first := strings.TrimSpace(s[:i])
			if len(first) > 0 && len(first) < 20 {
				s = s[i+1:]
			}
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
