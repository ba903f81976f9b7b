package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cookpress/backend/config"
)

const textPrompt = `Extract the recipe from this text and output ONLY a JSON object with this exact format, no extra text, no markdown:

{"title": "Recipe Title Here", "ingredients": ["ingredient 1", "ingredient 2", "etc"], "steps": ["1. First step", "2. Second step", "etc"]}

Recipe text to extract from:
%s`

const imagePrompt = `Extract the recipe from this image and output ONLY valid JSON with no extra text or explanation. Format: {"title": "Recipe Title", "ingredients": ["ingredient 1", "ingredient 2"], "steps": ["1. First step", "2. Second step"]}. Read all text carefully.`

// InferenceClient is the boundary with the external inference provider.
// It returns the model's raw text response; everything downstream treats
// that text as untrusted input.
type InferenceClient interface {
	ExtractFromText(ctx context.Context, text string) (string, error)
	ExtractFromImage(ctx context.Context, image []byte, mimeType string) (string, error)
}

// GroqClient calls a Groq-compatible chat completions API, using a text
// model for pasted recipes and a vision model for photographed ones.
type GroqClient struct {
	apiKey      string
	apiURL      string
	textModel   string
	visionModel string
	client      *http.Client
}

// NewGroqClient creates a GroqClient from the loaded configuration. The
// HTTP client timeout is the caller-imposed bound on the one blocking
// call in the pipeline.
func NewGroqClient(cfg *config.Config) (*GroqClient, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("inference API key is not configured")
	}
	return &GroqClient{
		apiKey:      cfg.GroqAPIKey,
		apiURL:      cfg.GroqAPIURL,
		textModel:   cfg.GroqTextModel,
		visionModel: cfg.GroqVisionModel,
		client:      &http.Client{Timeout: cfg.InferenceTimeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// ExtractFromText asks the text model to structure a pasted recipe.
func (c *GroqClient) ExtractFromText(ctx context.Context, text string) (string, error) {
	req := chatRequest{
		Model: c.textModel,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(textPrompt, text)},
		},
		MaxTokens: 800,
	}
	return c.complete(ctx, req)
}

// ExtractFromImage asks the vision model to read a photographed or
// handwritten recipe. The image travels inline as a base64 data URL.
func (c *GroqClient) ExtractFromImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	req := chatRequest{
		Model: c.visionModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: imagePrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
		MaxTokens: 500,
	}
	return c.complete(ctx, req)
}

func (c *GroqClient) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return result.Choices[0].Message.Content, nil
}
