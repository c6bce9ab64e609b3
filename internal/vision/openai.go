package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	systemPrompt = "You are a helpful medical assistant. This tool is not for diagnosis but helps users understand if a mole or skin lesion may need medical attention. Focus on the ABCDE criteria (Asymmetry, Border irregularity, Color variation, Diameter >6mm, Evolution) in your assessment."

	userPrompt = "Please review this image and assess whether the mole or lesion shows any risk signs. Consider the ABCDE criteria. Categorize it as low, medium, or high risk, and explain why."

	maxOutputTokens = 500
	imageDetail     = "high"
)

// OpenAIClient calls an OpenAI-compatible chat-completions endpoint with a
// single blocking request. No retries and no streaming; a failed call is
// reported to the caller as-is.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// NewOpenAIClient constructs a client for the given endpoint and model.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		logger:     logger.Named("vision_client"),
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
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
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Assess sends the encoded image plus the fixed ABCDE instruction and
// returns the model's explanation text.
func (c *OpenAIClient) Assess(ctx context.Context, imageDataURI string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: imageDataURI, Detail: imageDetail}},
			}},
		},
		MaxTokens: maxOutputTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("chat completion request failed", zap.Error(err))
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("chat completion returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", data),
			zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("chat completion status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("chat completion returned no content")
	}

	c.logger.Info("assessment received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("reply_chars", len(parsed.Choices[0].Message.Content)))
	return parsed.Choices[0].Message.Content, nil
}
