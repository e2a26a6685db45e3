package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mock_interview_backend/internal/config"
)

// openAIProvider OpenAI 兼容的 /chat/completions 接口
type openAIProvider struct {
	cfg    config.AIConfig
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
	MaxTokens   int32         `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newOpenAIProvider(cfg config.AIConfig, client *http.Client) (*openAIProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("generation: base_url is required for the openai provider")
	}
	if client == nil {
		// 超时由调用方 ctx 控制
		client = &http.Client{}
	}
	return &openAIProvider{cfg: cfg, client: client}, nil
}

func (o *openAIProvider) name() string { return "openai" }

func (o *openAIProvider) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       o.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: o.cfg.Temperature,
		TopP:        o.cfg.TopP,
		MaxTokens:   o.cfg.MaxOutputTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(o.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, truncateBody(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("AI API returned an unreadable body: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("AI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return chatResp.Choices[0].Message.Content, nil
}

func (o *openAIProvider) close() error {
	o.client.CloseIdleConnections()
	return nil
}

func truncateBody(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
