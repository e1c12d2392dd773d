package aiproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gridwatch-sim/internal/config"
)

// Completer turns a system and user prompt into a model answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ChatClient talks to an OpenAI-compatible chat-completion endpoint.
type ChatClient struct {
	baseURL     string
	model       string
	keyEnv      string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	http        *http.Client
	getenv      func(string) string
}

// NewChatClient builds a client from the AI configuration block.
func NewChatClient(cfg config.AIConfig) *ChatClient {
	return &ChatClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		keyEnv:      cfg.APIKeyEnv,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.TimeoutDuration(),
		http:        &http.Client{},
		getenv:      os.Getenv,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// maxErrorBody bounds how much of a failed upstream body is kept for logs.
const maxErrorBody = 512

// Complete sends one chat-completion request. The API key is read from the
// environment on every call so it can be rotated without a restart.
func (c *ChatClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	key := c.getenv(c.keyEnv)
	if key == "" {
		return "", NewError(ConfigurationError, "AI service is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", WrapError(err, InternalError, "failed to encode request")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", WrapError(err, InternalError, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", WrapError(err, UpstreamFailure, "AI service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", WrapError(fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)), UpstreamFailure, "AI service request failed")
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", WrapError(err, UpstreamFailure, "invalid response from AI service")
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", NewError(UpstreamFailure, "empty response from AI service")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
