// Package openai calls the chat-completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alqabandi/burgerhouse/internal/assistant/application"
)

const requestTimeout = 15 * time.Second

type Client struct {
	log    *slog.Logger
	http   *http.Client
	apiURL string
	apiKey string
	model  string
}

func NewClient(log *slog.Logger, apiURL, apiKey, model string) *Client {
	return &Client{
		log:    log,
		http:   &http.Client{Timeout: requestTimeout},
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		model:  model,
	}
}

type completionRequest struct {
	Model       string                    `json:"model"`
	Messages    []application.ChatMessage `json:"messages"`
	Temperature float64                   `json:"temperature"`
	MaxTokens   int                       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Complete(ctx context.Context, messages []application.ChatMessage) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   550,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != nil {
		msg := "service_unavailable"
		if out.Error != nil {
			msg = out.Error.Message
		}
		c.log.Error("completion request failed", "status", resp.StatusCode, "message", msg)
		return "", fmt.Errorf("completion status %d: %s", resp.StatusCode, msg)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}
