// Package completion talks to an OpenAI-compatible chat completion API.
package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"meditrack-backend/config"

	"github.com/go-resty/resty/v2"
)

var ErrEmptyCompletion = errors.New("completion returned no choices")

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Client produces an assistant reply for a conversation.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAIClient calls POST {base}/chat/completions.
type OpenAIClient struct {
	client *resty.Client
	model  string
}

func NewOpenAIClient(cfg config.CompletionConfig) *OpenAIClient {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &OpenAIClient{client: c, model: cfg.Model}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&chatRequest{Model: c.model, Messages: messages}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		var er errorResponse
		if json.Unmarshal(resp.Body(), &er) == nil && er.Error.Message != "" {
			return "", fmt.Errorf("completion status %d: %s", resp.StatusCode(), er.Error.Message)
		}
		return "", fmt.Errorf("completion status %d", resp.StatusCode())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return cr.Choices[0].Message.Content, nil
}
