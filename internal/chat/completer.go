package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the chat-completion boundary: structured history plus a model
// identifier in, generated text out. The auth core never touches it.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}

// ErrNoCompleter is returned when no completion backend is configured.
var ErrNoCompleter = errors.New("chat completion backend not configured")

// HTTPCompleter is a thin pass-through to an OpenRouter-style
// chat-completions API. No retries, no streaming.
type HTTPCompleter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// CompleterFromEnv builds an HTTPCompleter from PARLEY_OPENROUTER_API_KEY
// and PARLEY_OPENROUTER_BASE_URL. Returns (nil, nil) when no key is set;
// callers treat a nil Completer as "backend disabled".
func CompleterFromEnv() (*HTTPCompleter, error) {
	key := strings.TrimSpace(os.Getenv("PARLEY_OPENROUTER_API_KEY"))
	if key == "" {
		return nil, nil
	}

	base := strings.TrimSpace(os.Getenv("PARLEY_OPENROUTER_BASE_URL"))
	if base == "" {
		base = "https://openrouter.ai/api/v1"
	}
	base = strings.TrimRight(base, "/")

	timeout := 120 * time.Second
	if v := strings.TrimSpace(os.Getenv("PARLEY_COMPLETION_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	return &HTTPCompleter{
		baseURL: base,
		apiKey:  key,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete posts the history to /chat/completions and returns the first
// choice's content.
func (c *HTTPCompleter) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{Model: model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("chat: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: completion call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain a little for a useful error without echoing the full body.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("chat: completion status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("chat: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat: completion returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
