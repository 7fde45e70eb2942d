package planner

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

	"github.com/mixmateai/mixmate/config"
)

const (
	DefaultHealthTimeout  = 5 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// Message is a single chat message sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Format   string    `json:"format"`
}

type chatResponse struct {
	Message *Message `json:"message"`
}

// OllamaClient talks to a local Ollama server.
type OllamaClient struct {
	baseURL        string
	model          string
	healthTimeout  time.Duration
	requestTimeout time.Duration
	httpClient     *http.Client
}

// NewOllamaClient creates a client from the ollama section of the config.
func NewOllamaClient(cfg config.OllamaConfig) *OllamaClient {
	client := &OllamaClient{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		model:          cfg.Model,
		healthTimeout:  cfg.HealthTimeout,
		requestTimeout: cfg.RequestTimeout,
		httpClient:     &http.Client{},
	}
	if client.healthTimeout <= 0 {
		client.healthTimeout = DefaultHealthTimeout
	}
	if client.requestTimeout <= 0 {
		client.requestTimeout = DefaultRequestTimeout
	}
	return client
}

// Ping checks that the server answers its root endpoint with 200 OK.
func (c *OllamaClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrDependencyUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama not responding properly (status %d)", ErrDependencyUnavailable, resp.StatusCode)
	}

	return nil
}

// Chat sends the messages in a single non-streaming JSON-format request and
// returns the raw content of the model's answer.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Format:   "json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrDependencyUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: chat request failed: %v", ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: chat returned %d: %s", ErrDependencyUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: undecodable chat response: %v", ErrMalformedResponse, err)
	}
	if chatResp.Message == nil {
		return "", fmt.Errorf("%w: chat response missing message", ErrMalformedResponse)
	}

	slog.Debug("Chat response received", "model", c.model, "length", len(chatResp.Message.Content))
	return chatResp.Message.Content, nil
}
