package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nyaymitra-backend/models"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// Groq is the chat-completion provider (OpenAI-compatible API)
type Groq struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGroq creates a Groq client. An empty baseURL selects the public endpoint.
func NewGroq(apiKey, baseURL string) *Groq {
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return &Groq{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int32         `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatComplete sends messages to modelID once and returns the first choice.
// Non-success responses become errors that carry the status code.
func (g *Groq) ChatComplete(ctx context.Context, messages []models.ConversationTurn, modelID string, temperature float32, maxTokens int32) (string, error) {
	payload := chatRequest{
		Model:       modelID,
		Messages:    make([]chatMessage, 0, len(messages)),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API error: %d - %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("groq: %w", ErrEmptyContent)
	}
	return content, nil
}
