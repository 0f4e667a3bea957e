package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var ErrEmptyContent = errors.New("provider returned empty content")

// Gemini is the single-shot content generation provider
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini client authenticated with an API key
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Close releases the underlying client
func (g *Gemini) Close() error {
	return g.client.Close()
}

// GenerateContent sends prompt to modelID once and returns the response text.
// Provider errors are returned with their original message so that quota
// signals ("429", "quota") stay visible to the caller.
func (g *Gemini) GenerateContent(ctx context.Context, prompt, modelID string) (string, error) {
	model := g.client.GenerativeModel(modelID)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", modelID, err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyContent
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}

	var text strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
			log.Warn().Int("candidate", i).Str("finish_reason", candidate.FinishReason.String()).Msg("gemini candidate did not stop normally")
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
		// Only the first candidate is used
		break
	}

	if text.Len() == 0 {
		return "", ErrEmptyContent
	}
	return text.String(), nil
}
