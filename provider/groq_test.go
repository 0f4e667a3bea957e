package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaymitra-backend/models"
)

func TestGroq_ChatComplete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gq-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Bail is a right."}}]}`))
	}))
	defer server.Close()

	groq := NewGroq("gq-key", server.URL)
	text, err := groq.ChatComplete(context.Background(), []models.ConversationTurn{
		{Role: models.RoleSystem, Content: "You are a legal AI assistant."},
		{Role: models.RoleUser, Content: "Can I get bail?"},
	}, "llama-3.1-8b-instant", models.ChatTemperature, models.ChatMaxTokens)

	require.NoError(t, err)
	assert.Equal(t, "Bail is a right.", text)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	assert.Equal(t, int32(1024), got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Can I get bail?", got.Messages[1].Content)
}

func TestGroq_RateLimitErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	_, err := NewGroq("gq-key", server.URL).ChatComplete(context.Background(), nil, "m", 0.7, 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGroq_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewGroq("gq-key", server.URL).ChatComplete(context.Background(), nil, "m", 0.7, 1024)
	assert.ErrorContains(t, err, "no choices")
}

func TestGroq_EmptyContent(t *testing.T) {
	for name, body := range map[string]string{
		"null":  `{"choices":[{"message":{"role":"assistant","content":null}}]}`,
		"empty": `{"choices":[{"message":{"role":"assistant","content":""}}]}`,
		"blank": `{"choices":[{"message":{"role":"assistant","content":"  \n"}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			text, err := NewGroq("gq-key", server.URL).ChatComplete(context.Background(), nil, "m", 0.7, 1024)
			assert.ErrorIs(t, err, ErrEmptyContent)
			assert.Empty(t, text)
		})
	}
}

func TestNewGroq_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, defaultGroqBaseURL, NewGroq("k", "").baseURL)
}
