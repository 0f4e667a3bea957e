package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nyaymitra-backend/models"
)

// MockContentGenerator is a mock implementation of ContentGenerator
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, prompt, modelID string) (string, error) {
	args := m.Called(ctx, prompt, modelID)
	return args.String(0), args.Error(1)
}

// MockChatCompleter is a mock implementation of ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) ChatComplete(ctx context.Context, messages []models.ConversationTurn, modelID string, temperature float32, maxTokens int32) (string, error) {
	args := m.Called(ctx, messages, modelID, temperature, maxTokens)
	return args.String(0), args.Error(1)
}

// stubRetriever returns a fixed result and remembers the last query
type stubRetriever struct {
	raw      string
	query    string
	category string
	calls    int
}

func (r *stubRetriever) Search(ctx context.Context, queryText, category string) *models.RetrievalContext {
	r.calls++
	r.query = queryText
	r.category = category
	rc := &models.RetrievalContext{Query: queryText, Category: category}
	if r.raw != "" {
		rc.RawResult = []byte(r.raw)
	}
	return rc
}

// stubExtractor returns fixed text or an error
type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) Extract(filePath string, format models.DocumentFormat) (*models.ExtractedDocument, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &models.ExtractedDocument{SourceFormat: format, RawText: e.text}, nil
}

// stubSpeaker records what it was asked to speak
type stubSpeaker struct {
	text   string
	prefix string
	err    error
}

func (s *stubSpeaker) Synthesize(ctx context.Context, text, prefix string) (string, error) {
	s.text = text
	s.prefix = prefix
	if s.err != nil {
		return "", s.err
	}
	return "/static/audio/" + prefix + "1.mp3", nil
}
