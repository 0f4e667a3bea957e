package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"nyaymitra-backend/metrics"
	"nyaymitra-backend/models"
	"nyaymitra-backend/prompt"
	"nyaymitra-backend/repository"
	"nyaymitra-backend/retrieval"
	"nyaymitra-backend/speech"
)

// Category used for retrieval by the conversational flows
const generalCategory = "general"

// Extractor turns an uploaded file into text
type Extractor interface {
	Extract(filePath string, format models.DocumentFormat) (*models.ExtractedDocument, error)
}

// Retriever searches the case-law corpus. It never fails; an unavailable
// search yields a context without a result.
type Retriever interface {
	Search(ctx context.Context, queryText, category string) *models.RetrievalContext
}

// Generator runs a generation request under the degradation policy
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error)
}

// Speaker synthesizes text to a served audio URL
type Speaker interface {
	Synthesize(ctx context.Context, text, prefix string) (string, error)
}

// LegalService runs the generation pipeline for every user-facing operation
type LegalService struct {
	extractor     Extractor
	retriever     Retriever
	generator     Generator
	speaker       Speaker
	conversations repository.ConversationStore
	cases         repository.CaseLedger
	feedback      repository.FeedbackLedger
	modelFor      func(models.CallSite) string
	metrics       *metrics.Metrics
	now           func() time.Time
}

// LegalServiceOption is a functional option for LegalService
type LegalServiceOption func(*LegalService)

// WithExtractor sets the text extraction service
func WithExtractor(e Extractor) LegalServiceOption {
	return func(s *LegalService) {
		s.extractor = e
	}
}

// WithRetriever sets the case-law retriever
func WithRetriever(r Retriever) LegalServiceOption {
	return func(s *LegalService) {
		s.retriever = r
	}
}

// WithGenerator sets the generation orchestrator
func WithGenerator(g Generator) LegalServiceOption {
	return func(s *LegalService) {
		s.generator = g
	}
}

// WithSpeaker sets the speech synthesizer
func WithSpeaker(sp Speaker) LegalServiceOption {
	return func(s *LegalService) {
		s.speaker = sp
	}
}

// WithConversationStore sets the conversation store
func WithConversationStore(store repository.ConversationStore) LegalServiceOption {
	return func(s *LegalService) {
		s.conversations = store
	}
}

// WithCaseLedger sets the case ledger
func WithCaseLedger(l repository.CaseLedger) LegalServiceOption {
	return func(s *LegalService) {
		s.cases = l
	}
}

// WithFeedbackLedger sets the feedback ledger
func WithFeedbackLedger(l repository.FeedbackLedger) LegalServiceOption {
	return func(s *LegalService) {
		s.feedback = l
	}
}

// WithModelSelector sets the per-call-site model lookup
func WithModelSelector(fn func(models.CallSite) string) LegalServiceOption {
	return func(s *LegalService) {
		s.modelFor = fn
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) LegalServiceOption {
	return func(s *LegalService) {
		s.metrics = m
	}
}

// NewLegalService creates a new legal service. Stores default to in-memory.
func NewLegalService(opts ...LegalServiceOption) *LegalService {
	s := &LegalService{
		conversations: repository.NewMemoryConversationStore(),
		cases:         repository.NewMemoryCaseLedger(),
		feedback:      repository.NewMemoryFeedbackLedger(),
		modelFor:      func(models.CallSite) string { return "" },
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload is a saved file supplied with a request
type Upload struct {
	FilePath string
	Format   models.DocumentFormat
}

// VerdictRequest represents a request to generate a verdict
type VerdictRequest struct {
	UserID    string
	Category  string
	Plaintiff string
	Defendant string
	Document  *Upload // Optional
}

// VerdictResult represents a generated and recorded verdict
type VerdictResult struct {
	Case     models.CaseRecord
	Degraded bool
}

// Verdict generates a structured verdict and records it in the case ledger.
// Non-quota provider failures are returned and nothing is recorded.
func (s *LegalService) Verdict(ctx context.Context, req VerdictRequest) (*VerdictResult, error) {
	if req.UserID == "" || strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: user and category are required", ErrInvalidRequest)
	}

	var documentText string
	if req.Document != nil {
		doc, err := s.extract(*req.Document)
		if err != nil {
			return nil, err
		}
		documentText = retrieval.TruncateRunes(doc.RawText, prompt.DocumentExcerptLimit)
	}

	rc := s.retriever.Search(ctx, req.Plaintiff+" "+req.Defendant, req.Category)
	contextText := retrieval.Budget(rc, models.VerdictContextBudget)

	p, err := prompt.Compose(prompt.KindVerdict, prompt.Fields{
		Category:     req.Category,
		Plaintiff:    req.Plaintiff,
		Defendant:    req.Defendant,
		DocumentText: documentText,
		Context:      contextText,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.generator.Generate(ctx, s.request(models.CallSiteVerdict, models.ProviderGenerative, "", p))
	if err != nil {
		return nil, err
	}

	record := models.CaseRecord{
		UserID:             req.UserID,
		Category:           req.Category,
		Timestamp:          s.now(),
		PlaintiffStatement: req.Plaintiff,
		DefendantStatement: req.Defendant,
		VerdictText:        result.Text,
	}
	if err := s.cases.Record(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to record case: %w", err)
	}
	s.metrics.RecordCase()

	return &VerdictResult{Case: record, Degraded: result.Degraded}, nil
}

// ChatRequest represents a chat message
type ChatRequest struct {
	UserID  string
	Message string
	Widget  bool // the embedded chat widget uses its own model
}

// ChatResult is the reply plus the updated transcript
type ChatResult struct {
	Reply    string
	History  []models.ConversationTurn
	Degraded bool
}

// Chat answers a message and appends both turns to the user's history.
// Degraded replies are stored like any other assistant turn.
func (s *LegalService) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if req.UserID == "" || strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}

	if err := s.appendTurn(ctx, req.UserID, models.RoleUser, req.Message); err != nil {
		return nil, err
	}

	rc := s.retriever.Search(ctx, req.Message, generalCategory)
	contextText := retrieval.Budget(rc, models.ChatContextBudget)

	p, err := prompt.Compose(prompt.KindChat, prompt.Fields{
		Question: req.Message,
		Context:  contextText,
	})
	if err != nil {
		return nil, err
	}

	site := models.CallSiteChat
	if req.Widget {
		site = models.CallSiteChatWidget
	}
	result, err := s.generator.Generate(ctx, s.request(site, models.ProviderGenerative, "", p))
	if err != nil {
		return nil, err
	}

	if err := s.appendTurn(ctx, req.UserID, models.RoleAssistant, result.Text); err != nil {
		return nil, err
	}

	history, err := s.conversations.History(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return &ChatResult{Reply: result.Text, History: history, Degraded: result.Degraded}, nil
}

// VoiceRequest represents a spoken or typed question
type VoiceRequest struct {
	UserID     string
	Text       string
	ModelID    string // Optional; the configured voice model is used when empty
	Complexity string
}

// SpokenResult is a reply with its synthesized audio
type SpokenResult struct {
	Text     string
	AudioURL string
	Degraded bool
}

// Voice answers a question at the requested complexity and speaks the answer
func (s *LegalService) Voice(ctx context.Context, req VoiceRequest) (*SpokenResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	complexity, err := prompt.ParseComplexity(req.Complexity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	rc := s.retriever.Search(ctx, req.Text, generalCategory)
	contextText := retrieval.Budget(rc, models.VoiceContextBudget)

	p, err := prompt.Compose(prompt.KindVoice, prompt.Fields{
		Question:   req.Text,
		Context:    contextText,
		Complexity: complexity,
	})
	if err != nil {
		return nil, err
	}

	return s.speak(ctx, s.request(models.CallSiteVoice, models.ProviderChat, req.ModelID, p), speech.PrefixVoice)
}

// DocumentRequest represents a document submitted for spoken analysis
type DocumentRequest struct {
	UserID   string
	Document Upload
	ModelID  string // Optional; the configured document model is used when empty
}

// AnalyzeDocument extracts a document, analyzes the first part of it and
// speaks the analysis
func (s *LegalService) AnalyzeDocument(ctx context.Context, req DocumentRequest) (*SpokenResult, error) {
	doc, err := s.extract(req.Document)
	if err != nil {
		return nil, err
	}

	p, err := prompt.Compose(prompt.KindDocument, prompt.Fields{
		DocumentText: retrieval.TruncateRunes(doc.RawText, prompt.DocumentExcerptLimit),
	})
	if err != nil {
		return nil, err
	}

	return s.speak(ctx, s.request(models.CallSiteDocument, models.ProviderChat, req.ModelID, p), speech.PrefixDocument)
}

// SubmitFeedback appends a rating to the feedback ledger
func (s *LegalService) SubmitFeedback(ctx context.Context, userID, category, rating, remarks string) (*models.FeedbackRecord, error) {
	if userID == "" || strings.TrimSpace(rating) == "" {
		return nil, fmt.Errorf("%w: rating is required", ErrInvalidRequest)
	}

	record := &models.FeedbackRecord{
		UserID:    userID,
		Category:  category,
		Rating:    rating,
		Remarks:   remarks,
		Timestamp: s.now(),
	}
	if err := s.feedback.Record(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record feedback: %w", err)
	}
	return record, nil
}

// History returns the user's chat transcript
func (s *LegalService) History(ctx context.Context, userID string) ([]models.ConversationTurn, error) {
	return s.conversations.History(ctx, userID)
}

// RecentCases returns the last n recorded verdicts in insertion order
func (s *LegalService) RecentCases(ctx context.Context, n int) ([]models.CaseRecord, error) {
	records, err := s.cases.Recent(ctx, n)
	if errors.Is(err, repository.ErrInvalidLimit) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return records, err
}

// RecentFeedback returns the last n feedback entries in insertion order
func (s *LegalService) RecentFeedback(ctx context.Context, n int) ([]models.FeedbackRecord, error) {
	records, err := s.feedback.Recent(ctx, n)
	if errors.Is(err, repository.ErrInvalidLimit) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return records, err
}

func (s *LegalService) extract(u Upload) (*models.ExtractedDocument, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor configured", ErrInvalidRequest)
	}
	return s.extractor.Extract(u.FilePath, u.Format)
}

// request builds the generation request for a call site. An explicit model
// overrides the configured one.
func (s *LegalService) request(site models.CallSite, provider models.ProviderKind, modelID string, p prompt.Prompt) models.GenerationRequest {
	if modelID == "" {
		modelID = s.modelFor(site)
	}
	req := models.GenerationRequest{
		CallSite:      site,
		Provider:      provider,
		ModelID:       modelID,
		SystemContent: p.System,
		UserContent:   p.User,
	}
	if provider == models.ProviderChat {
		req.Temperature = models.ChatTemperature
		req.MaxTokens = models.ChatMaxTokens
	}
	return req
}

func (s *LegalService) speak(ctx context.Context, req models.GenerationRequest, prefix string) (*SpokenResult, error) {
	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	url, err := s.speaker.Synthesize(ctx, result.Text, prefix)
	if err != nil {
		return nil, err
	}

	return &SpokenResult{Text: result.Text, AudioURL: url, Degraded: result.Degraded}, nil
}

func (s *LegalService) appendTurn(ctx context.Context, userID string, role models.Role, content string) error {
	if err := s.conversations.Append(ctx, userID, models.ConversationTurn{Role: role, Content: content}); err != nil {
		return fmt.Errorf("failed to append %s turn: %w", role, err)
	}
	s.metrics.RecordTurn()
	log.Debug().Str("user_id", userID).Str("role", string(role)).Msg("conversation turn appended")
	return nil
}
