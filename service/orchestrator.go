package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nyaymitra-backend/metrics"
	"nyaymitra-backend/models"
)

// ContentGenerator is the single-shot generation capability
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt, modelID string) (string, error)
}

// ChatCompleter is the multi-turn chat-completion capability
type ChatCompleter interface {
	ChatComplete(ctx context.Context, messages []models.ConversationTurn, modelID string, temperature float32, maxTokens int32) (string, error)
}

// Policy is what a call site returns instead of a failed provider call.
// An empty FailureFallback propagates Fatal failures to the caller.
type Policy struct {
	QuotaFallback   string
	FailureFallback string
}

const verdictQuotaTemplate = `⚠️ API QUOTA EXCEEDED

We apologize for the inconvenience. The AI service has temporarily reached its usage limit.

TEMPORARY VERDICT ANALYSIS:

1. SUMMARY OF ARGUMENTS
   
   Plaintiff's Arguments:
   - The plaintiff has presented their case with supporting evidence and legal grounds.
   
   Defendant's Arguments:
   - The defendant has provided their counter-arguments and defense.

2. FINDINGS OF FACT
   
   Analysis:
   Due to API limitations, we cannot provide a full AI-generated analysis at this moment. 
   Please try again in a few minutes, or contact support for assistance.
   
   Note: This is a temporary limitation and will be resolved shortly.

3. FINAL ORDER
   
   Status: ANALYSIS PENDING
   Reason: API rate limit reached
   Recommendation: Please retry your request after 1-2 minutes.
   
For immediate assistance, please consult with a legal professional.

Error Details: API quota exceeded. Service will resume shortly.`

// Short replies for the conversational flows
const (
	QuotaApology   = "⚠️ I apologize, but I've reached my usage limit temporarily. Please try again in 1-2 minutes. The service will resume automatically."
	GenericApology = "I apologize, but I encountered an error. Please try again. If the issue persists, please contact support."
)

// VerdictQuotaTemplate is the placeholder verdict returned on quota exhaustion
func VerdictQuotaTemplate() string {
	return verdictQuotaTemplate
}

// DefaultPolicies holds the degradation policy of every call site.
// Verdicts propagate non-quota failures; conversational flows always answer.
var DefaultPolicies = map[models.CallSite]Policy{
	models.CallSiteVerdict:    {QuotaFallback: verdictQuotaTemplate},
	models.CallSiteChat:       {QuotaFallback: QuotaApology, FailureFallback: GenericApology},
	models.CallSiteChatWidget: {QuotaFallback: QuotaApology, FailureFallback: GenericApology},
	models.CallSiteVoice:      {QuotaFallback: QuotaApology, FailureFallback: GenericApology},
	models.CallSiteDocument:   {QuotaFallback: QuotaApology, FailureFallback: GenericApology},
}

// Orchestrator sends generation requests to the right provider and applies
// the call site's degradation policy. It makes exactly one attempt per request.
type Orchestrator struct {
	generative ContentGenerator
	chat       ChatCompleter
	rules      []FailureRule
	policies   map[models.CallSite]Policy
	metrics    *metrics.Metrics
}

// OrchestratorOption is a functional option for Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithContentGenerator sets the single-shot provider
func WithContentGenerator(g ContentGenerator) OrchestratorOption {
	return func(o *Orchestrator) {
		o.generative = g
	}
}

// WithChatCompleter sets the chat-completion provider
func WithChatCompleter(c ChatCompleter) OrchestratorOption {
	return func(o *Orchestrator) {
		o.chat = c
	}
}

// WithFailureRules replaces the classification rules
func WithFailureRules(rules []FailureRule) OrchestratorOption {
	return func(o *Orchestrator) {
		o.rules = rules
	}
}

// WithPolicies replaces the per-call-site policies
func WithPolicies(p map[models.CallSite]Policy) OrchestratorOption {
	return func(o *Orchestrator) {
		o.policies = p
	}
}

// WithOrchestratorMetrics sets the metrics sink
func WithOrchestratorMetrics(m *metrics.Metrics) OrchestratorOption {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		rules:    DefaultFailureRules,
		policies: DefaultPolicies,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate runs req against its provider. Provider errors are classified and
// either replaced by the call site's fallback text (Degraded=true) or returned
// wrapped in ErrProviderFailure.
func (o *Orchestrator) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	policy, ok := o.policies[req.CallSite]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCallSite, req.CallSite)
	}

	start := time.Now()
	text, err := o.call(ctx, req)
	elapsed := time.Since(start)

	if err == nil {
		o.metrics.RecordGeneration(string(req.CallSite), string(req.Provider), metrics.OutcomeOK, elapsed)
		return &models.GenerationResult{Text: text}, nil
	}

	class := Classify(err, o.rules)
	fallback := policy.FailureFallback
	if class == Degraded {
		fallback = policy.QuotaFallback
	}

	if fallback == "" {
		o.metrics.RecordGeneration(string(req.CallSite), string(req.Provider), metrics.OutcomeFailed, elapsed)
		log.Error().Err(err).
			Str("call_site", string(req.CallSite)).
			Str("model", req.ModelID).
			Msg("generation failed")
		return nil, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}

	o.metrics.RecordGeneration(string(req.CallSite), string(req.Provider), metrics.OutcomeDegraded, elapsed)
	log.Warn().Err(err).
		Str("call_site", string(req.CallSite)).
		Str("model", req.ModelID).
		Stringer("class", class).
		Msg("generation degraded")
	return &models.GenerationResult{Text: fallback, Degraded: true}, nil
}

func (o *Orchestrator) call(ctx context.Context, req models.GenerationRequest) (string, error) {
	switch req.Provider {
	case models.ProviderGenerative:
		if o.generative == nil {
			return "", ErrProviderNotConfig
		}
		prompt := req.UserContent
		if req.SystemContent != "" {
			prompt = req.SystemContent + "\n\n" + req.UserContent
		}
		return o.generative.GenerateContent(ctx, prompt, req.ModelID)

	case models.ProviderChat:
		if o.chat == nil {
			return "", ErrProviderNotConfig
		}
		var messages []models.ConversationTurn
		if req.SystemContent != "" {
			messages = append(messages, models.ConversationTurn{Role: models.RoleSystem, Content: req.SystemContent})
		}
		messages = append(messages, models.ConversationTurn{Role: models.RoleUser, Content: req.UserContent})
		return o.chat.ChatComplete(ctx, messages, req.ModelID, req.Temperature, req.MaxTokens)

	default:
		return "", fmt.Errorf("unknown provider: %s", req.Provider)
	}
}
