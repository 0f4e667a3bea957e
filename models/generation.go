package models

// ProviderKind selects a language-model provider
type ProviderKind string

const (
	// ProviderGenerative is the single-shot content generation provider (Gemini)
	ProviderGenerative ProviderKind = "generative"
	// ProviderChat is the multi-turn chat-completion provider (Groq)
	ProviderChat ProviderKind = "chat"
)

// CallSite names the pipeline step issuing a generation request
type CallSite string

const (
	CallSiteVerdict    CallSite = "verdict"
	CallSiteChat       CallSite = "chat"
	CallSiteChatWidget CallSite = "chat_widget"
	CallSiteVoice      CallSite = "voice"
	CallSiteDocument   CallSite = "document"
)

// Chat-completion sampling parameters used by the voice and document flows
const (
	ChatTemperature = 0.7
	ChatMaxTokens   = 1024
)

// GenerationRequest is an immutable provider call description
type GenerationRequest struct {
	CallSite      CallSite     `json:"call_site"`
	Provider      ProviderKind `json:"provider"`
	ModelID       string       `json:"model_id"`
	SystemContent string       `json:"system_content,omitempty"` // template content for the generative provider
	UserContent   string       `json:"user_content,omitempty"`
	Temperature   float32      `json:"temperature,omitempty"`
	MaxTokens     int32        `json:"max_tokens,omitempty"`
}

// GenerationResult is the text returned by a provider or by the degradation policy
type GenerationResult struct {
	Text     string `json:"text"`
	Degraded bool   `json:"degraded"`
}
