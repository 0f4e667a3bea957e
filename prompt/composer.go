package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects one of the fixed templates
type Kind string

const (
	KindVerdict  Kind = "case_verdict"
	KindChat     Kind = "legal_assistant_concise"
	KindDocument Kind = "document_analysis"
	KindVoice    Kind = "voice_assistant"
)

// Complexity is the explanation level requested for the voice assistant
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityComplex      Complexity = "complex"
)

// DocumentExcerptLimit caps document text interpolated into a prompt, in characters
const DocumentExcerptLimit = 4000

var (
	ErrUnknownKind       = errors.New("unknown prompt kind")
	ErrUnknownComplexity = errors.New("unknown complexity level")
)

var complexityInstructions = map[Complexity]string{
	ComplexityBasic:        "Explain legal concepts in very simple terms, as if talking to someone with no legal background.",
	ComplexityIntermediate: "Provide clear legal explanations with some technical terms when necessary.",
	ComplexityComplex:      "Provide detailed legal analysis with proper citations and technical language.",
}

// ParseComplexity maps a request value to a Complexity. Empty means intermediate.
func ParseComplexity(s string) (Complexity, error) {
	if s == "" {
		return ComplexityIntermediate, nil
	}
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := complexityInstructions[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComplexity, s)
	}
	return c, nil
}

// Fields are the values interpolated into a template. Context and
// DocumentText must already be truncated by the caller.
type Fields struct {
	Category     string
	Plaintiff    string
	Defendant    string
	Question     string
	DocumentText string
	Context      string
	Complexity   Complexity
}

// Prompt is a rendered template. System is empty for single-shot templates,
// where the whole prompt travels in User.
type Prompt struct {
	System string
	User   string
}

// Compose renders the template for kind. The output depends only on the inputs.
func Compose(kind Kind, f Fields) (Prompt, error) {
	switch kind {
	case KindVerdict:
		return Prompt{User: verdictPrompt(f)}, nil
	case KindChat:
		return Prompt{User: chatPrompt(f)}, nil
	case KindDocument:
		return Prompt{
			System: documentSystemPrompt,
			User:   "Analyze this document:\n\n" + f.DocumentText,
		}, nil
	case KindVoice:
		instruction, ok := complexityInstructions[f.Complexity]
		if !ok {
			return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownComplexity, f.Complexity)
		}
		return Prompt{
			System: fmt.Sprintf(voiceSystemTemplate, instruction, f.Context),
			User:   f.Question,
		}, nil
	default:
		return Prompt{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func verdictPrompt(f Fields) string {
	return fmt.Sprintf(`You are an AI legal assistant analyzing a %s case. Based on the following information, provide a structured legal verdict.

Category: %s

Plaintiff's Statement:
%s

Defendant's Statement:
%s

Supporting Document Excerpt:
%s

Relevant Case Law Context:
%s

Please provide a comprehensive verdict with the following structure:

1. SUMMARY OF ARGUMENTS
   - Plaintiff's key arguments
   - Defendant's key arguments

2. FINDINGS OF FACT
   - Analysis of evidence and statements
   - Applicable legal principles
   - Relevant precedents

3. FINAL ORDER (VERDICT)
   - Clear decision
   - Reasoning
   - Recommendations

Format your response clearly with these three sections.`,
		f.Category,
		f.Category,
		f.Plaintiff,
		f.Defendant,
		f.DocumentText,
		f.Context,
	)
}

func chatPrompt(f Fields) string {
	return fmt.Sprintf(`You are Nyay Mitra, a friendly and knowledgeable legal assistant for Indian law.

IMPORTANT: Keep your response CONCISE and to the point (2-4 paragraphs maximum). Be direct and clear.

User question: %s

Relevant legal context from Indian case law:
%s

Provide helpful, accurate legal guidance in a conversational tone. Focus on:
1. Direct answer to the question
2. Key legal points only
3. Most relevant laws or precedents (if applicable)

Keep it brief and easy to understand. Avoid lengthy explanations unless specifically asked for details.`,
		f.Question,
		f.Context,
	)
}

const documentSystemPrompt = "You are a legal AI assistant. Analyze the provided document and provide legal insights."

const voiceSystemTemplate = `You are a legal AI assistant specializing in Indian law. %s

Relevant legal context:
%s

Also reference the Indian Constitution when applicable.`
