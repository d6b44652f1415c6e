package llm

import "context"

// Provider defines the interface for LLM providers.
type Provider interface {
	// Generate sends a single text prompt and returns a typed result.
	// API-level failure modes (no candidates, no content parts, safety
	// blocks) are reported through GenerationResponse.Kind; only transport
	// failures surface as errors.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "gemini", "openai")
	Name() string
}

// GenerationRequest contains all parameters needed for one generation call.
type GenerationRequest struct {
	Model           string
	Prompt          string
	MaxOutputTokens int32
}

// ResponseKind classifies the outcome of a generation call.
type ResponseKind int

const (
	// ResponseSuccess means the model returned usable output text.
	ResponseSuccess ResponseKind = iota
	// ResponseNoContent means a candidate came back without content parts;
	// FinishReason carries the reported reason.
	ResponseNoContent
	// ResponseNoCandidates means the API returned no candidates at all.
	ResponseNoCandidates
)

// GenerationResponse is the typed result of a generation call.
type GenerationResponse struct {
	Kind         ResponseKind
	Text         string
	Feedback     string // prompt feedback / safety diagnostics, may be empty
	FinishReason string
	Usage        *TokenUsage
}

// TokenUsage reports token counts when the provider supplies them.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}
