package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	geminiUserRole     = "user"
)

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate sends the prompt as a single user turn and classifies the outcome.
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	contents := []*genai.Content{
		{
			Role:  geminiUserRole,
			Parts: []*genai.Part{{Text: request.Prompt}},
		},
	}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: request.MaxOutputTokens,
	}

	span := transaction.StartChild("gemini.api_call")
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	span.Finish()

	if err != nil {
		log.Printf("[ERROR] Gemini request failed after %v: %v", time.Since(startTime), err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	response := p.classifyResponse(result)
	transaction.SetTag("success", fmt.Sprintf("%t", response.Kind == ResponseSuccess))
	log.Printf("[INFO] Gemini call completed in %v (kind=%d, output_length=%d)",
		time.Since(startTime), response.Kind, len(response.Text))
	return response, nil
}

// classifyResponse maps the raw Gemini response onto the typed result variants.
func (p *GeminiProvider) classifyResponse(result *genai.GenerateContentResponse) *GenerationResponse {
	response := &GenerationResponse{
		Feedback: promptFeedback(result),
		Usage:    usageFrom(result),
	}

	if len(result.Candidates) == 0 {
		response.Kind = ResponseNoCandidates
		return response
	}

	candidate := result.Candidates[0]
	response.FinishReason = string(candidate.FinishReason)

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		response.Kind = ResponseNoContent
		return response
	}

	if candidate.FinishReason != genai.FinishReasonStop {
		log.Printf("[WARN] Gemini response has content but finish_reason was %q", candidate.FinishReason)
	}

	response.Kind = ResponseSuccess
	response.Text = candidate.Content.Parts[0].Text
	return response
}

func promptFeedback(result *genai.GenerateContentResponse) string {
	if result.PromptFeedback == nil {
		return ""
	}
	feedback := fmt.Sprintf("Prompt Feedback: block_reason=%s", result.PromptFeedback.BlockReason)
	if result.PromptFeedback.BlockReasonMessage != "" {
		feedback += " (" + result.PromptFeedback.BlockReasonMessage + ")"
	}
	return feedback
}

func usageFrom(result *genai.GenerateContentResponse) *TokenUsage {
	if result.UsageMetadata == nil {
		return nil
	}
	return &TokenUsage{
		InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
		OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
	}
}
