package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const providerNameOpenAI = "openai"

// OpenAIProvider implements the Provider interface using OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate sends the prompt as a single user message and classifies the outcome.
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(request.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
		MaxOutputTokens: openai.Int(int64(request.MaxOutputTokens)),
	}

	span := transaction.StartChild("openai.api_call")
	resp, err := p.client.Responses.New(ctx, params)
	span.Finish()

	if err != nil {
		log.Printf("[ERROR] OpenAI request failed after %v: %v", time.Since(startTime), err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	response := &GenerationResponse{
		FinishReason: string(resp.Status),
		Usage: &TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}

	text := resp.OutputText()
	if text == "" {
		// The Responses API has no per-candidate structure; an empty output is
		// reported as the no-content variant with the response status attached.
		response.Kind = ResponseNoContent
		transaction.SetTag("success", "false")
		return response, nil
	}

	response.Kind = ResponseSuccess
	response.Text = text
	transaction.SetTag("success", "true")
	log.Printf("[INFO] OpenAI call completed in %v (output_length=%d)", time.Since(startTime), len(text))
	return response, nil
}
