package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rosetta-md/rosetta-api/internal/config"
	"github.com/rosetta-md/rosetta-api/internal/llm"
	"github.com/rosetta-md/rosetta-api/internal/logger"
	"github.com/rosetta-md/rosetta-api/internal/observability"
)

// ErrorPrefix marks gateway output that reports a failure instead of model
// text. Callers branch on this prefix; the gateway itself never returns an
// error value.
const ErrorPrefix = "Error:"

// repeatedPhraseThreshold is the occurrence count above which a phrase is
// collapsed into a placeholder. A symptom-masking heuristic against model
// degeneration, not semantic deduplication.
const repeatedPhraseThreshold = 5

// Gateway wraps the single external generation call with the service's fixed
// configuration and normalizes every failure mode into an "Error: ..." string.
type Gateway struct {
	factory  *llm.ProviderFactory
	provider llm.Provider // overrides factory resolution when set (tests)
	langfuse *observability.LangfuseClient

	model           string
	maxOutputTokens int32
	timeout         time.Duration
}

// NewGateway creates a gateway resolving its provider from the factory on
// each call, so missing credentials fail the request rather than startup.
func NewGateway(factory *llm.ProviderFactory, cfg *config.Config, lf *observability.LangfuseClient) *Gateway {
	return &Gateway{
		factory:         factory,
		langfuse:        lf,
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		timeout:         cfg.GenerateTimeout,
	}
}

// NewGatewayWithProvider creates a gateway bound to a fixed provider.
func NewGatewayWithProvider(provider llm.Provider, model string, maxOutputTokens int32, timeout time.Duration) *Gateway {
	return &Gateway{
		provider:        provider,
		model:           model,
		maxOutputTokens: maxOutputTokens,
		timeout:         timeout,
	}
}

// Generate combines the static instruction blocks with the dynamic request
// and sends the result to the model. It returns the output text and any
// prompt feedback; all failures come back as text starting with ErrorPrefix.
func (g *Gateway) Generate(ctx context.Context, dynamicPrompt string) (string, string) {
	fullPrompt := thoughtsPreamble +
		systemInstruction + "\n\n" +
		operationalInstructions + "\n\n" +
		"Dynamic Request from Frontend:\n---\n" + dynamicPrompt + "\n---"

	provider, err := g.resolveProvider(ctx)
	if err != nil {
		logger.Error("No LLM provider available", err, logger.Fields{"model": g.model})
		return fmt.Sprintf("%s %s", ErrorPrefix, err.Error()), ""
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	trace := g.langfuse.StartTrace(ctx, "generate_note", map[string]interface{}{"model": g.model})
	gen := trace.Generation(provider.Name()+".generate", nil)
	gen.Input(fullPrompt)

	resp, err := provider.Generate(ctx, &llm.GenerationRequest{
		Model:           g.model,
		Prompt:          fullPrompt,
		MaxOutputTokens: g.maxOutputTokens,
	})
	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		trace.Finish()
		logger.Error("Model API call failed", err, logger.Fields{"model": g.model})
		return fmt.Sprintf("%s Exception during API call - %s", ErrorPrefix, err.Error()), ""
	}

	feedback := resp.Feedback

	switch resp.Kind {
	case llm.ResponseNoCandidates:
		gen.SetLevel("ERROR")
		gen.Finish()
		trace.Finish()
		logger.Warn("Model call returned no candidates", logger.Fields{"model": g.model, "feedback": feedback})
		return fmt.Sprintf("%s Model API call failed: No candidates returned.", ErrorPrefix), feedback
	case llm.ResponseNoContent:
		gen.SetLevel("ERROR")
		gen.Finish()
		trace.Finish()
		logger.Warn("Model call returned no content parts", logger.Fields{
			"model":         g.model,
			"finish_reason": resp.FinishReason,
		})
		return fmt.Sprintf("%s Model API call did not finish successfully (no content parts). Finish reason: %s",
			ErrorPrefix, resp.FinishReason), feedback
	}

	text := suppressRepeatedPhrases(resp.Text)

	gen.Output(text)
	gen.LogUsage(resp.Usage, g.model)
	gen.Finish()
	trace.Finish()

	return text, feedback
}

func (g *Gateway) resolveProvider(ctx context.Context) (llm.Provider, error) {
	if g.provider != nil {
		return g.provider, nil
	}
	return g.factory.GetProvider(ctx, g.model)
}

// suppressRepeatedPhrases collapses any period-delimited phrase occurring
// more than repeatedPhraseThreshold times into a bracketed placeholder.
// Already-bracketed phrases are skipped, which makes the pass idempotent.
// Phrases are processed in first-appearance order so identical input always
// produces identical output.
func suppressRepeatedPhrases(text string) string {
	counts := make(map[string]int)
	var order []string

	for _, phrase := range strings.Split(text, ". ") {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		if counts[phrase] == 0 {
			order = append(order, phrase)
		}
		counts[phrase]++
	}

	for _, phrase := range order {
		if counts[phrase] <= repeatedPhraseThreshold || strings.HasPrefix(phrase, "[REPEATED PHRASE:") {
			continue
		}
		text = strings.ReplaceAll(text, phrase, "[REPEATED PHRASE: "+phrase+"]")
	}
	return text
}
