package observability

import (
	"context"
	"log"
	"time"

	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"

	"github.com/rosetta-md/rosetta-api/internal/config"
	"github.com/rosetta-md/rosetta-api/internal/llm"
)

// LangfuseClient wraps the Langfuse client with our configuration. A nil or
// disabled client is safe to use everywhere; every method degrades to a no-op.
type LangfuseClient struct {
	client  *langfuse.Langfuse
	enabled bool
}

// InitializeLangfuse creates the Langfuse client when the feature flag and
// credentials are present. The SDK reads its keys from the environment.
func InitializeLangfuse(ctx context.Context, cfg *config.Config) *LangfuseClient {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" {
		log.Println("Langfuse not configured (LANGFUSE_ENABLED=false or LANGFUSE_SECRET_KEY not set)")
		return &LangfuseClient{enabled: false}
	}

	lf := langfuse.New(ctx)
	log.Printf("Langfuse initialized (host: %s)", cfg.LangfuseHost)
	return &LangfuseClient{client: lf, enabled: true}
}

// IsEnabled returns whether Langfuse is enabled
func (c *LangfuseClient) IsEnabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// StartTrace starts a new trace in Langfuse
func (c *LangfuseClient) StartTrace(ctx context.Context, name string, metadata map[string]interface{}) *Trace {
	if !c.IsEnabled() {
		return &Trace{enabled: false, ctx: ctx}
	}

	trace, err := c.client.Trace(&model.Trace{Name: name, Metadata: metadata})
	if err != nil {
		log.Printf("[WARN] Failed to create Langfuse trace: %v", err)
		return &Trace{enabled: false, ctx: ctx}
	}

	return &Trace{trace: trace, enabled: true, ctx: ctx, client: c.client}
}

// Trace represents a Langfuse trace around one note generation.
type Trace struct {
	trace   *model.Trace
	enabled bool
	ctx     context.Context
	client  *langfuse.Langfuse
}

// Generation creates a new generation span within the trace
func (t *Trace) Generation(name string, metadata map[string]interface{}) *Generation {
	if !t.enabled {
		return &Generation{enabled: false}
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   t.trace.ID,
		Name:      name,
		StartTime: &now,
		Metadata:  metadata,
	}, nil)
	if err != nil {
		log.Printf("[WARN] Failed to create Langfuse generation: %v", err)
		return &Generation{enabled: false}
	}

	return &Generation{generation: gen, enabled: true, client: t.client}
}

// Finish completes the trace and flushes batched events to Langfuse.
func (t *Trace) Finish() {
	if t.enabled && t.client != nil {
		t.client.Flush(t.ctx)
	}
}

// Generation represents a Langfuse generation span
type Generation struct {
	generation *model.Generation
	enabled    bool
	client     *langfuse.Langfuse
}

// Input sets the input for the generation
func (g *Generation) Input(input interface{}) {
	if g.enabled && g.generation != nil {
		g.generation.Input = input
	}
}

// Output sets the output for the generation
func (g *Generation) Output(output interface{}) {
	if g.enabled && g.generation != nil {
		g.generation.Output = output
	}
}

// LogUsage records token usage and the model name on the generation.
func (g *Generation) LogUsage(usage *llm.TokenUsage, modelName string) {
	if !g.enabled || g.generation == nil || usage == nil {
		return
	}
	g.generation.Model = modelName
	g.generation.Usage = model.Usage{
		Input:  int(usage.InputTokens),
		Output: int(usage.OutputTokens),
		Total:  int(usage.TotalTokens),
		Unit:   model.ModelUsageUnitTokens,
	}
}

// SetLevel sets the observation level of the generation
func (g *Generation) SetLevel(level string) {
	if g.enabled && g.generation != nil {
		g.generation.Level = model.ObservationLevel(level)
	}
}

// Finish completes the generation and queues it for sending.
func (g *Generation) Finish() {
	if g.enabled && g.generation != nil && g.client != nil {
		now := time.Now()
		g.generation.EndTime = &now
		if _, err := g.client.GenerationEnd(g.generation); err != nil {
			log.Printf("[WARN] Failed to end Langfuse generation: %v", err)
		}
	}
}
