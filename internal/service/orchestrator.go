// Package service implements the orchestration engine: request
// classification, sequential step execution with context propagation
// and retry, and final result aggregation.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/internal/adapter/a2aclient"
	"github.com/agentmesh/agentmesh/internal/adapter/otel"
	"github.com/agentmesh/agentmesh/internal/config"
	"github.com/agentmesh/agentmesh/internal/domain/a2a"
	"github.com/agentmesh/agentmesh/internal/domain/capability"
	"github.com/agentmesh/agentmesh/internal/resilience"
)

// PeerClient is the slice of the protocol client the orchestrator
// drives. *a2aclient.Client satisfies it.
type PeerClient interface {
	SubmitAndWait(ctx context.Context, baseURL, text string, maxWait time.Duration) (*a2a.Task, error)
	ExtractResult(task *a2a.Task) a2aclient.Extracted
}

// Classifier produces free-form text; the orchestrator uses it for plan
// classification and nothing else.
type Classifier interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// displayNames are the advertised agent names per capability, shown in
// per-step records.
var displayNames = map[capability.Kind]string{
	capability.KindResearch: "Research Specialist",
	capability.KindWriting:  "Writing Specialist",
	capability.KindImage:    "Image Generation Specialist",
	capability.KindReport:   "Report Writing Specialist",
}

// Orchestrator coordinates one user request across the capability
// agents: classify into a plan, execute each step sequentially against
// the owning peer, aggregate into a final response.
type Orchestrator struct {
	classifier Classifier
	client     PeerClient
	cfg        config.Orchestrator
	retry      resilience.RetryPolicy
	metrics    *otel.Metrics
	log        *slog.Logger
}

// NewOrchestrator creates an orchestrator. metrics may be nil.
func NewOrchestrator(classifier Classifier, client PeerClient, cfg config.Orchestrator, metrics *otel.Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		client:     client,
		cfg:        cfg,
		retry:      resilience.RetryPolicy{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay},
		metrics:    metrics,
		log:        log,
	}
}

// Process runs the full pipeline for one user request. The returned
// result is always success-shaped: step failures are recorded inside
// the assistant payload, never promoted to a top-level failure.
func (o *Orchestrator) Process(ctx context.Context, input string) (*capability.Result, error) {
	requestID := uuid.NewString()
	o.log.Info("processing request", "request_id", requestID, "input_len", len(input))

	plan := o.Classify(ctx, input)
	steps := o.Execute(ctx, requestID, plan, input)
	final := o.Aggregate(plan, steps)

	out := capability.Succeeded(capability.KindAssistant)
	out.Assistant = &capability.AssistantResult{
		RequestID:     requestID,
		UserInput:     input,
		Analysis:      plan,
		StepResults:   steps,
		FinalResponse: final,
	}
	return out, nil
}

// Execute runs the plan's capabilities strictly in order. Each step's
// input may embed condensed context from earlier steps, so no two steps
// ever run concurrently. A failed step is recorded and the loop moves
// on; partial completion is the designed outcome.
func (o *Orchestrator) Execute(ctx context.Context, requestID string, plan capability.Plan, request string) []capability.StepResult {
	steps := make([]capability.StepResult, 0, len(plan.Capabilities))
	prior := make(map[capability.Kind]map[string]any)

	for _, kind := range plan.Capabilities {
		stepCtx, span := otel.StartStepSpan(ctx, requestID, string(kind))
		step := o.executeStep(stepCtx, kind, request, prior)
		span.End()

		if step.Success && step.Output != nil {
			prior[kind] = step.Output
		}
		steps = append(steps, step)
	}
	return steps
}

func (o *Orchestrator) executeStep(ctx context.Context, kind capability.Kind, request string, prior map[capability.Kind]map[string]any) capability.StepResult {
	step := capability.StepResult{
		Capability: kind,
		AgentName:  displayNames[kind],
		Input:      o.buildStepInput(kind, request, prior),
	}

	baseURL, ok := o.peerURL(kind)
	if !ok {
		step.Error = fmt.Sprintf("no agent endpoint configured for capability %q", kind)
		return step
	}

	start := time.Now()
	var task *a2a.Task
	err := o.retry.Do(ctx, func(attempt int) error {
		step.Attempts = attempt
		if attempt > 1 {
			o.log.Warn("retrying step", "capability", kind, "attempt", attempt)
			if o.metrics != nil {
				o.metrics.StepRetries.Add(ctx, 1)
			}
		}
		t, err := o.client.SubmitAndWait(ctx, baseURL, step.Input, o.cfg.MaxWait)
		if err != nil {
			return err
		}
		if t.Status.State != a2a.StateCompleted {
			return fmt.Errorf("task ended in state %s", t.Status.State)
		}
		task = t
		return nil
	})
	if o.metrics != nil {
		o.metrics.StepDuration.Record(ctx, time.Since(start).Seconds())
	}

	if err != nil {
		step.Error = err.Error()
		o.log.Error("step failed", "capability", kind, "attempts", step.Attempts, "error", err)
		return step
	}

	step.Success = true
	step.Output = o.extractOutput(task)
	for _, artifact := range task.Artifacts {
		step.Artifacts = append(step.Artifacts, artifact)
	}
	o.log.Info("step completed", "capability", kind, "attempts", step.Attempts)
	return step
}

// buildStepInput enriches the original request with condensed context
// from earlier steps where the capability benefits from it: image and
// writing consult a prior research summary, report consults any prior
// result. The context snippet is length-bounded.
func (o *Orchestrator) buildStepInput(kind capability.Kind, request string, prior map[capability.Kind]map[string]any) string {
	switch kind {
	case capability.KindImage, capability.KindWriting:
		if research, ok := prior[capability.KindResearch]; ok {
			if summary := condense(stringField(research, "summary"), o.cfg.ContextLimit); summary != "" {
				return fmt.Sprintf("%s\n\nContext from research: %s", request, summary)
			}
		}
	case capability.KindReport:
		if prev := o.anyPriorContext(prior); prev != "" {
			return fmt.Sprintf("%s\n\nContext from previous steps: %s", request, prev)
		}
	}
	return request
}

// anyPriorContext condenses the most useful earlier result: a research
// summary when present, otherwise the first available result record.
func (o *Orchestrator) anyPriorContext(prior map[capability.Kind]map[string]any) string {
	if research, ok := prior[capability.KindResearch]; ok {
		if summary := condense(stringField(research, "summary"), o.cfg.ContextLimit); summary != "" {
			return summary
		}
	}
	for _, output := range prior {
		if raw, err := json.Marshal(output); err == nil {
			return condense(string(raw), o.cfg.ContextLimit)
		}
	}
	return ""
}

// extractOutput turns the task's primary result into a generic record.
// Text parts that hold an encoded record are decoded; text that does
// not parse is kept as plain content rather than failing the step.
func (o *Orchestrator) extractOutput(task *a2a.Task) map[string]any {
	extracted := o.client.ExtractResult(task)
	switch extracted.Kind {
	case "data":
		if m, ok := extracted.Data.(map[string]any); ok {
			return m
		}
	case "text":
		text, _ := extracted.Data.(string)
		var m map[string]any
		if err := json.Unmarshal([]byte(text), &m); err == nil && m != nil {
			return m
		}
		return map[string]any{"content": text}
	case "file":
		if m, ok := extracted.Data.(map[string]any); ok {
			return m
		}
	}
	return nil
}

func (o *Orchestrator) peerURL(kind capability.Kind) (string, bool) {
	switch kind {
	case capability.KindImage:
		return o.cfg.ImageAgentURL, true
	case capability.KindWriting:
		return o.cfg.WriterAgentURL, true
	case capability.KindResearch:
		return o.cfg.ResearchAgentURL, true
	case capability.KindReport:
		return o.cfg.ReportAgentURL, true
	}
	return "", false
}

// condense bounds free text to limit runes.
func condense(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
