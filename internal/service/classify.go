package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
)

const classifyPrompt = `You are an intelligent request analyzer for a multi-agent system. Analyze the user request and determine which specialized agents should handle it.

Available agents:
- image: Generate images, create visuals, illustrations, photos, artwork
- writing: Create articles, stories, content, text-based responses
- research: Web search, fact-checking, gather information, investigate topics
- report: Create comprehensive reports, analyze data, structured documents

Examples:

User: "Create a picture of a sunset over mountains"
Analysis: {"required_agents": ["image"], "primary_task": "image generation", "coordination_strategy": "sequential"}

User: "Write an article about renewable energy"
Analysis: {"required_agents": ["writing"], "primary_task": "content creation", "coordination_strategy": "sequential"}

User: "Research the latest developments in AI technology"
Analysis: {"required_agents": ["research"], "primary_task": "information gathering", "coordination_strategy": "sequential"}

User: "Find information about climate change and create a comprehensive report"
Analysis: {"required_agents": ["research", "report"], "primary_task": "research and reporting", "coordination_strategy": "sequential"}

User: "Research renewable energy trends and create an article with solar panel images"
Analysis: {"required_agents": ["research", "writing", "image"], "primary_task": "multi-modal content creation", "coordination_strategy": "sequential"}

Now analyze this request:
User: %q
Analysis: `

// Keyword sets for the deterministic fallback, checked in priority
// order: image, research, report, else writing.
var (
	imageKeywords    = []string{"image", "picture", "photo", "draw", "sketch", "illustration", "visual", "artwork", "logo", "graphic"}
	researchKeywords = []string{"research", "find", "search", "investigate", "study"}
	reportKeywords   = []string{"report", "analysis", "comprehensive"}
)

// Classify turns a free-form request into an execution plan. The
// primary path asks the LLM for a structured plan; anything short of a
// valid plan falls back to the keyword scan, so classification never
// fails outright.
func (o *Orchestrator) Classify(ctx context.Context, input string) capability.Plan {
	raw, err := o.classifier.Generate(ctx, fmt.Sprintf(classifyPrompt, input))
	if err == nil {
		if plan, ok := parsePlan(raw); ok {
			o.log.Info("request classified", "capabilities", plan.Capabilities, "task", plan.PrimaryTask)
			return plan
		}
		o.log.Warn("classifier response unparseable, using keyword fallback")
	} else {
		o.log.Warn("classification failed, using keyword fallback", "error", err)
	}
	return keywordPlan(input)
}

// parsePlan extracts the first JSON object embedded in the classifier
// output and validates it as a plan.
func parsePlan(raw string) (capability.Plan, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return capability.Plan{}, false
	}

	var plan capability.Plan
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return capability.Plan{}, false
	}
	if !plan.Valid() {
		return capability.Plan{}, false
	}
	return plan, true
}

// keywordPlan is the deterministic single-capability fallback.
func keywordPlan(input string) capability.Plan {
	lower := strings.ToLower(input)
	switch {
	case containsAny(lower, imageKeywords):
		return capability.Plan{
			Capabilities: []capability.Kind{capability.KindImage},
			PrimaryTask:  "image generation",
			Strategy:     "sequential",
		}
	case containsAny(lower, researchKeywords):
		return capability.Plan{
			Capabilities: []capability.Kind{capability.KindResearch},
			PrimaryTask:  "research",
			Strategy:     "sequential",
		}
	case containsAny(lower, reportKeywords):
		return capability.Plan{
			Capabilities: []capability.Kind{capability.KindResearch, capability.KindReport},
			PrimaryTask:  "report creation",
			Strategy:     "sequential",
		}
	default:
		return capability.Plan{
			Capabilities: []capability.Kind{capability.KindWriting},
			PrimaryTask:  "text generation",
			Strategy:     "sequential",
		}
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
