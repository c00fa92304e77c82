// Package agent implements the capability backends hosted behind the
// task protocol: research, writing, image generation, reporting and the
// assistant wrapper around the orchestrator.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
	"github.com/agentmesh/agentmesh/internal/port/textgen"
	"github.com/agentmesh/agentmesh/internal/port/websearch"
)

const (
	researchQueryCount    = 5
	resultsPerQuery       = 5
	summarySourceLimit    = 10
	researchErrType       = "research_error"
	queryGenerationPrompt = `Generate %d different search queries to research this topic comprehensively: %q

The queries should cover different aspects like:
- Basic definition and overview
- Recent developments
- Expert opinions
- Statistics and data
- Practical applications

Return only the search queries, one per line.`
	summaryPrompt = `Based on these research results about %q, provide a concise summary (2-3 paragraphs):

Titles: %s

Snippets: %s

Focus on the main findings, key facts, and important insights. Be objective and factual.`
)

// ResearchBackend performs multi-query web research over a topic and
// condenses the results into a summary.
type ResearchBackend struct {
	gen    textgen.Generator
	search websearch.Searcher
	log    *slog.Logger
}

// NewResearchBackend creates the research capability.
func NewResearchBackend(gen textgen.Generator, search websearch.Searcher, log *slog.Logger) *ResearchBackend {
	return &ResearchBackend{gen: gen, search: search, log: log}
}

// Kind implements agentbackend.Backend.
func (b *ResearchBackend) Kind() capability.Kind { return capability.KindResearch }

// Invoke researches the topic: query generation, one search per query,
// then an LLM summary over the aggregated hits. Individual search
// failures are skipped, not fatal.
func (b *ResearchBackend) Invoke(ctx context.Context, input string) (*capability.Result, error) {
	topic := strings.TrimSpace(input)
	if topic == "" {
		return capability.Failed(capability.KindResearch, "empty research topic", researchErrType), nil
	}

	queries := b.generateQueries(ctx, topic)

	var all []capability.SearchItem
	var knowledge map[string]any
	for _, q := range queries {
		res, err := b.search.Search(ctx, q, resultsPerQuery)
		if err != nil {
			b.log.Warn("search query failed", "query", q, "error", err)
			continue
		}
		for _, item := range res.Items {
			all = append(all, capability.SearchItem{
				Title:    item.Title,
				Link:     item.Link,
				Snippet:  item.Snippet,
				Position: item.Position,
			})
		}
		if knowledge == nil && res.KnowledgeGraph != nil {
			knowledge = map[string]any{
				"title":       res.KnowledgeGraph.Title,
				"description": res.KnowledgeGraph.Description,
				"website":     res.KnowledgeGraph.Website,
				"attributes":  res.KnowledgeGraph.Attributes,
			}
		}
	}

	summary := b.summarize(ctx, topic, all)

	out := capability.Succeeded(capability.KindResearch)
	out.Research = &capability.ResearchResult{
		ResearchID:    uuid.NewString(),
		Topic:         topic,
		SearchQueries: queries,
		TotalResults:  len(all),
		Results:       all,
		Summary:       summary,
		Knowledge:     knowledge,
	}
	b.log.Info("research completed", "topic", topic, "queries", len(queries), "results", len(all))
	return out, nil
}

// generateQueries asks the LLM for diverse queries and falls back to a
// deterministic set when generation fails or yields nothing.
func (b *ResearchBackend) generateQueries(ctx context.Context, topic string) []string {
	fallback := []string{
		topic + " overview",
		topic + " recent news",
		topic + " statistics data",
		topic + " expert analysis",
		topic + " research studies",
	}

	raw, err := b.gen.Generate(ctx, fmt.Sprintf(queryGenerationPrompt, researchQueryCount, topic))
	if err != nil {
		b.log.Warn("query generation failed, using fallback queries", "error", err)
		return fallback
	}

	var queries []string
	for _, line := range strings.Split(raw, "\n") {
		q := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `"'`))
		if q != "" {
			queries = append(queries, q)
		}
		if len(queries) == researchQueryCount {
			break
		}
	}
	if len(queries) == 0 {
		return fallback
	}
	return queries
}

// summarize condenses the top hits into a short summary, degrading to a
// fixed sentence when the LLM is unavailable.
func (b *ResearchBackend) summarize(ctx context.Context, topic string, items []capability.SearchItem) string {
	if len(items) == 0 {
		return "No research results found."
	}

	top := items
	if len(top) > summarySourceLimit {
		top = top[:summarySourceLimit]
	}
	var titles, snippets []string
	for _, item := range top {
		titles = append(titles, item.Title)
		snippets = append(snippets, item.Snippet)
	}

	summary, err := b.gen.Generate(ctx, fmt.Sprintf(summaryPrompt, topic,
		strings.Join(titles, "; "), strings.Join(snippets, " | ")))
	if err != nil {
		b.log.Warn("summary generation failed", "topic", topic, "error", err)
		return "Research completed successfully. Multiple sources were found and analyzed."
	}
	return strings.TrimSpace(summary)
}
