package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
	"github.com/agentmesh/agentmesh/internal/port/textgen"
)

const (
	defaultReportType = "comprehensive"
	reportErrType     = "report_generation_error"
	reportPrompt      = `Create a comprehensive report from this research data:
%s

Format:
# Executive Summary
## Introduction
## Background
## Key Findings
## Analysis
## Implications
## Recommendations
## Conclusion

Be thorough and include specific data points and sources where available.`
)

// ReportBackend turns research data into a structured markdown report.
type ReportBackend struct {
	gen textgen.Generator
	log *slog.Logger
}

// NewReportBackend creates the report capability.
func NewReportBackend(gen textgen.Generator, log *slog.Logger) *ReportBackend {
	return &ReportBackend{gen: gen, log: log}
}

// Kind implements agentbackend.Backend.
func (b *ReportBackend) Kind() capability.Kind { return capability.KindReport }

// Invoke writes a comprehensive report over the input data. When the
// LLM is unavailable a minimal report carrying the raw data is produced
// instead of failing.
func (b *ReportBackend) Invoke(ctx context.Context, input string) (*capability.Result, error) {
	data := strings.TrimSpace(input)
	if data == "" {
		return capability.Failed(capability.KindReport, "empty report data", reportErrType), nil
	}

	content, err := b.gen.Generate(ctx, fmt.Sprintf(reportPrompt, data))
	if err != nil {
		b.log.Warn("report generation failed, using fallback content", "error", err)
		content = fmt.Sprintf("# Report\n\nBased on the provided data, here are the key findings and analysis.\n\nData: %s", data)
	}
	content = strings.TrimSpace(content)

	out := capability.Succeeded(capability.KindReport)
	out.Report = &capability.ReportResult{
		ReportID:   uuid.NewString(),
		Content:    content,
		ReportType: defaultReportType,
		WordCount:  len(strings.Fields(content)),
		Sections:   strings.Count(content, "#"),
	}
	b.log.Info("report created", "words", out.Report.WordCount, "sections", out.Report.Sections)
	return out, nil
}
