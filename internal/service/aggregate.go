package service

import (
	"fmt"
	"strings"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
)

// Aggregate renders the final human-readable report: one summary block
// per step regardless of success, closed by an overall status line. The
// wording distinguishes all succeeded, partial (k of n) and all failed.
func (o *Orchestrator) Aggregate(plan capability.Plan, steps []capability.StepResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n\n", plan.PrimaryTask)

	succeeded := 0
	for _, step := range steps {
		if step.Success {
			succeeded++
			b.WriteString(successBlock(step))
		} else {
			fmt.Fprintf(&b, "[%s] failed after %d attempt(s): %s\n", step.Capability, step.Attempts, step.Error)
		}
		b.WriteString("\n")
	}

	switch {
	case len(steps) == 0:
		b.WriteString("No steps were executed.")
	case succeeded == len(steps):
		fmt.Fprintf(&b, "All %d step(s) completed successfully.", len(steps))
	case succeeded == 0:
		fmt.Fprintf(&b, "All %d step(s) failed.", len(steps))
	default:
		fmt.Fprintf(&b, "%d of %d steps completed successfully.", succeeded, len(steps))
	}
	return b.String()
}

// successBlock renders a field-by-field summary for the known result
// shapes and a generic line otherwise.
func successBlock(step capability.StepResult) string {
	out := step.Output
	switch step.Capability {
	case capability.KindResearch:
		return fmt.Sprintf("[research] %s found %v results.\nSummary: %s\n",
			step.AgentName, out["total_results"], stringField(out, "summary"))
	case capability.KindWriting:
		return fmt.Sprintf("[writing] %s wrote %q (%v words).\n\n%s\n",
			step.AgentName, stringField(out, "title"), out["word_count"], stringField(out, "content"))
	case capability.KindImage:
		return fmt.Sprintf("[image] %s generated %s (%v KB) at %s.\n",
			step.AgentName, stringField(out, "file_name"), out["file_size_kb"], stringField(out, "file_path"))
	case capability.KindReport:
		return fmt.Sprintf("[report] %s produced a %s report (%v words, %v sections).\n\n%s\n",
			step.AgentName, stringField(out, "report_type"), out["word_count"], out["sections"],
			stringField(out, "content"))
	default:
		return fmt.Sprintf("[%s] step completed.\n", step.Capability)
	}
}
