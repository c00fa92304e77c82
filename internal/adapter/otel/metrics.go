package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "agentmesh"

// Metrics holds all AgentMesh metric instruments.
type Metrics struct {
	TasksStarted   metric.Int64Counter
	TasksCompleted metric.Int64Counter
	TasksFailed    metric.Int64Counter
	StepRetries    metric.Int64Counter
	StepDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksStarted, err = meter.Int64Counter("agentmesh.tasks.started",
		metric.WithDescription("Number of protocol tasks accepted"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("agentmesh.tasks.completed",
		metric.WithDescription("Number of protocol tasks completed"))
	if err != nil {
		return nil, err
	}

	m.TasksFailed, err = meter.Int64Counter("agentmesh.tasks.failed",
		metric.WithDescription("Number of protocol tasks failed"))
	if err != nil {
		return nil, err
	}

	m.StepRetries, err = meter.Int64Counter("agentmesh.steps.retries",
		metric.WithDescription("Number of orchestration step retry attempts"))
	if err != nil {
		return nil, err
	}

	m.StepDuration, err = meter.Float64Histogram("agentmesh.step.duration_seconds",
		metric.WithDescription("Orchestration step duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
