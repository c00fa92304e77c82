// Package textgen defines the port for text generation.
package textgen

import "context"

// Generator produces free-form text from a prompt. The orchestrator's
// classifier and the writing/research/report capabilities consume it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
